package bots

import (
	"context"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/geom"
)

const hunterKey = "bots.hunter"

// Hunter drives toward the middle of the arena sweeping its sensor, then
// chases the closest contact to engagement range and fires whenever the
// turret is on target.
type Hunter struct {
	SweepStep       float64 // degrees the sweep advances per scan
	EngageRange     float64 // stop closing inside this distance
	FireTolerance   float64 // degrees of turret error allowed when firing
	HeatCeiling     float64 // fraction of max heat above which it holds fire
	OverburnCeiling float64 // fraction of max heat below which overburn is used
	ProjectileSpeed float64 // for lead; 0 aims straight at the contact
	MaxMisses       int     // empty re-scans before giving up on a target
}

// NewHunter returns a Hunter tuned for the default vehicle.
func NewHunter() *Hunter {
	return &Hunter{
		SweepStep:       50,
		EngageRange:     150,
		FireTolerance:   5,
		HeatCeiling:     0.85,
		OverburnCeiling: 0.5,
		ProjectileSpeed: arena.DefaultVehicleSpec().ProjectileSpeed,
		MaxMisses:       3,
	}
}

type hunterState struct {
	sweep  float64
	target *arena.Contact
	misses int
}

func (h *Hunter) Control(_ context.Context, info arena.Info, api *arena.API, mem arena.Memory) error {
	st, _ := mem[hunterKey].(*hunterState)
	if st == nil {
		st = &hunterState{sweep: info.Heading}
		mem[hunterKey] = st
	}
	if st.target == nil {
		h.search(info, api, st)
		return nil
	}
	h.attack(info, api, st)
	return nil
}

func (h *Hunter) search(info arena.Info, api *arena.API, st *hunterState) {
	api.Overburn(false)
	w, ht := api.ArenaSize()
	if api.DistanceTo(w/2, ht/2) > h.EngageRange {
		api.Turn(api.AngleTo(w/2, ht/2))
		api.Thrust(0.5)
	} else {
		api.Turn(info.Heading + 30)
		api.Thrust(0.2)
	}
	if info.ScanCooldown > 0 {
		return
	}
	st.sweep = geom.NormalizeAngle(st.sweep + h.SweepStep)
	if c, ok := closest(api.Scan(st.sweep, 0)); ok {
		st.target = &c
		st.misses = 0
	}
}

func (h *Hunter) attack(info arena.Info, api *arena.API, st *hunterState) {
	t := *st.target
	bearing := api.AngleTo(t.X, t.Y)
	dist := api.DistanceTo(t.X, t.Y)

	api.Turn(bearing)
	if dist > h.EngageRange {
		api.Thrust(1)
	} else {
		api.Brake()
	}

	ax, ay := lead(info.X, info.Y, t, h.ProjectileSpeed)
	onTarget := aimTurret(info, api, ax, ay, h.FireTolerance)
	if onTarget && info.Heat < info.MaxHeat*h.HeatCeiling {
		api.Overburn(info.Heat < info.MaxHeat*h.OverburnCeiling)
		api.Fire()
	} else {
		api.Overburn(false)
	}

	if info.ScanCooldown > 0 {
		return
	}
	if c, ok := closest(api.Scan(bearing, info.ScanArc/2)); ok {
		st.target = &c
		st.misses = 0
		return
	}
	st.misses++
	if st.misses >= h.MaxMisses {
		st.target = nil
	}
}
