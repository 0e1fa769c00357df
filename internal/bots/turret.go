package bots

import (
	"context"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/geom"
)

const turretKey = "bots.turret"

// Turret holds position and sweeps the sensor around the turret, firing at
// whatever it finds. It never moves.
type Turret struct {
	SweepStep     float64
	FireTolerance float64
	HeatCeiling   float64
}

// NewTurret returns a Turret tuned for the default vehicle.
func NewTurret() *Turret {
	return &Turret{SweepStep: 45, FireTolerance: 4, HeatCeiling: 0.8}
}

type turretState struct {
	target *arena.Contact
}

func (tb *Turret) Control(_ context.Context, info arena.Info, api *arena.API, mem arena.Memory) error {
	st, _ := mem[turretKey].(*turretState)
	if st == nil {
		st = &turretState{}
		mem[turretKey] = st
	}
	api.Brake()
	api.Overburn(false)

	if st.target != nil {
		t := *st.target
		if aimTurret(info, api, t.X, t.Y, tb.FireTolerance) && info.Heat < info.MaxHeat*tb.HeatCeiling {
			api.Fire()
		}
	}
	if info.ScanCooldown > 0 {
		return nil
	}

	var look float64
	if st.target == nil {
		look = geom.NormalizeAngle(info.SensorHeading + tb.SweepStep)
		api.TurnTurret(look - info.Heading)
	} else {
		look = api.AngleTo(st.target.X, st.target.Y)
	}
	if c, ok := closest(api.Scan(look, 0)); ok {
		st.target = &c
	} else {
		st.target = nil
	}
	return nil
}
