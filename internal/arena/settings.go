package arena

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Arena defaults.
	defaultArenaWidth  = 800.0
	defaultArenaHeight = 600.0
	defaultFPSCap      = 60

	// Timestep and speed multiplier bounds.
	defaultMaxDT    = 1.0 / 30.0 // seconds; no tick ever advances further than this
	defaultMinSpeed = 0.25       // slowest operator speed multiplier
	defaultMaxSpeed = 3.0        // fastest operator speed multiplier

	// Placement.
	defaultMinVehicles       = 2
	defaultMinSeparation     = 100.0 // units between vehicle centres at spawn
	defaultPlacementMargin   = 50.0  // keep spawns this far from the walls
	defaultPlacementAttempts = 100

	// Effects.
	defaultScanVisual        = 0.5 // seconds a sweep stays on screen
	defaultExplosionDuration = 0.5 // seconds
	wallBlastRadiusScale     = 3.0 // wall blast radius = projectile radius * this
	wallBlastDamageScale     = 1.0 / 3.0
	wallBlastDuration        = 0.3 // seconds
	safetyMarginScale        = 10.0 // projectile radii beyond a wall before silent removal

	// Vehicle mechanics.
	shutdownRecoverFraction = 0.9  // shutdown clears below this fraction of max heat
	speedSnapTolerance      = 0.1  // u/s
	passiveBrakeFraction    = 0.5  // extra braking applied while coasting to zero
	impactSpeedThreshold    = 50.0 // relative u/s before rams hurt
	impactDamageScale       = 0.1  // damage per u/s of relative speed
	muzzleScale             = 1.5  // muzzle distance in vehicle radii

	defaultAgentBudget = 50 * time.Millisecond
)

// Settings configures an arena. Zero values are replaced by defaults in
// withDefaults so callers can set only what they care about.
type Settings struct {
	Width  float64
	Height float64
	FPSCap int

	MaxDT    float64 // seconds
	MinSpeed float64 // multiplier
	MaxSpeed float64 // multiplier

	MinVehicles       int
	MinSeparation     float64
	PlacementMargin   float64
	PlacementAttempts int

	ScanVisual        float64 // seconds
	ExplosionDuration float64 // seconds

	// AgentBudget bounds one controller invocation.
	AgentBudget time.Duration

	// Seed drives placement, vehicle IDs and script randomness.
	Seed int64
}

// DefaultSettings returns the stock 800x600 arena.
func DefaultSettings() Settings {
	return Settings{
		Width:             defaultArenaWidth,
		Height:            defaultArenaHeight,
		FPSCap:            defaultFPSCap,
		MaxDT:             defaultMaxDT,
		MinSpeed:          defaultMinSpeed,
		MaxSpeed:          defaultMaxSpeed,
		MinVehicles:       defaultMinVehicles,
		MinSeparation:     defaultMinSeparation,
		PlacementMargin:   defaultPlacementMargin,
		PlacementAttempts: defaultPlacementAttempts,
		ScanVisual:        defaultScanVisual,
		ExplosionDuration: defaultExplosionDuration,
		AgentBudget:       defaultAgentBudget,
		Seed:              1,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.FPSCap <= 0 {
		s.FPSCap = d.FPSCap
	}
	if s.MaxDT <= 0 {
		s.MaxDT = d.MaxDT
	}
	if s.MinSpeed <= 0 {
		s.MinSpeed = d.MinSpeed
	}
	if s.MaxSpeed <= 0 {
		s.MaxSpeed = d.MaxSpeed
	}
	if s.MinVehicles <= 0 {
		s.MinVehicles = d.MinVehicles
	}
	if s.MinSeparation <= 0 {
		s.MinSeparation = d.MinSeparation
	}
	if s.PlacementMargin <= 0 {
		s.PlacementMargin = d.PlacementMargin
	}
	if s.PlacementAttempts <= 0 {
		s.PlacementAttempts = d.PlacementAttempts
	}
	if s.ScanVisual <= 0 {
		s.ScanVisual = d.ScanVisual
	}
	if s.ExplosionDuration <= 0 {
		s.ExplosionDuration = d.ExplosionDuration
	}
	if s.AgentBudget <= 0 {
		s.AgentBudget = d.AgentBudget
	}
	return s
}

// Validate reports settings that can never produce a playable arena.
func (s Settings) Validate() error {
	if s.Width <= 2*s.PlacementMargin || s.Height <= 2*s.PlacementMargin {
		return fmt.Errorf("arena %gx%g too small for placement margin %g", s.Width, s.Height, s.PlacementMargin)
	}
	if s.MinSpeed > s.MaxSpeed {
		return fmt.Errorf("speed bounds inverted: min %g > max %g", s.MinSpeed, s.MaxSpeed)
	}
	return nil
}

// VehicleSpec holds the static performance attributes of a vehicle.
// Rates are per second; angles are degrees.
type VehicleSpec struct {
	MaxSpeed     float64 `mapstructure:"maxSpeed"`
	Acceleration float64 `mapstructure:"acceleration"`
	Braking      float64 `mapstructure:"braking"`
	BodyTurnRate float64 `mapstructure:"bodyTurnRate"`
	TurretRate   float64 `mapstructure:"turretTurnRate"`
	Radius       float64 `mapstructure:"radius"`

	Armor float64 `mapstructure:"armor"`

	FirePower    float64 `mapstructure:"firePower"`
	FireCooldown float64 `mapstructure:"fireCooldown"`

	MaxHeat          float64 `mapstructure:"maxHeat"`
	FireHeat         float64 `mapstructure:"fireHeat"`
	OverburnHeatRate float64 `mapstructure:"overburnHeatRate"`
	Dissipation      float64 `mapstructure:"dissipation"`
	OverburnSpeed    float64 `mapstructure:"overburnSpeed"`
	OverburnPower    float64 `mapstructure:"overburnPower"`

	ScanRange    float64 `mapstructure:"scanRange"`
	ScanArc      float64 `mapstructure:"scanArc"`
	ScanCooldown float64 `mapstructure:"scanCooldown"`

	ProjectileSpeed    float64 `mapstructure:"projectileSpeed"`
	ProjectileLifetime float64 `mapstructure:"projectileLifetime"`
	ProjectileRadius   float64 `mapstructure:"projectileRadius"`

	ExplosionRadius float64 `mapstructure:"explosionRadius"`
	ExplosionDamage float64 `mapstructure:"explosionDamage"`
}

// DefaultVehicleSpec returns the stock vehicle.
func DefaultVehicleSpec() VehicleSpec {
	return VehicleSpec{
		MaxSpeed:     100,
		Acceleration: 50,
		Braking:      100,
		BodyTurnRate: 180,
		TurretRate:   240,
		Radius:       10,

		Armor: 100,

		FirePower:    10,
		FireCooldown: 0.25,

		MaxHeat:          100,
		FireHeat:         10,
		OverburnHeatRate: 20,
		Dissipation:      5,
		OverburnSpeed:    1.5,
		OverburnPower:    1.2,

		ScanRange:    300,
		ScanArc:      60,
		ScanCooldown: 0.25,

		ProjectileSpeed:    300,
		ProjectileLifetime: 2,
		ProjectileRadius:   3,

		ExplosionRadius: 50,
		ExplosionDamage: 50,
	}
}

// ErrInvalidSpec is wrapped by VehicleSpec.Validate failures.
var ErrInvalidSpec = errors.New("invalid vehicle spec")

// Validate rejects specs with non-positive sizes or maxima.
func (vs VehicleSpec) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"maxSpeed", vs.MaxSpeed},
		{"acceleration", vs.Acceleration},
		{"braking", vs.Braking},
		{"radius", vs.Radius},
		{"armor", vs.Armor},
		{"maxHeat", vs.MaxHeat},
		{"projectileSpeed", vs.ProjectileSpeed},
		{"projectileLifetime", vs.ProjectileLifetime},
		{"projectileRadius", vs.ProjectileRadius},
	} {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s must be > 0, got %g", ErrInvalidSpec, f.name, f.v)
		}
	}
	if vs.OverburnSpeed < 1 || vs.OverburnPower < 1 {
		return fmt.Errorf("%w: overburn multipliers must be >= 1", ErrInvalidSpec)
	}
	return nil
}

// Overlay returns vs with every positive field of o copied over it. A nil
// overlay returns vs unchanged.
func (vs VehicleSpec) Overlay(o *VehicleSpec) VehicleSpec {
	if o == nil {
		return vs
	}
	pick := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	pick(&vs.MaxSpeed, o.MaxSpeed)
	pick(&vs.Acceleration, o.Acceleration)
	pick(&vs.Braking, o.Braking)
	pick(&vs.BodyTurnRate, o.BodyTurnRate)
	pick(&vs.TurretRate, o.TurretRate)
	pick(&vs.Radius, o.Radius)
	pick(&vs.Armor, o.Armor)
	pick(&vs.FirePower, o.FirePower)
	pick(&vs.FireCooldown, o.FireCooldown)
	pick(&vs.MaxHeat, o.MaxHeat)
	pick(&vs.FireHeat, o.FireHeat)
	pick(&vs.OverburnHeatRate, o.OverburnHeatRate)
	pick(&vs.Dissipation, o.Dissipation)
	pick(&vs.OverburnSpeed, o.OverburnSpeed)
	pick(&vs.OverburnPower, o.OverburnPower)
	pick(&vs.ScanRange, o.ScanRange)
	pick(&vs.ScanArc, o.ScanArc)
	pick(&vs.ScanCooldown, o.ScanCooldown)
	pick(&vs.ProjectileSpeed, o.ProjectileSpeed)
	pick(&vs.ProjectileLifetime, o.ProjectileLifetime)
	pick(&vs.ProjectileRadius, o.ProjectileRadius)
	pick(&vs.ExplosionRadius, o.ExplosionRadius)
	pick(&vs.ExplosionDamage, o.ExplosionDamage)
	return vs
}
