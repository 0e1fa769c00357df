package arena

import "github.com/Garsondee/Algo-Arena/internal/geom"

// Memory is a controller's private scratch space. It persists across ticks
// and the engine never reads or resets it after creation.
type Memory map[string]any

// Command holds the targets a controller (or the manual pilot) has set.
// The engine moves the vehicle toward these every tick.
type Command struct {
	Speed         float64 // u/s
	Heading       float64 // absolute degrees
	TurretOffset  float64 // degrees relative to the body
	SensorHeading float64 // absolute degrees
	Overburn      bool
}

// Stats accumulates per-vehicle combat figures for reports.
type Stats struct {
	ShotsFired  int
	Hits        int
	DamageDealt float64
	DamageTaken float64
	Kills       int
	Scans       int
	Contacts    int
	Faults      int
}

// Vehicle is one competitor. It is owned by the engine; controllers only
// ever see it through Info and API.
type Vehicle struct {
	ID    string
	Name  string
	Color string
	Spec  VehicleSpec

	X, Y float64

	Heading       float64 // body, absolute degrees
	TurretOffset  float64 // relative to body
	TurretHeading float64 // absolute; always NormalizeAngle(Heading + TurretOffset)
	SensorHeading float64 // absolute

	Speed      float64
	VelX, VelY float64

	Armor    float64
	Heat     float64
	Shutdown bool

	Command Command

	FireCooldown float64
	ScanCooldown float64

	Active    bool
	Manual    bool
	LastError string

	Memory Memory
	Stats  Stats

	// lastHitBy is the ID of the most recent damage source, for kill credit.
	lastHitBy string
	order     int
}

func newVehicle(id, name, color string, spec VehicleSpec, x, y, heading float64, order int) *Vehicle {
	heading = geom.NormalizeAngle(heading)
	return &Vehicle{
		ID:            id,
		Name:          name,
		Color:         color,
		Spec:          spec,
		X:             x,
		Y:             y,
		Heading:       heading,
		TurretHeading: heading,
		SensorHeading: heading,
		Armor:         spec.Armor,
		Command: Command{
			Heading:       heading,
			SensorHeading: heading,
		},
		Active: true,
		Memory: Memory{},
		order:  order,
	}
}

// MaxArmor is the armor the vehicle spawned with.
func (v *Vehicle) MaxArmor() float64 { return v.Spec.Armor }

// MaxHeat is the shutdown threshold.
func (v *Vehicle) MaxHeat() float64 { return v.Spec.MaxHeat }

// EffectiveMaxSpeed is the top speed with the overburn multiplier applied
// when engaged.
func (v *Vehicle) EffectiveMaxSpeed() float64 {
	if v.Command.Overburn {
		return v.Spec.MaxSpeed * v.Spec.OverburnSpeed
	}
	return v.Spec.MaxSpeed
}

// Info is the read-only snapshot handed to a vehicle's controller each tick.
// It only ever describes the vehicle itself.
type Info struct {
	ID   string
	Name string

	X, Y float64

	Heading       float64
	TurretHeading float64
	TurretOffset  float64
	SensorHeading float64

	Speed       float64
	TargetSpeed float64
	MaxSpeed    float64

	Armor    float64
	MaxArmor float64
	Heat     float64
	MaxHeat  float64

	Shutdown bool
	Overburn bool

	FireCooldown float64
	ScanCooldown float64

	ScanRange float64
	ScanArc   float64

	Tick    int
	Elapsed float64 // seconds of simulated time
}

func (v *Vehicle) info(tick int, elapsed float64) Info {
	return Info{
		ID:            v.ID,
		Name:          v.Name,
		X:             v.X,
		Y:             v.Y,
		Heading:       v.Heading,
		TurretHeading: v.TurretHeading,
		TurretOffset:  v.TurretOffset,
		SensorHeading: v.SensorHeading,
		Speed:         v.Speed,
		TargetSpeed:   v.Command.Speed,
		MaxSpeed:      v.EffectiveMaxSpeed(),
		Armor:         v.Armor,
		MaxArmor:      v.MaxArmor(),
		Heat:          v.Heat,
		MaxHeat:       v.MaxHeat(),
		Shutdown:      v.Shutdown,
		Overburn:      v.Command.Overburn,
		FireCooldown:  v.FireCooldown,
		ScanCooldown:  v.ScanCooldown,
		ScanRange:     v.Spec.ScanRange,
		ScanArc:       v.Spec.ScanArc,
		Tick:          tick,
		Elapsed:       elapsed,
	}
}

// VehicleStatus is the value copy of a vehicle handed to observers.
type VehicleStatus struct {
	ID    string
	Name  string
	Color string

	X, Y          float64
	Heading       float64
	TurretHeading float64
	SensorHeading float64
	Speed         float64
	Radius        float64

	Armor    float64
	MaxArmor float64
	Heat     float64
	MaxHeat  float64

	Shutdown  bool
	Overburn  bool
	Active    bool
	Manual    bool
	LastError string

	Stats Stats
}

func (v *Vehicle) status() VehicleStatus {
	return VehicleStatus{
		ID:            v.ID,
		Name:          v.Name,
		Color:         v.Color,
		X:             v.X,
		Y:             v.Y,
		Heading:       v.Heading,
		TurretHeading: v.TurretHeading,
		SensorHeading: v.SensorHeading,
		Speed:         v.Speed,
		Radius:        v.Spec.Radius,
		Armor:         v.Armor,
		MaxArmor:      v.MaxArmor(),
		Heat:          v.Heat,
		MaxHeat:       v.MaxHeat(),
		Shutdown:      v.Shutdown,
		Overburn:      v.Command.Overburn,
		Active:        v.Active,
		Manual:        v.Manual,
		LastError:     v.LastError,
		Stats:         v.Stats,
	}
}
