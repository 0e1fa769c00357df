package arena

// Frame is a read-only copy of the world after a tick, for renderers.
type Frame struct {
	Tick    int
	Elapsed float64
	Width   float64
	Height  float64

	Vehicles    []VehicleStatus
	Projectiles []ProjectileState
	Explosions  []ExplosionState
	Scans       []ScanState
}

// Observer receives per-tick notifications. Implementations must not block
// for long; they run on the simulation goroutine.
type Observer interface {
	// Frame is called once per tick with a copy of the world.
	Frame(Frame)
	// Status is called once per tick with every vehicle, active or not.
	Status([]VehicleStatus)
	// GameOver is called exactly once, on the tick the match ends.
	// winner is nil for a draw.
	GameOver(winner *VehicleStatus)
}

// ObserverFuncs adapts optional callbacks to Observer.
type ObserverFuncs struct {
	OnFrame    func(Frame)
	OnStatus   func([]VehicleStatus)
	OnGameOver func(*VehicleStatus)
}

func (o ObserverFuncs) Frame(f Frame) {
	if o.OnFrame != nil {
		o.OnFrame(f)
	}
}

func (o ObserverFuncs) Status(vs []VehicleStatus) {
	if o.OnStatus != nil {
		o.OnStatus(vs)
	}
}

func (o ObserverFuncs) GameOver(w *VehicleStatus) {
	if o.OnGameOver != nil {
		o.OnGameOver(w)
	}
}
