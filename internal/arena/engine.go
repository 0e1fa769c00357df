package arena

import (
	"context"
	"time"
)

// Entry describes one competitor at match setup.
type Entry struct {
	Name  string
	Color string
	// Spec overrides the default vehicle; zero fields keep their defaults.
	Spec *VehicleSpec
	// Controller drives the vehicle. A nil controller leaves it idle.
	Controller Controller
	// Manual marks the vehicle driven by the Pilot instead of Controller.
	Manual bool
}

// Engine owns the world and advances it one tick at a time. It is not safe
// for concurrent use; Match serialises access.
type Engine struct {
	settings Settings
	ctx      context.Context

	vehicles    []*Vehicle
	controllers []Controller // parallel to vehicles
	projectiles []*Projectile
	explosions  []*Explosion
	scans       []*ScanEvent

	tick    int
	elapsed float64
	over    bool
	winner  *Vehicle

	observers []Observer
	log       *EventLog
	logger    Logger
	metrics   *engineMetrics
}

func newEngine(settings Settings, logger Logger, log *EventLog, metrics *engineMetrics) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{
		settings: settings,
		ctx:      context.Background(),
		log:      log,
		logger:   logger,
		metrics:  metrics,
	}
}

func (e *Engine) addVehicle(v *Vehicle, c Controller) {
	e.vehicles = append(e.vehicles, v)
	e.controllers = append(e.controllers, c)
}

func (e *Engine) vehicleByID(id string) *Vehicle {
	if id == "" {
		return nil
	}
	for _, v := range e.vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Step advances the world by dt seconds. Stage order is fixed:
// agents, vehicles, projectiles, explosions, scan visuals, collisions,
// win check. After the match ends Step does nothing.
func (e *Engine) Step(dt float64) {
	if e.over || !(dt > 0) {
		return
	}
	start := time.Now()
	e.tick++
	e.elapsed += dt

	// 1. AGENTS: controllers run in creation order.
	for i, v := range e.vehicles {
		if !v.Active || v.Manual || e.controllers[i] == nil {
			continue
		}
		e.invoke(v, e.controllers[i])
	}

	// 2. VEHICLES: heat, rotation, speed, position, cooldowns.
	for _, v := range e.vehicles {
		if v.Active {
			e.integrateVehicle(v, dt)
		}
	}

	// 3. PROJECTILES
	e.advanceProjectiles(dt)

	// 4. EXPLOSIONS
	e.advanceExplosions(dt)

	// 5. SCAN VISUALS
	e.advanceScans(dt)

	// 6. COLLISIONS: vehicle pairs first, then projectile hits.
	e.resolveVehicleCollisions()
	e.resolveProjectileHits()

	// 7. WIN CHECK
	e.checkWin()

	e.metrics.tick(e.ctx, float64(time.Since(start).Microseconds())/1000)
	e.notify()
}

func (e *Engine) checkWin() {
	var alive *Vehicle
	n := 0
	for _, v := range e.vehicles {
		if v.Active {
			alive = v
			n++
		}
	}
	if n > 1 {
		return
	}
	e.over = true
	if n == 1 {
		e.winner = alive
		e.log.Add(e.tick, alive.Name, "match", "winner", alive.Name, alive.Armor)
		e.logger.Info("match over", "winner", alive.Name, "tick", e.tick)
	} else {
		e.log.Add(e.tick, "", "match", "draw", "", 0)
		e.logger.Info("match over", "winner", "draw", "tick", e.tick)
	}
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	frame := e.Frame()
	for _, o := range e.observers {
		o.Frame(frame)
		o.Status(frame.Vehicles)
	}
	if e.over {
		w := e.Winner()
		for _, o := range e.observers {
			o.GameOver(w)
		}
	}
}

// Over reports whether the win condition has been met.
func (e *Engine) Over() bool { return e.over }

// Tick returns the number of ticks executed.
func (e *Engine) Tick() int { return e.tick }

// Elapsed returns simulated seconds.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// Winner returns the surviving vehicle, or nil while running or after a draw.
func (e *Engine) Winner() *VehicleStatus {
	if e.winner == nil {
		return nil
	}
	s := e.winner.status()
	return &s
}

// Vehicles returns a status copy of every vehicle in creation order.
func (e *Engine) Vehicles() []VehicleStatus {
	out := make([]VehicleStatus, len(e.vehicles))
	for i, v := range e.vehicles {
		out[i] = v.status()
	}
	return out
}

// Frame copies the current world for observers.
func (e *Engine) Frame() Frame {
	f := Frame{
		Tick:        e.tick,
		Elapsed:     e.elapsed,
		Width:       e.settings.Width,
		Height:      e.settings.Height,
		Vehicles:    e.Vehicles(),
		Projectiles: make([]ProjectileState, len(e.projectiles)),
		Explosions:  make([]ExplosionState, len(e.explosions)),
		Scans:       make([]ScanState, len(e.scans)),
	}
	for i, p := range e.projectiles {
		f.Projectiles[i] = p.state()
	}
	for i, x := range e.explosions {
		f.Explosions[i] = x.state()
	}
	for i, s := range e.scans {
		f.Scans[i] = s.state(e.settings.ScanVisual)
	}
	return f
}
