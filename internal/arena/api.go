package arena

import (
	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// API is the capability handed to a controller for one invocation. It is
// bound to a single vehicle and stops working once the invocation returns.
// Commands that cannot apply (shutdown, cooldown, non-finite input) are
// silent no-ops that report false.
type API struct {
	e *Engine
	v *Vehicle
}

func (a *API) live() bool {
	return a != nil && a.e != nil && a.v != nil && a.v.Active
}

// Thrust sets the target speed to amount (clamped to [0,1]) times the
// effective top speed.
func (a *API) Thrust(amount float64) bool {
	if !a.live() || a.v.Shutdown || !geom.Finite(amount) {
		return false
	}
	a.v.Command.Speed = geom.Clamp01(amount) * a.v.EffectiveMaxSpeed()
	return true
}

// Brake sets the target speed to zero.
func (a *API) Brake() bool {
	if !a.live() || a.v.Shutdown {
		return false
	}
	a.v.Command.Speed = 0
	return true
}

// Turn sets the absolute target body heading in degrees.
func (a *API) Turn(heading float64) bool {
	if !a.live() || a.v.Shutdown || !geom.Finite(heading) {
		return false
	}
	a.v.Command.Heading = geom.NormalizeAngle(heading)
	return true
}

// TurnTurret sets the target turret offset relative to the body, in degrees.
func (a *API) TurnTurret(offset float64) bool {
	if !a.live() || a.v.Shutdown || !geom.Finite(offset) {
		return false
	}
	a.v.Command.TurretOffset = geom.NormalizeAngle(offset)
	return true
}

// Scan sweeps the sensor across an arc centred on an absolute heading and
// returns the opponents inside it. A width <= 0, or wider than the vehicle's
// sensor, uses the sensor's own arc. Returns nil while shutdown or cooling
// down.
func (a *API) Scan(heading, width float64) []Contact {
	if !a.live() {
		return nil
	}
	return a.e.scan(a.v, heading, width)
}

// ScanRelative is Scan with the heading given relative to the body.
func (a *API) ScanRelative(offset, width float64) []Contact {
	if !a.live() {
		return nil
	}
	return a.e.scan(a.v, a.v.Heading+offset, width)
}

// Fire launches a projectile along the current turret heading.
func (a *API) Fire() bool {
	if !a.live() {
		return false
	}
	return a.e.fire(a.v)
}

// Overburn toggles boost mode.
func (a *API) Overburn(on bool) bool {
	if !a.live() || a.v.Shutdown {
		return false
	}
	a.v.Command.Overburn = on
	return true
}

// AngleTo returns the absolute heading from the vehicle to (x,y).
func (a *API) AngleTo(x, y float64) float64 {
	if a == nil || a.v == nil {
		return 0
	}
	return geom.BearingTo(a.v.X, a.v.Y, x, y)
}

// DistanceTo returns the distance from the vehicle to (x,y).
func (a *API) DistanceTo(x, y float64) float64 {
	if a == nil || a.v == nil {
		return 0
	}
	return geom.DistanceTo(a.v.X, a.v.Y, x, y)
}

// NormalizeAngle wraps a to (-180, 180].
func (a *API) NormalizeAngle(deg float64) float64 {
	return geom.NormalizeAngle(deg)
}

// ArenaSize returns the arena width and height.
func (a *API) ArenaSize() (float64, float64) {
	if a == nil || a.e == nil {
		return 0, 0
	}
	return a.e.settings.Width, a.e.settings.Height
}

// Pilot drives the single manually controlled vehicle. It writes the same
// command fields the API does and adds relative helpers for keyboard input.
// Unlike API it stays valid for the whole match.
type Pilot struct {
	m   *Match
	api API
}

func (p *Pilot) do(fn func(a *API) bool) bool {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.state != StateRunning || p.api.e != p.m.engine {
		return false
	}
	return fn(&p.api)
}

// VehicleID is the piloted vehicle's ID.
func (p *Pilot) VehicleID() string { return p.api.v.ID }

// Thrust sets target speed as a fraction of top speed.
func (p *Pilot) Thrust(amount float64) bool {
	return p.do(func(a *API) bool { return a.Thrust(amount) })
}

// Brake sets target speed to zero.
func (p *Pilot) Brake() bool {
	return p.do(func(a *API) bool { return a.Brake() })
}

// Fire shoots along the turret.
func (p *Pilot) Fire() bool {
	return p.do(func(a *API) bool { return a.Fire() })
}

// Overburn toggles boost.
func (p *Pilot) Overburn(on bool) bool {
	return p.do(func(a *API) bool { return a.Overburn(on) })
}

// TurnBy nudges the commanded body heading by delta degrees.
func (p *Pilot) TurnBy(delta float64) bool {
	return p.do(func(a *API) bool { return a.Turn(a.v.Command.Heading + delta) })
}

// TurnTurretBy nudges the commanded turret offset by delta degrees.
func (p *Pilot) TurnTurretBy(delta float64) bool {
	return p.do(func(a *API) bool { return a.TurnTurret(a.v.Command.TurretOffset + delta) })
}

// Scan sweeps along the current turret heading with the full sensor arc.
func (p *Pilot) Scan() []Contact {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.state != StateRunning || p.api.e != p.m.engine {
		return nil
	}
	return p.api.Scan(p.api.v.TurretHeading, 0)
}
