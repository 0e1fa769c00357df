package arena

import (
	"math"

	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// integrateVehicle runs the per-vehicle update for one tick:
//  1. heat and shutdown hysteresis
//  2. body rotation
//  3. turret rotation (relative offset), absolute turret recomputed
//  4. sensor heading
//  5. speed
//  6. position, clamped to the arena
//  7. cooldowns
//
// A shutdown vehicle only runs step 1.
func (e *Engine) integrateVehicle(v *Vehicle, dt float64) {
	e.updateHeat(v, dt)
	if v.Shutdown {
		return
	}

	v.Heading = geom.RotateToward(v.Heading, v.Command.Heading, v.Spec.BodyTurnRate*dt)
	v.TurretOffset = geom.RotateToward(v.TurretOffset, v.Command.TurretOffset, v.Spec.TurretRate*dt)
	v.TurretHeading = geom.NormalizeAngle(v.Heading + v.TurretOffset)
	v.SensorHeading = v.Command.SensorHeading

	v.Speed = nextSpeed(v.Speed, v.Command.Speed, v.Spec.Acceleration, v.Spec.Braking, dt)

	e.integratePosition(v, dt)

	v.FireCooldown = math.Max(0, v.FireCooldown-dt)
	v.ScanCooldown = math.Max(0, v.ScanCooldown-dt)
}

// updateHeat applies overburn generation and dissipation, then the
// shutdown hysteresis: engage at max, release strictly below 90% of max.
func (e *Engine) updateHeat(v *Vehicle, dt float64) {
	if v.Command.Overburn {
		v.Heat += v.Spec.OverburnHeatRate * dt
	}
	v.Heat -= v.Spec.Dissipation * dt
	v.Heat = geom.Clamp(v.Heat, 0, v.Spec.MaxHeat)
	e.checkShutdown(v)
}

// checkShutdown applies the hysteresis band. Entering shutdown drops
// overburn and stops the vehicle dead.
func (e *Engine) checkShutdown(v *Vehicle) {
	switch {
	case !v.Shutdown && v.Heat >= v.Spec.MaxHeat:
		v.Shutdown = true
		v.Command.Overburn = false
		v.Speed = 0
		v.VelX, v.VelY = 0, 0
		e.log.Add(e.tick, v.Name, "heat", "shutdown", "engaged", v.Heat)
		e.logger.Debug("vehicle shutdown", "vehicle", v.Name, "heat", v.Heat)
	case v.Shutdown && v.Heat < shutdownRecoverFraction*v.Spec.MaxHeat:
		v.Shutdown = false
		e.log.Add(e.tick, v.Name, "heat", "shutdown", "cleared", v.Heat)
	}
}

// nextSpeed moves cur toward target: acceleration when rising, braking when
// falling, snapping inside the tolerance. Coasting to a zero target bleeds
// an extra half of the braking rate.
func nextSpeed(cur, target, accel, brake, dt float64) float64 {
	diff := target - cur
	switch {
	case math.Abs(diff) < speedSnapTolerance:
		cur = target
	case diff > 0:
		cur = math.Min(target, cur+accel*dt)
	default:
		cur = math.Max(target, cur-brake*dt)
		cur = math.Max(0, cur)
	}
	if target == 0 && cur > 0 {
		cur = math.Max(0, cur-passiveBrakeFraction*brake*dt)
	}
	return cur
}

// integratePosition advances along the body heading and stops the vehicle
// against the walls: the clamped axis loses its velocity, no bounce.
func (e *Engine) integratePosition(v *Vehicle, dt float64) {
	v.VelX, v.VelY = geom.Polar(v.Heading, v.Speed)
	v.X += v.VelX * dt
	v.Y += v.VelY * dt

	r := v.Spec.Radius
	if v.X < r {
		v.X, v.VelX = r, 0
	} else if v.X > e.settings.Width-r {
		v.X, v.VelX = e.settings.Width-r, 0
	}
	if v.Y < r {
		v.Y, v.VelY = r, 0
	} else if v.Y > e.settings.Height-r {
		v.Y, v.VelY = e.settings.Height-r, 0
	}
}
