package arena

import (
	"math"

	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// fire launches a projectile from v's muzzle along the absolute turret
// heading. It fails while shutdown or while the weapon is cooling down.
func (e *Engine) fire(v *Vehicle) bool {
	if v.Shutdown || v.FireCooldown > 0 {
		return false
	}

	mx, my := geom.Polar(v.TurretHeading, v.Spec.Radius*muzzleScale)
	vx, vy := geom.Polar(v.TurretHeading, v.Spec.ProjectileSpeed)
	damage := v.Spec.FirePower
	if v.Command.Overburn {
		damage *= v.Spec.OverburnPower
	}

	e.projectiles = append(e.projectiles, &Projectile{
		Owner:    v.ID,
		X:        v.X + mx,
		Y:        v.Y + my,
		VX:       vx,
		VY:       vy,
		Damage:   damage,
		Radius:   v.Spec.ProjectileRadius,
		Lifetime: v.Spec.ProjectileLifetime,
		Color:    v.Color,
	})

	v.FireCooldown = v.Spec.FireCooldown
	v.Heat = geom.Clamp(v.Heat+v.Spec.FireHeat, 0, v.Spec.MaxHeat)
	e.checkShutdown(v)

	v.Stats.ShotsFired++
	e.metrics.shot(e.ctx, v.Command.Overburn)
	e.log.Add(e.tick, v.Name, "weapon", "fire", formatAngle(v.TurretHeading), damage)
	return true
}

// damage applies amount to v, credits source, and destroys v when its armor
// is gone. kind is a short label for the event log.
func (e *Engine) damage(v *Vehicle, amount float64, source, kind string) {
	if !v.Active || amount <= 0 {
		return
	}
	// Stats count armor actually removed, not overkill.
	dealt := math.Min(amount, v.Armor)
	v.Armor = geom.Clamp(v.Armor-amount, 0, v.Spec.Armor)
	v.Stats.DamageTaken += dealt
	if source != "" {
		v.lastHitBy = source
		if src := e.vehicleByID(source); src != nil && src != v {
			src.Stats.DamageDealt += dealt
		}
	}
	e.log.Add(e.tick, v.Name, "damage", kind, source, amount)

	if v.Armor <= 0 {
		e.destroy(v)
	}
}

// destroy deactivates v and spawns its full-scale explosion.
func (e *Engine) destroy(v *Vehicle) {
	v.Active = false
	v.Speed = 0
	v.VelX, v.VelY = 0, 0

	killer := ""
	if src := e.vehicleByID(v.lastHitBy); src != nil && src != v {
		src.Stats.Kills++
		killer = src.Name
	}
	e.log.Add(e.tick, v.Name, "state", "destroyed", killer, 0)
	e.logger.Info("vehicle destroyed", "vehicle", v.Name, "killer", killer, "tick", e.tick)
	e.metrics.destroyed(e.ctx)

	e.spawnExplosion(v.X, v.Y, v.Spec.ExplosionRadius, v.Spec.ExplosionDamage, e.settings.ExplosionDuration, v.lastHitBy)
}
