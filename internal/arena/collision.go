package arena

import (
	"math"

	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// resolveVehicleCollisions separates every overlapping pair of active
// vehicles by half the overlap each and applies ram damage to both when
// the relative speed is high enough.
func (e *Engine) resolveVehicleCollisions() {
	for i := 0; i < len(e.vehicles); i++ {
		a := e.vehicles[i]
		if !a.Active {
			continue
		}
		for j := i + 1; j < len(e.vehicles); j++ {
			b := e.vehicles[j]
			if !b.Active || !a.Active {
				continue
			}
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			minDist := a.Spec.Radius + b.Spec.Radius
			if dist >= minDist {
				continue
			}

			// Coincident centres get a fixed +X normal.
			nx, ny := 1.0, 0.0
			if dist > 1e-9 {
				nx, ny = dx/dist, dy/dist
			}
			half := (minDist - dist) / 2
			a.X -= nx * half
			a.Y -= ny * half
			b.X += nx * half
			b.Y += ny * half
			e.keepInside(a)
			e.keepInside(b)
			e.log.AddVerbose(e.tick, a.Name, "collision", "vehicle", b.Name, minDist-dist)

			impact := math.Hypot(b.VelX-a.VelX, b.VelY-a.VelY)
			if impact > impactSpeedThreshold {
				dmg := impact * impactDamageScale
				e.damage(a, dmg, b.ID, "ram")
				e.damage(b, dmg, a.ID, "ram")
			}
		}
	}
}

// keepInside pulls a vehicle pushed past a wall back onto the field.
func (e *Engine) keepInside(v *Vehicle) {
	r := v.Spec.Radius
	v.X = geom.Clamp(v.X, r, e.settings.Width-r)
	v.Y = geom.Clamp(v.Y, r, e.settings.Height-r)
}

// resolveProjectileHits applies each projectile to the first active
// non-owner vehicle it overlaps, in creation order, and removes it.
func (e *Engine) resolveProjectileHits() {
	kept := e.projectiles[:0]
	for _, p := range e.projectiles {
		hit := false
		for _, v := range e.vehicles {
			if !v.Active || v.ID == p.Owner {
				continue
			}
			if math.Hypot(v.X-p.X, v.Y-p.Y) < v.Spec.Radius+p.Radius {
				if owner := e.vehicleByID(p.Owner); owner != nil {
					owner.Stats.Hits++
				}
				e.metrics.hit(e.ctx)
				e.damage(v, p.Damage, p.Owner, "projectile")
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, p)
		}
	}
	clearTail(e.projectiles, len(kept))
	e.projectiles = kept
}
