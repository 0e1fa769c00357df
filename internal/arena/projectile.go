package arena

import "github.com/Garsondee/Algo-Arena/internal/geom"

// Projectile is a round in flight. Owner is a vehicle ID, never a pointer.
type Projectile struct {
	Owner    string
	X, Y     float64
	VX, VY   float64
	Damage   float64
	Radius   float64
	Lifetime float64 // seconds left
	Color    string
}

// ProjectileState is the observer copy of a projectile.
type ProjectileState struct {
	Owner  string
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  string
}

func (p *Projectile) state() ProjectileState {
	return ProjectileState{Owner: p.Owner, X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Radius: p.Radius, Color: p.Color}
}

// advanceProjectiles moves every projectile and handles wall impacts,
// the numerical safety bound and lifetime expiry.
func (e *Engine) advanceProjectiles(dt float64) {
	w, h := e.settings.Width, e.settings.Height
	kept := e.projectiles[:0]
	for _, p := range e.projectiles {
		margin := p.Radius * safetyMarginScale
		if !geom.Finite(p.X, p.Y, p.VX, p.VY) ||
			p.X < -margin || p.X > w+margin || p.Y < -margin || p.Y > h+margin {
			e.log.Add(e.tick, p.Owner, "projectile", "lost", "outside safety bound", 0)
			continue
		}

		p.X += p.VX * dt
		p.Y += p.VY * dt

		wx, wy := geom.Clamp(p.X, 0, w), geom.Clamp(p.Y, 0, h)
		if wx != p.X || wy != p.Y {
			e.log.Add(e.tick, p.Owner, "projectile", "wall", "", p.Damage)
			e.spawnExplosion(wx, wy,
				p.Radius*wallBlastRadiusScale,
				p.Damage*wallBlastDamageScale,
				wallBlastDuration,
				p.Owner)
			continue
		}

		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			continue
		}
		kept = append(kept, p)
	}
	clearTail(e.projectiles, len(kept))
	e.projectiles = kept
}

// clearTail nils out the abandoned tail after an in-place filter so the
// dropped entries can be collected.
func clearTail[T any](s []*T, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}
