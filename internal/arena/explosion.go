package arena

import (
	"math"

	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// Explosion is an area-damage event. Damage is applied once, when the
// explosion is created, with linear falloff out to MaxRadius. The fields
// below Elapsed only drive the visual and never deal damage.
type Explosion struct {
	X, Y      float64
	MaxRadius float64
	Damage    float64
	Duration  float64 // seconds
	Source    string  // vehicle credited with the damage; may be empty

	Elapsed float64
	Radius  float64 // current visual radius
	Opacity float64 // 1 until 70% through, then fades to 0
	Done    bool
}

// ExplosionState is the observer copy of an explosion.
type ExplosionState struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Opacity   float64
}

func (x *Explosion) state() ExplosionState {
	return ExplosionState{X: x.X, Y: x.Y, Radius: x.Radius, MaxRadius: x.MaxRadius, Opacity: x.Opacity}
}

// advance moves the animation forward. Growth is front-loaded (sqrt).
func (x *Explosion) advance(dt float64) {
	x.Elapsed += dt
	progress := 1.0
	if x.Duration > 0 {
		progress = math.Min(1, x.Elapsed/x.Duration)
	}
	x.Radius = x.MaxRadius * math.Sqrt(progress)
	if progress < 0.7 {
		x.Opacity = 1
	} else {
		x.Opacity = math.Max(0, 1-(progress-0.7)/0.3)
	}
	if progress >= 1 {
		x.Done = true
	}
}

// ExplosionDamageAt returns the damage an explosion of the given nominal
// damage and radius deals at distance d: full at the centre, zero at the rim.
func ExplosionDamageAt(damage, maxRadius, d float64) float64 {
	if maxRadius <= 0 || d > maxRadius {
		return 0
	}
	return damage * (1 - d/maxRadius)
}

// spawnExplosion records an explosion and applies its damage immediately to
// every active vehicle inside MaxRadius. Destroyed vehicles spawn their own
// explosions, so blasts can chain.
func (e *Engine) spawnExplosion(x, y, maxRadius, damage, duration float64, source string) {
	e.explosions = append(e.explosions, &Explosion{
		X:         x,
		Y:         y,
		MaxRadius: maxRadius,
		Damage:    damage,
		Duration:  duration,
		Source:    source,
		Opacity:   1,
	})
	e.metrics.explosion(e.ctx)
	for _, v := range e.vehicles {
		if !v.Active {
			continue
		}
		d := geom.DistanceTo(x, y, v.X, v.Y)
		if d > maxRadius {
			continue
		}
		e.damage(v, ExplosionDamageAt(damage, maxRadius, d), source, "explosion")
	}
}

func (e *Engine) advanceExplosions(dt float64) {
	kept := e.explosions[:0]
	for _, x := range e.explosions {
		x.advance(dt)
		if x.Done {
			continue
		}
		kept = append(kept, x)
	}
	clearTail(e.explosions, len(kept))
	e.explosions = kept
}
