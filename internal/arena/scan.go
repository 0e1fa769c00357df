package arena

import (
	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// Contact is one opponent returned by a scan.
type Contact struct {
	ID       string
	X, Y     float64
	Heading  float64
	VelX     float64
	VelY     float64
	Speed    float64
	Distance float64
}

// ScanEvent is the visual record of a sweep. It grants no knowledge beyond
// the contacts already returned to the scanning controller.
type ScanEvent struct {
	Owner     string
	X, Y      float64
	Angle     float64
	Arc       float64
	Range     float64
	Remaining float64 // seconds of visual left
	Color     string
	Hits      []string
}

// ScanState is the observer copy of a scan event.
type ScanState struct {
	Owner    string
	X, Y     float64
	Angle    float64
	Arc      float64
	Range    float64
	Fade     float64 // 1 when fresh, 0 when about to vanish
	Color    string
	HitCount int
}

func (s *ScanEvent) state(visual float64) ScanState {
	fade := 0.0
	if visual > 0 {
		fade = geom.Clamp01(s.Remaining / visual)
	}
	return ScanState{
		Owner:    s.Owner,
		X:        s.X,
		Y:        s.Y,
		Angle:    s.Angle,
		Arc:      s.Arc,
		Range:    s.Range,
		Fade:     fade,
		Color:    s.Color,
		HitCount: len(s.Hits),
	}
}

// scan resolves a sweep for v. It returns nil when the sensor is unavailable,
// and an empty non-nil slice when the sweep ran but saw nothing.
func (e *Engine) scan(v *Vehicle, angle, arc float64) []Contact {
	if v.Shutdown || v.ScanCooldown > 0 {
		return nil
	}
	if !geom.Finite(angle, arc) {
		return nil
	}
	if arc <= 0 || arc > v.Spec.ScanArc {
		arc = v.Spec.ScanArc
	}
	angle = geom.NormalizeAngle(angle)

	contacts := make([]Contact, 0, 2)
	ev := &ScanEvent{
		Owner:     v.ID,
		X:         v.X,
		Y:         v.Y,
		Angle:     angle,
		Arc:       arc,
		Range:     v.Spec.ScanRange,
		Remaining: e.settings.ScanVisual,
		Color:     v.Color,
	}
	for _, t := range e.vehicles {
		if t == v || !t.Active {
			continue
		}
		d := geom.DistanceTo(v.X, v.Y, t.X, t.Y)
		if d > v.Spec.ScanRange {
			continue
		}
		if !geom.InArc(angle, arc, geom.BearingTo(v.X, v.Y, t.X, t.Y)) {
			continue
		}
		contacts = append(contacts, Contact{
			ID:       t.ID,
			X:        t.X,
			Y:        t.Y,
			Heading:  t.Heading,
			VelX:     t.VelX,
			VelY:     t.VelY,
			Speed:    t.Speed,
			Distance: d,
		})
		ev.Hits = append(ev.Hits, t.ID)
	}

	v.Command.SensorHeading = angle
	v.SensorHeading = angle
	v.ScanCooldown = v.Spec.ScanCooldown
	v.Stats.Scans++
	v.Stats.Contacts += len(contacts)
	e.scans = append(e.scans, ev)
	e.metrics.scan(e.ctx, len(contacts))
	e.log.AddVerbose(e.tick, v.Name, "sensor", "scan", formatAngle(angle), float64(len(contacts)))
	return contacts
}

// advanceScans ages scan visuals and keeps them attached to their source.
func (e *Engine) advanceScans(dt float64) {
	kept := e.scans[:0]
	for _, s := range e.scans {
		s.Remaining -= dt
		if s.Remaining <= 0 {
			continue
		}
		if src := e.vehicleByID(s.Owner); src != nil && src.Active {
			s.X, s.Y = src.X, src.Y
		}
		kept = append(kept, s)
	}
	clearTail(e.scans, len(kept))
	e.scans = kept
}
