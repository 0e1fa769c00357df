package arena

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/Algo-Arena/internal/arena"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// engineMetrics holds the engine's instruments. A nil *engineMetrics is
// valid and records nothing.
type engineMetrics struct {
	ticks      metric.Int64Counter
	shots      metric.Int64Counter
	hits       metric.Int64Counter
	scans      metric.Int64Counter
	contacts   metric.Int64Counter
	faults     metric.Int64Counter
	destroys   metric.Int64Counter
	explosions metric.Int64Counter
	tickTime   metric.Float64Histogram
}

func newEngineMetrics() (*engineMetrics, error) {
	m := meter()
	var em engineMetrics
	var err error
	if em.ticks, err = m.Int64Counter("arena.ticks",
		metric.WithDescription("Simulation ticks executed")); err != nil {
		return nil, err
	}
	if em.shots, err = m.Int64Counter("arena.shots",
		metric.WithDescription("Projectiles fired")); err != nil {
		return nil, err
	}
	if em.hits, err = m.Int64Counter("arena.hits",
		metric.WithDescription("Projectiles that struck a vehicle")); err != nil {
		return nil, err
	}
	if em.scans, err = m.Int64Counter("arena.scans",
		metric.WithDescription("Sensor sweeps resolved")); err != nil {
		return nil, err
	}
	if em.contacts, err = m.Int64Counter("arena.scan.contacts",
		metric.WithDescription("Opponents returned by sensor sweeps")); err != nil {
		return nil, err
	}
	if em.faults, err = m.Int64Counter("arena.agent.faults",
		metric.WithDescription("Controller invocations that faulted")); err != nil {
		return nil, err
	}
	if em.destroys, err = m.Int64Counter("arena.vehicles.destroyed",
		metric.WithDescription("Vehicles destroyed")); err != nil {
		return nil, err
	}
	if em.explosions, err = m.Int64Counter("arena.explosions",
		metric.WithDescription("Explosions spawned")); err != nil {
		return nil, err
	}
	if em.tickTime, err = m.Float64Histogram("arena.tick.duration",
		metric.WithDescription("Wall-clock time spent in one tick"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return &em, nil
}

func (m *engineMetrics) tick(ctx context.Context, ms float64) {
	if m == nil {
		return
	}
	m.ticks.Add(ctx, 1)
	m.tickTime.Record(ctx, ms)
}

func (m *engineMetrics) shot(ctx context.Context, overburn bool) {
	if m == nil {
		return
	}
	m.shots.Add(ctx, 1, metric.WithAttributes(attribute.Bool("overburn", overburn)))
}

func (m *engineMetrics) hit(ctx context.Context) {
	if m == nil {
		return
	}
	m.hits.Add(ctx, 1)
}

func (m *engineMetrics) scan(ctx context.Context, contacts int) {
	if m == nil {
		return
	}
	m.scans.Add(ctx, 1)
	m.contacts.Add(ctx, int64(contacts))
}

func (m *engineMetrics) fault(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.faults.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *engineMetrics) destroyed(ctx context.Context) {
	if m == nil {
		return
	}
	m.destroys.Add(ctx, 1)
}

func (m *engineMetrics) explosion(ctx context.Context) {
	if m == nil {
		return
	}
	m.explosions.Add(ctx, 1)
}
