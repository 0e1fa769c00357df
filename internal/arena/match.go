package arena

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// State is the match lifecycle state.
type State int

const (
	StateSetup State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNotEnoughVehicles = errors.New("not enough vehicles to start a match")
	ErrMatchInProgress   = errors.New("match already in progress")
	ErrTooManyPilots     = errors.New("at most one vehicle may be manually piloted")
	ErrNotRunning        = errors.New("match is not running")
	ErrNotPaused         = errors.New("match is not paused")
)

// Match schedules ticks for one engine and owns its lifecycle:
// setup -> running <-> paused -> game over, with Reset back to setup.
// All methods are safe for concurrent use.
type Match struct {
	mu sync.Mutex

	settings  Settings
	logger    Logger
	log       *EventLog
	observers []Observer
	metrics   *engineMetrics

	engine *Engine
	state  State
	speed  float64
	last   time.Time // zero until the first frame after start or resume
	pilot  *Pilot
}

// MatchOption configures a Match.
type MatchOption func(*Match)

// WithLogger routes engine logging to l.
func WithLogger(l Logger) MatchOption {
	return func(m *Match) { m.logger = l }
}

// WithObserver registers an observer for every tick.
func WithObserver(o Observer) MatchOption {
	return func(m *Match) { m.observers = append(m.observers, o) }
}

// WithEventLog records engine events into log.
func WithEventLog(log *EventLog) MatchOption {
	return func(m *Match) { m.log = log }
}

// WithMetrics enables the OpenTelemetry instruments. They report to
// whatever meter provider is installed globally.
func WithMetrics() MatchOption {
	return func(m *Match) {
		em, err := newEngineMetrics()
		if err != nil {
			m.logger.Error("metrics disabled", "error", err)
			return
		}
		m.metrics = em
	}
}

// NewMatch creates a match in the setup state.
func NewMatch(settings Settings, opts ...MatchOption) (*Match, error) {
	settings = settings.withDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	m := &Match{
		settings: settings,
		logger:   NopLogger{},
		speed:    1,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Settings returns the effective settings.
func (m *Match) Settings() Settings {
	return m.settings
}

// Start builds the world from entries and begins running. Nothing is
// created if the entries are rejected.
func (m *Match) Start(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateSetup {
		return ErrMatchInProgress
	}
	if len(entries) < m.settings.MinVehicles {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughVehicles, len(entries), m.settings.MinVehicles)
	}
	manual := 0
	for _, en := range entries {
		if en.Manual {
			manual++
		}
		if err := resolveSpec(en.Spec).Validate(); err != nil {
			return fmt.Errorf("vehicle %q: %w", en.Name, err)
		}
	}
	if manual > 1 {
		return ErrTooManyPilots
	}

	engine, err := buildEngine(m.settings, entries, m.logger, m.log, m.metrics)
	if err != nil {
		return err
	}
	engine.observers = m.observers
	m.engine = engine
	m.pilot = nil
	for _, v := range engine.vehicles {
		if v.Manual {
			m.pilot = &Pilot{m: m, api: API{e: engine, v: v}}
		}
	}
	m.state = StateRunning
	m.last = time.Time{}
	m.log.Add(0, "", "match", "start", fmt.Sprintf("%d vehicles", len(entries)), float64(len(entries)))
	m.logger.Info("match started", "vehicles", len(entries), "seed", m.settings.Seed)
	return nil
}

// buildEngine places and creates every vehicle. Placement and IDs are drawn
// from a generator seeded by settings.Seed.
func buildEngine(s Settings, entries []Entry, logger Logger, log *EventLog, metrics *engineMetrics) (*Engine, error) {
	rng := rand.New(rand.NewSource(s.Seed)) // #nosec G404 -- deterministic placement, not security
	e := newEngine(s, logger, log, metrics)
	points := placeVehicles(rng, s, len(entries))
	for i, en := range entries {
		id, err := newVehicleID(rng)
		if err != nil {
			return nil, err
		}
		p := points[i]
		if !p.Separated {
			e.logger.Debug("placement fell back to best effort", "vehicle", en.Name)
			e.log.Add(0, en.Name, "match", "placement", "best_effort", 0)
		}
		name := en.Name
		if name == "" {
			name = fmt.Sprintf("Bot %d", i+1)
		}
		v := newVehicle(id, name, en.Color, resolveSpec(en.Spec), p.X, p.Y, p.Heading, i)
		v.Manual = en.Manual
		e.addVehicle(v, en.Controller)
	}
	return e, nil
}

// Advance runs the ticks owed for wall-clock time now. Elapsed time is
// capped at MaxDT, scaled by the speed multiplier, and split into ticks of
// at most MaxDT. The first call after Start or Resume only records the
// time. Returns the number of ticks run.
func (m *Match) Advance(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRunning {
		return 0
	}
	if m.last.IsZero() {
		m.last = now
		return 0
	}
	elapsed := now.Sub(m.last).Seconds()
	m.last = now
	if elapsed <= 0 {
		return 0
	}

	remaining := math.Min(elapsed, m.settings.MaxDT) * m.speed
	n := 0
	for remaining > 1e-12 && !m.engine.Over() {
		dt := math.Min(remaining, m.settings.MaxDT)
		m.engine.Step(dt)
		remaining -= dt
		n++
	}
	if m.engine.Over() {
		m.state = StateGameOver
	}
	return n
}

// Run drives Advance from a ticker at the FPS cap until the match ends or
// ctx is cancelled. It returns nil when the match ends.
func (m *Match) Run(ctx context.Context) error {
	m.mu.Lock()
	e := m.engine
	if e != nil {
		e.ctx = ctx
	}
	interval := time.Second / time.Duration(m.settings.FPSCap)
	m.mu.Unlock()
	// Agents invoked after Run returns must not inherit its cancellation.
	if e != nil {
		defer func() {
			m.mu.Lock()
			e.ctx = context.Background()
			m.mu.Unlock()
		}()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.Advance(now)
			switch m.State() {
			case StateGameOver:
				return nil
			case StateSetup:
				return ErrNotRunning
			}
		}
	}
}

// Pause stops scheduling ticks. World state is left untouched.
func (m *Match) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return ErrNotRunning
	}
	m.state = StatePaused
	m.log.Add(m.engine.tick, "", "match", "pause", "", 0)
	return nil
}

// Resume continues a paused match. The clock restarts so the pause is not
// replayed as one long tick.
func (m *Match) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePaused {
		return ErrNotPaused
	}
	m.state = StateRunning
	m.last = time.Time{}
	m.log.Add(m.engine.tick, "", "match", "resume", "", 0)
	return nil
}

// Reset discards the world and returns to setup.
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine = nil
	m.pilot = nil
	m.state = StateSetup
	m.last = time.Time{}
	m.speed = 1
}

// SetSpeed sets the speed multiplier, clamped to the configured range, and
// returns the value applied.
func (m *Match) SetSpeed(mult float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !geom.Finite(mult) {
		return m.speed
	}
	m.speed = geom.Clamp(mult, m.settings.MinSpeed, m.settings.MaxSpeed)
	return m.speed
}

// Speed returns the current speed multiplier.
func (m *Match) Speed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

// State returns the lifecycle state.
func (m *Match) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Frame returns a copy of the current world, or false before Start.
func (m *Match) Frame() (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		return Frame{}, false
	}
	return m.engine.Frame(), true
}

// Winner returns the winner once the match is over; nil for a draw or
// while still running.
func (m *Match) Winner() *VehicleStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		return nil
	}
	return m.engine.Winner()
}

// Pilot returns the manual controls for the piloted vehicle, if any.
func (m *Match) Pilot() (*Pilot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pilot, m.pilot != nil
}
