package arena

import (
	"fmt"
	"math/rand"
)

// Harness is a headless, clock-free arena used by tests and the batch
// report. Vehicles are either placed explicitly or by the normal spawn
// rules, and every tick advances by a fixed dt.
type Harness struct {
	Engine *Engine
	Log    *EventLog

	settings Settings
	dt       float64
	logger   Logger
	rng      *rand.Rand
	metrics  bool
	pending  []harnessVehicle
}

type harnessVehicle struct {
	entry   Entry
	placed  bool
	x, y, h float64
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptInfra   harnessOptionKind = iota // arena size, seed, verbosity - applied first
	harnessOptVehicle                          // vehicles - applied after the arena exists
)

// HarnessOption is a builder step applied during NewHarness.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithArenaSize sets the arena dimensions.
func WithArenaSize(w, h float64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.settings.Width = w
		hs.settings.Height = h
	}}
}

// WithSeed sets the seed used for placement and IDs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.settings.Seed = seed
	}}
}

// WithDT sets the fixed tick length in seconds.
func WithDT(dt float64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.dt = dt
	}}
}

// WithVerbose records per-scan detail in the event log.
func WithVerbose(v bool) HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.Log = NewEventLog(v)
	}}
}

// WithHarnessLogger routes engine logging to l.
func WithHarnessLogger(l Logger) HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.logger = l
	}}
}

// WithHarnessMetrics enables the engine's OpenTelemetry instruments.
func WithHarnessMetrics() HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.metrics = true
	}}
}

// WithSettings replaces the arena settings wholesale.
func WithSettings(s Settings) HarnessOption {
	return HarnessOption{harnessOptInfra, func(hs *Harness) {
		hs.settings = s.withDefaults()
	}}
}

// WithVehicleAt adds a vehicle at a fixed position and heading.
func WithVehicleAt(name string, x, y, heading float64, c Controller, spec ...func(*VehicleSpec)) HarnessOption {
	return HarnessOption{harnessOptVehicle, func(hs *Harness) {
		hs.pending = append(hs.pending, harnessVehicle{
			entry:  Entry{Name: name, Controller: c, Spec: specWith(spec)},
			placed: true,
			x:      x, y: y, h: heading,
		})
	}}
}

// WithEntry adds a vehicle placed by the normal spawn rules.
func WithEntry(en Entry) HarnessOption {
	return HarnessOption{harnessOptVehicle, func(hs *Harness) {
		hs.pending = append(hs.pending, harnessVehicle{entry: en})
	}}
}

func specWith(mods []func(*VehicleSpec)) *VehicleSpec {
	if len(mods) == 0 {
		return nil
	}
	s := DefaultVehicleSpec()
	for _, m := range mods {
		m(&s)
	}
	return &s
}

// NewHarness constructs a Harness in two ordered passes: infrastructure
// first, then vehicles in the order given.
func NewHarness(opts ...HarnessOption) *Harness {
	hs := &Harness{
		settings: DefaultSettings(),
		Log:      NewEventLog(false),
		logger:   NopLogger{},
	}
	for _, o := range opts {
		if o.kind == harnessOptInfra {
			o.fn(hs)
		}
	}
	if hs.dt <= 0 {
		hs.dt = 1 / float64(hs.settings.FPSCap)
	}
	for _, o := range opts {
		if o.kind == harnessOptVehicle {
			o.fn(hs)
		}
	}

	var em *engineMetrics
	if hs.metrics {
		var err error
		if em, err = newEngineMetrics(); err != nil {
			hs.logger.Error("metrics disabled", "error", err)
		}
	}

	hs.rng = rand.New(rand.NewSource(hs.settings.Seed)) // #nosec G404 -- test harness
	hs.Engine = newEngine(hs.settings, hs.logger, hs.Log, em)
	points := placeVehicles(hs.rng, hs.settings, len(hs.pending))
	for i, pv := range hs.pending {
		id, err := newVehicleID(hs.rng)
		if err != nil {
			id = fmt.Sprintf("vehicle-%d", i)
		}
		x, y, h := points[i].X, points[i].Y, points[i].Heading
		if pv.placed {
			x, y, h = pv.x, pv.y, pv.h
		}
		name := pv.entry.Name
		if name == "" {
			name = fmt.Sprintf("Bot %d", i+1)
		}
		v := newVehicle(id, name, pv.entry.Color, resolveSpec(pv.entry.Spec), x, y, h, i)
		v.Manual = pv.entry.Manual
		hs.Engine.addVehicle(v, pv.entry.Controller)
	}
	return hs
}

// Observe registers an observer on the harness engine.
func (hs *Harness) Observe(o Observer) {
	hs.Engine.observers = append(hs.Engine.observers, o)
}

// RunTicks advances n ticks, stopping early if the match ends.
func (hs *Harness) RunTicks(n int) int {
	ran := 0
	for i := 0; i < n && !hs.Engine.Over(); i++ {
		hs.Engine.Step(hs.dt)
		ran++
	}
	return ran
}

// RunUntil advances until cond is true or maxTicks have run. It returns the
// number of ticks executed and whether cond was met.
func (hs *Harness) RunUntil(cond func(*Harness) bool, maxTicks int) (int, bool) {
	for i := 0; i < maxTicks; i++ {
		if cond(hs) {
			return i, true
		}
		if hs.Engine.Over() {
			return i, false
		}
		hs.Engine.Step(hs.dt)
	}
	return maxTicks, cond(hs)
}

// Vehicle returns the live vehicle with the given name, or nil. Tests use
// it to set up state directly.
func (hs *Harness) Vehicle(name string) *Vehicle {
	for _, v := range hs.Engine.vehicles {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Pilot returns an API for the named vehicle that stays valid between
// ticks, the way the manual input path drives a vehicle.
func (hs *Harness) Pilot(name string) *API {
	v := hs.Vehicle(name)
	if v == nil {
		return nil
	}
	return &API{e: hs.Engine, v: v}
}

// Snapshot returns the current frame.
func (hs *Harness) Snapshot() Frame {
	return hs.Engine.Frame()
}

// DT is the fixed tick length.
func (hs *Harness) DT() float64 { return hs.dt }
