package arena

import (
	"context"
	"errors"
	"fmt"
)

// Controller decides what one vehicle does each tick. It sees only its own
// Info, acts only through api, and keeps state in mem. ctx expires when the
// per-tick budget is spent.
type Controller interface {
	Control(ctx context.Context, info Info, api *API, mem Memory) error
}

// ControllerFunc adapts a plain function to Controller.
type ControllerFunc func(ctx context.Context, info Info, api *API, mem Memory) error

// Control calls f.
func (f ControllerFunc) Control(ctx context.Context, info Info, api *API, mem Memory) error {
	return f(ctx, info, api, mem)
}

var (
	// ErrAgentPanic wraps a panic recovered from a controller.
	ErrAgentPanic = errors.New("controller panicked")
	// ErrBudgetExceeded is reported when a controller overruns its tick budget.
	ErrBudgetExceeded = errors.New("controller exceeded tick budget")
)

// AgentError records a controller fault. It never escapes the engine; it is
// stored on the vehicle and reported to the logger.
type AgentError struct {
	Vehicle string
	Tick    int
	Err     error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("%s (tick %d): %v", e.Vehicle, e.Tick, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

// invoke runs one controller for one tick. On any fault the vehicle's
// commanded state is rolled back to what it was before the call and the
// error is recorded; the tick carries on for everyone else.
func (e *Engine) invoke(v *Vehicle, c Controller) {
	saved := v.Command

	ctx, cancel := context.WithTimeout(e.ctx, e.settings.AgentBudget)
	err := e.call(ctx, v, c)
	if err == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = ErrBudgetExceeded
	}
	cancel()

	if err == nil {
		v.LastError = ""
		return
	}

	v.Command = saved
	ae := &AgentError{Vehicle: v.Name, Tick: e.tick, Err: err}
	v.LastError = ae.Err.Error()
	v.Stats.Faults++
	e.log.Add(e.tick, v.Name, "agent", "fault", v.LastError, 0)
	e.logger.Warn("controller fault", "vehicle", v.Name, "tick", e.tick, "error", err)
	e.metrics.fault(e.ctx, faultKind(err))
}

func (e *Engine) call(ctx context.Context, v *Vehicle, c Controller) (err error) {
	api := &API{e: e, v: v}
	defer func() {
		api.e = nil
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAgentPanic, r)
		}
	}()
	return c.Control(ctx, v.info(e.tick, e.elapsed), api, v.Memory)
}

func faultKind(err error) string {
	switch {
	case errors.Is(err, ErrAgentPanic):
		return "panic"
	case errors.Is(err, ErrBudgetExceeded), errors.Is(err, context.DeadlineExceeded):
		return "budget"
	default:
		return "error"
	}
}
