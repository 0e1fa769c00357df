// Package script runs JavaScript bot routines inside a goja sandbox. Each
// vehicle gets its own runtime; the only things a routine can reach are its
// own info snapshot, the command API, its memory object and console.log.
package script

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/Garsondee/Algo-Arena/internal/arena"
)

// EntryPoint is the function every bot script must define.
const EntryPoint = "runBotAI"

const (
	defaultLoadBudget = time.Second
	memoryKey         = "script.memory"
)

var (
	// ErrNoEntryPoint is reported when a script does not define runBotAI.
	ErrNoEntryPoint = errors.New("script does not define " + EntryPoint)
	// ErrThrown wraps an exception thrown by a script.
	ErrThrown = errors.New("script threw")
)

// Controller is an arena.Controller backed by a goja runtime. It is bound to
// one vehicle and must not be shared.
type Controller struct {
	name       string
	vm         *goja.Runtime
	logger     arena.Logger
	seed       int64
	loadBudget time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes console.log output to l.
func WithLogger(l arena.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSeed seeds Math.random so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(c *Controller) { c.seed = seed }
}

// WithLoadBudget bounds the time spent running the script's top level.
func WithLoadBudget(d time.Duration) Option {
	return func(c *Controller) { c.loadBudget = d }
}

// New compiles source and evaluates its top level in a fresh runtime.
// Syntax errors and top-level exceptions are returned here; a missing entry
// point is only reported when the controller is invoked.
func New(name, source string, opts ...Option) (*Controller, error) {
	prog, err := goja.Compile(name, source, false)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	c := &Controller{
		name:       name,
		vm:         goja.New(),
		logger:     arena.NopLogger{},
		seed:       1,
		loadBudget: defaultLoadBudget,
	}
	for _, o := range opts {
		o(c)
	}

	rng := rand.New(rand.NewSource(c.seed)) // #nosec G404 -- reproducible bot randomness
	c.vm.SetRandSource(rng.Float64)
	if err := c.installConsole(); err != nil {
		return nil, err
	}

	fired := make(chan struct{})
	timer := time.AfterFunc(c.loadBudget, func() {
		c.vm.Interrupt(arena.ErrBudgetExceeded)
		close(fired)
	})
	_, err = c.vm.RunProgram(prog)
	if !timer.Stop() {
		<-fired
	}
	c.vm.ClearInterrupt()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, c.fault(err))
	}
	return c, nil
}

// Name is the script name given to New.
func (c *Controller) Name() string { return c.name }

// Control calls runBotAI(botInfo, api, memory) once. The runtime is
// interrupted when ctx expires.
func (c *Controller) Control(ctx context.Context, info arena.Info, api *arena.API, mem arena.Memory) error {
	fn, ok := goja.AssertFunction(c.vm.Get(EntryPoint))
	if !ok {
		return ErrNoEntryPoint
	}

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		c.vm.Interrupt(arena.ErrBudgetExceeded)
		close(fired)
	})
	defer func() {
		if !stop() {
			<-fired
		}
		c.vm.ClearInterrupt()
	}()

	_, err := fn(goja.Undefined(), c.botInfo(info), c.bindAPI(api), c.memory(mem))
	if err != nil {
		return c.fault(err)
	}
	return nil
}

// fault converts a goja error into the engine's vocabulary.
func (c *Controller) fault(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		return arena.ErrBudgetExceeded
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return fmt.Errorf("%w: %s", ErrThrown, ex.Value().String())
	}
	return err
}

// memory returns the routine's persistent JS object, stored in the
// vehicle's opaque memory on first use.
func (c *Controller) memory(mem arena.Memory) *goja.Object {
	if obj, ok := mem[memoryKey].(*goja.Object); ok {
		return obj
	}
	obj := c.vm.NewObject()
	if mem != nil {
		mem[memoryKey] = obj
	}
	return obj
}

func (c *Controller) installConsole() error {
	console := c.vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error"} {
		level := level
		if err := console.Set(level, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			msg := strings.Join(parts, " ")
			switch level {
			case "warn":
				c.logger.Warn(msg, "bot", c.name)
			case "error":
				c.logger.Error(msg, "bot", c.name)
			default:
				c.logger.Info(msg, "bot", c.name)
			}
			return goja.Undefined()
		}); err != nil {
			return err
		}
	}
	return c.vm.Set("console", console)
}
