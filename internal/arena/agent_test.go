package arena

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A controller that faults on tick N must leave its commands exactly as
// tick N-1 set them, record the error, and not disturb anyone else.
func TestAgentFault_RollsBackCommandsAndIsolates(t *testing.T) {
	const faultTick = 5
	faulty := ControllerFunc(func(_ context.Context, info Info, api *API, _ Memory) error {
		if info.Tick < faultTick {
			api.Thrust(0.5)
			api.Turn(45)
			api.TurnTurret(10)
			return nil
		}
		if info.Tick == faultTick {
			api.Thrust(1)
			api.Turn(90)
			api.Overburn(true)
			return errors.New("boom")
		}
		return nil
	})
	otherCalls := 0
	other := ControllerFunc(func(_ context.Context, _ Info, api *API, _ Memory) error {
		otherCalls++
		api.Thrust(1)
		return nil
	})

	hs := NewHarness(
		WithVehicleAt("Faulty", 200, 200, 0, faulty),
		WithVehicleAt("Other", 600, 400, 180, other),
	)
	f, o := hs.Vehicle("Faulty"), hs.Vehicle("Other")

	hs.RunTicks(faultTick - 1)
	want := f.Command
	otherX := o.X

	hs.RunTicks(1)
	assert.Equal(t, want, f.Command)
	assert.Equal(t, 45.0, f.Command.Heading)
	assert.Equal(t, 50.0, f.Command.Speed)
	assert.False(t, f.Command.Overburn)
	assert.Contains(t, f.LastError, "boom")
	assert.Equal(t, 1, f.Stats.Faults)
	assert.True(t, f.Active)

	assert.Equal(t, faultTick, otherCalls)
	assert.Less(t, o.X, otherX, "other vehicle keeps driving")
	assert.Empty(t, o.LastError)

	fault, ok := hs.Log.LastOf("agent", "fault")
	require.True(t, ok)
	assert.Equal(t, faultTick, fault.Tick)

	// A clean tick clears the error.
	hs.RunTicks(1)
	assert.Empty(t, f.LastError)
}

func TestAgentFault_PanicIsRecovered(t *testing.T) {
	ctrl := ControllerFunc(func(context.Context, Info, *API, Memory) error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, ctrl), WithVehicleAt("B", 600, 400, 0, nil))

	require.NotPanics(t, func() { hs.RunTicks(3) })
	a := hs.Vehicle("A")
	assert.True(t, strings.HasPrefix(a.LastError, ErrAgentPanic.Error()))
	assert.Equal(t, 3, a.Stats.Faults)
	assert.Equal(t, 3, hs.Engine.Tick())
}

func TestAgentFault_BudgetExceeded(t *testing.T) {
	s := DefaultSettings()
	s.AgentBudget = 5 * time.Millisecond
	slow := ControllerFunc(func(ctx context.Context, _ Info, api *API, _ Memory) error {
		api.Thrust(1)
		<-ctx.Done()
		return nil
	})
	hs := NewHarness(WithSettings(s), WithVehicleAt("Slow", 200, 200, 0, slow), WithVehicleAt("B", 600, 400, 0, nil))

	hs.RunTicks(1)
	slowV := hs.Vehicle("Slow")
	assert.Equal(t, ErrBudgetExceeded.Error(), slowV.LastError)
	assert.Equal(t, 0.0, slowV.Command.Speed, "commands from an overrun tick are discarded")
}

func TestAPI_RevokedAfterInvocation(t *testing.T) {
	var kept *API
	ctrl := ControllerFunc(func(_ context.Context, _ Info, api *API, _ Memory) error {
		kept = api
		return nil
	})
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, ctrl), WithVehicleAt("B", 600, 400, 0, nil))
	hs.RunTicks(1)

	require.NotNil(t, kept)
	assert.False(t, kept.Thrust(1))
	assert.False(t, kept.Fire())
	assert.Nil(t, kept.Scan(0, 60))
	assert.Equal(t, 0.0, hs.Vehicle("A").Command.Speed)
}

func TestMemory_PersistsAcrossTicks(t *testing.T) {
	ctrl := ControllerFunc(func(_ context.Context, _ Info, _ *API, mem Memory) error {
		n, _ := mem["calls"].(int)
		mem["calls"] = n + 1
		return nil
	})
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, ctrl), WithVehicleAt("B", 600, 400, 0, ctrl))
	hs.RunTicks(7)
	assert.Equal(t, 7, hs.Vehicle("A").Memory["calls"])
	assert.Equal(t, 7, hs.Vehicle("B").Memory["calls"], "each vehicle has its own memory")
}

func TestInfo_DescribesOnlySelf(t *testing.T) {
	var got Info
	ctrl := ControllerFunc(func(_ context.Context, info Info, _ *API, _ Memory) error {
		got = info
		return nil
	})
	hs := NewHarness(WithVehicleAt("A", 200, 250, 30, ctrl), WithVehicleAt("B", 600, 400, 0, nil))
	hs.RunTicks(1)

	a := hs.Vehicle("A")
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, 200.0, got.X)
	assert.Equal(t, 250.0, got.Y)
	assert.Equal(t, 30.0, got.Heading)
	assert.Equal(t, a.Spec.Armor, got.MaxArmor)
	assert.Equal(t, 1, got.Tick)
}

func TestAPI_InvalidCommandsAreSilent(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	api := hs.Pilot("A")
	a := hs.Vehicle("A")

	a.Shutdown = true
	assert.False(t, api.Thrust(1))
	assert.False(t, api.Brake())
	assert.False(t, api.Turn(90))
	assert.False(t, api.TurnTurret(90))
	assert.False(t, api.Overburn(true))
	assert.False(t, api.Fire())
	assert.Nil(t, api.Scan(0, 60))

	a.Shutdown = false
	assert.True(t, api.Thrust(2), "amount is clamped, not rejected")
	assert.Equal(t, a.Spec.MaxSpeed, a.Command.Speed)
	assert.True(t, api.Overburn(true))
	assert.True(t, api.Thrust(1))
	assert.Equal(t, a.Spec.MaxSpeed*a.Spec.OverburnSpeed, a.Command.Speed)
	assert.True(t, api.Turn(540))
	assert.Equal(t, 180.0, a.Command.Heading)

	// Queries work regardless of state.
	a.Shutdown = true
	w, h := api.ArenaSize()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
	assert.InDelta(t, 90.0, api.AngleTo(200, 300), 1e-9)
	assert.InDelta(t, 100.0, api.DistanceTo(200, 300), 1e-9)
	assert.Equal(t, -90.0, api.NormalizeAngle(270))
}
