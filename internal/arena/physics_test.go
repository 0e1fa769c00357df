package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSpeed_CoastingToZeroBleedsExtra(t *testing.T) {
	// 20 u/s, braking 100, dt 0.1: active braking to 10, then passive half-rate to 5.
	got := nextSpeed(20, 0, 50, 100, 0.1)
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestNextSpeed_SnapsWithinTolerance(t *testing.T) {
	assert.Equal(t, 50.0, nextSpeed(49.95, 50, 50, 100, 0.1))
}

func TestNextSpeed_AccelerationCappedAtTarget(t *testing.T) {
	assert.Equal(t, 30.0, nextSpeed(28, 30, 50, 100, 0.1))
	assert.InDelta(t, 5.0, nextSpeed(0, 100, 50, 100, 0.1), 1e-9)
}

func TestNextSpeed_BrakingFlooredAtTarget(t *testing.T) {
	assert.Equal(t, 15.0, nextSpeed(20, 15, 50, 100, 0.1))
	assert.InDelta(t, 40.0, nextSpeed(50, 10, 50, 100, 0.1), 1e-9)
}

func TestHeat_DissipatesToZeroAndStays(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	a := hs.Vehicle("A")
	a.Heat = 50

	hs.RunTicks(int(11 / hs.DT()))
	require.Equal(t, 0.0, a.Heat)
	hs.RunTicks(60)
	assert.Equal(t, 0.0, a.Heat)
	assert.False(t, a.Shutdown)
}

func TestHeat_ShutdownHysteresis(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	a := hs.Vehicle("A")
	a.Heat = a.Spec.MaxHeat - 0.1
	a.Command.Overburn = true

	hs.RunTicks(1)
	require.True(t, a.Shutdown, "reaching max heat must engage shutdown")
	require.False(t, a.Command.Overburn, "shutdown drops overburn")

	cleared := false
	for i := 0; i < 600; i++ {
		hs.RunTicks(1)
		threshold := shutdownRecoverFraction * a.Spec.MaxHeat
		if a.Heat >= threshold {
			require.Truef(t, a.Shutdown, "tick %d: heat %.3f still in band, shutdown must hold", hs.Engine.Tick(), a.Heat)
		} else {
			require.Falsef(t, a.Shutdown, "tick %d: heat %.3f below band, shutdown must clear", hs.Engine.Tick(), a.Heat)
			cleared = true
			break
		}
	}
	assert.True(t, cleared, "shutdown never cleared")
}

func TestShutdown_FreezesVehicle(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	a := hs.Vehicle("A")
	a.Shutdown = true
	a.Heat = a.Spec.MaxHeat
	a.Command.Heading = 90
	a.Command.Speed = 100
	a.FireCooldown = 1

	hs.RunTicks(1)
	assert.Equal(t, 200.0, a.X)
	assert.Equal(t, 0.0, a.Heading)
	assert.Equal(t, 0.0, a.Speed)
	assert.Equal(t, 1.0, a.FireCooldown, "cooldowns do not tick while shutdown")
	assert.Less(t, a.Heat, a.Spec.MaxHeat, "heat still dissipates")
}

func TestRotation_SnapsWhenWithinOneStep(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	a := hs.Vehicle("A")
	// Body turns 3 deg per tick at 60 Hz, turret 4.
	a.Command.Heading = 2.5
	a.Command.TurretOffset = -3.5

	hs.RunTicks(1)
	assert.Equal(t, 2.5, a.Heading)
	assert.Equal(t, -3.5, a.TurretOffset)
	assert.InDelta(t, -1.0, a.TurretHeading, 1e-9)
}

func TestRotation_RateLimitedAndRelativeTurret(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	a := hs.Vehicle("A")
	a.Command.Heading = 90
	a.Command.TurretOffset = 0

	hs.RunTicks(1)
	assert.InDelta(t, 3.0, a.Heading, 1e-9)
	// Turret offset unchanged, so the absolute turret follows the body.
	assert.InDelta(t, a.Heading, a.TurretHeading, 1e-9)

	hs.RunTicks(40)
	assert.Equal(t, 90.0, a.Heading)
}

func TestSensorHeading_IsInstant(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 200, 200, 0, nil), WithVehicleAt("B", 600, 400, 0, nil))
	a := hs.Vehicle("A")
	a.Command.SensorHeading = 170
	hs.RunTicks(1)
	assert.Equal(t, 170.0, a.SensorHeading)
}

func TestPosition_WallStopsWithoutBounce(t *testing.T) {
	hs := NewHarness(WithVehicleAt("A", 785, 300, 0, nil), WithVehicleAt("B", 100, 100, 0, nil))
	a := hs.Vehicle("A")
	a.Speed = 100
	a.Command.Speed = 100

	hs.RunTicks(10)
	assert.Equal(t, hs.Engine.settings.Width-a.Spec.Radius, a.X)
	assert.Equal(t, 0.0, a.VelX)
	assert.Equal(t, 100.0, a.Speed, "speed is kept; only the blocked axis velocity is zeroed")
}
