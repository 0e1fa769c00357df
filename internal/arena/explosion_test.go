package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplosionDamageAt_LinearFalloff(t *testing.T) {
	assert.Equal(t, 50.0, ExplosionDamageAt(50, 50, 0))
	assert.Equal(t, 25.0, ExplosionDamageAt(50, 50, 25))
	assert.Equal(t, 0.0, ExplosionDamageAt(50, 50, 50))
	assert.Equal(t, 0.0, ExplosionDamageAt(50, 50, 60))
	assert.Equal(t, 0.0, ExplosionDamageAt(50, 0, 0))
}

func TestExplosion_DamageAppliedOnceAtCreation(t *testing.T) {
	hs := NewHarness(
		WithVehicleAt("Centre", 400, 300, 0, nil),
		WithVehicleAt("Half", 425, 300, 0, nil),
		WithVehicleAt("Rim", 400, 350, 0, nil),
		WithVehicleAt("Far", 100, 100, 0, nil),
	)
	centre, half, rim, far := hs.Vehicle("Centre"), hs.Vehicle("Half"), hs.Vehicle("Rim"), hs.Vehicle("Far")
	hs.Engine.spawnExplosion(400, 300, 50, 50, 0.5, "")

	assert.Equal(t, 50.0, centre.Armor)
	assert.Equal(t, 75.0, half.Armor)
	assert.Equal(t, 100.0, rim.Armor)
	assert.Equal(t, 100.0, far.Armor)

	before := []float64{centre.Armor, half.Armor, rim.Armor}
	for i := 0; i < 40; i++ {
		hs.Engine.advanceExplosions(1.0 / 60)
	}
	assert.Equal(t, before, []float64{centre.Armor, half.Armor, rim.Armor}, "animation must not deal damage")
	assert.Empty(t, hs.Engine.explosions, "explosion removed once its duration elapses")
}

func TestExplosion_AnimationCurve(t *testing.T) {
	x := &Explosion{MaxRadius: 40, Duration: 1, Opacity: 1}

	x.advance(0.25)
	assert.InDelta(t, 20.0, x.Radius, 1e-9, "radius grows with sqrt(progress)")
	assert.Equal(t, 1.0, x.Opacity)

	x.advance(0.6) // progress 0.85
	assert.InDelta(t, 0.5, x.Opacity, 1e-9)
	assert.False(t, x.Done)

	x.advance(0.2)
	assert.True(t, x.Done)
	assert.Equal(t, 40.0, x.Radius)
	assert.InDelta(t, 0.0, x.Opacity, 1e-9)
}

func TestExplosion_ChainReaction(t *testing.T) {
	hs := NewHarness(
		WithVehicleAt("A", 300, 300, 0, nil),
		WithVehicleAt("B", 330, 300, 0, nil),
		WithVehicleAt("C", 700, 500, 0, nil),
	)
	a, b := hs.Vehicle("A"), hs.Vehicle("B")
	a.Armor = 1
	b.Armor = 1

	hs.Engine.spawnExplosion(300, 300, 20, 10, 0.5, "")
	require.False(t, a.Active)
	require.False(t, b.Active, "A's own explosion reaches B")
	assert.Len(t, hs.Engine.explosions, 3)
}
