package arena

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLog_NilIsSafe(t *testing.T) {
	var l *EventLog
	l.Add(1, "A", "weapon", "fire", "", 0)
	l.SetLimit(3)
	assert.Nil(t, l.Entries())
	assert.Zero(t, l.Count("", ""))
	assert.Equal(t, -1, l.FirstTick("weapon", "fire", ""))
	assert.Empty(t, l.Format())
}

func TestEventLog_FilterAndQuery(t *testing.T) {
	l := NewEventLog(false)
	l.Add(1, "A", "weapon", "fire", "90.0", 10)
	l.Add(2, "B", "damage", "projectile", "a-id", 10)
	l.Add(4, "A", "weapon", "fire", "45.0", 10)
	l.Add(6, "", "match", "draw", "", 0)

	assert.Equal(t, 2, l.Count("weapon", "fire"))
	assert.Equal(t, 2, l.Count("weapon", ""))
	assert.Len(t, l.FilterVehicle("A"), 2)
	assert.Len(t, l.FilterVehicle("--"), 1, "arena-wide events use a placeholder name")

	last, ok := l.LastOf("weapon", "fire")
	assert.True(t, ok)
	assert.Equal(t, 4, last.Tick)
	_, ok = l.LastOf("heat", "shutdown")
	assert.False(t, ok)

	assert.Equal(t, 4, l.FirstTick("weapon", "fire", "45"))
	assert.Equal(t, -1, l.FirstTick("weapon", "fire", "180"))
}

func TestEventLog_VerboseOnly(t *testing.T) {
	quiet, loud := NewEventLog(false), NewEventLog(true)
	quiet.AddVerbose(1, "A", "sensor", "contact", "", 0)
	loud.AddVerbose(1, "A", "sensor", "contact", "", 0)
	assert.Empty(t, quiet.Entries())
	assert.Len(t, loud.Entries(), 1)
}

func TestEventLog_LimitDropsOldest(t *testing.T) {
	l := NewEventLog(false)
	l.SetLimit(2)
	for i := 1; i <= 5; i++ {
		l.Add(i, "A", "weapon", "fire", "", 0)
	}
	evs := l.Entries()
	assert.Len(t, evs, 2)
	assert.Equal(t, 4, evs[0].Tick)
	assert.Equal(t, 5, evs[1].Tick)
}

func TestEventLog_Format(t *testing.T) {
	l := NewEventLog(false)
	l.Add(42, "Hunter", "weapon", "fire", "12.5", 10)
	out := l.Format()
	assert.True(t, strings.HasPrefix(out, "[T=042] Hunter"))
	assert.Contains(t, out, "fire")
	assert.True(t, strings.HasSuffix(out, "12.5\n"))
}

func TestEventLog_RecordsMatchFlow(t *testing.T) {
	hs := NewHarness(
		WithVerbose(true),
		WithVehicleAt("A", 100, 300, 0, fireOnce()),
		WithVehicleAt("B", 150, 300, 0, nil),
	)
	hs.RunTicks(5)
	assert.Equal(t, 1, hs.Log.FirstTick("weapon", "fire", ""))
	assert.Equal(t, 1, hs.Log.Count("damage", "projectile"))
}
