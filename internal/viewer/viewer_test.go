package viewer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/bots"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGame(t *testing.T, manual bool) (*Game, *fakeClock) {
	t.Helper()
	log := arena.NewEventLog(false)
	m, err := arena.NewMatch(arena.DefaultSettings(), arena.WithEventLog(log))
	require.NoError(t, err)

	entries := func() ([]arena.Entry, error) {
		hunter, err := bots.ByName("hunter")
		if err != nil {
			return nil, err
		}
		return []arena.Entry{
			{Name: "Hunter", Color: "crimson", Controller: hunter},
			{Name: "Me", Color: "#3366ff", Manual: manual},
		}, nil
	}
	g, err := New(m, log, nil, entries)
	require.NoError(t, err)

	clk := &fakeClock{t: time.Unix(1000, 0)}
	g.now = clk.now
	return g, clk
}

func TestNew_StartsMatchAndSizesWindow(t *testing.T) {
	g, _ := newTestGame(t, false)
	assert.Equal(t, arena.StateRunning, g.match.State())

	w, h := g.Size()
	assert.Equal(t, 2*borderWidth+800+panelWidth, w)
	assert.Equal(t, 2*borderWidth+600, h)
	lw, lh := g.Layout(0, 0)
	assert.Equal(t, w, lw)
	assert.Equal(t, h, lh)
}

func TestNew_EntryErrorSurfaces(t *testing.T) {
	m, err := arena.NewMatch(arena.DefaultSettings())
	require.NoError(t, err)
	boom := errors.New("no bots")
	_, err = New(m, nil, nil, func() ([]arena.Entry, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestStep_FollowsClock(t *testing.T) {
	g, clk := newTestGame(t, false)
	assert.Equal(t, 0, g.step(), "first frame only records the time")

	clk.advance(time.Second / 60)
	assert.Equal(t, 1, g.step())

	f, ok := g.match.Frame()
	require.True(t, ok)
	assert.Equal(t, 1, f.Tick)
}

func TestTogglePause(t *testing.T) {
	g, clk := newTestGame(t, false)
	g.togglePause()
	assert.Equal(t, arena.StatePaused, g.match.State())
	assert.Equal(t, "PAUSED", g.notice)

	clk.advance(time.Second)
	assert.Equal(t, 0, g.step())

	g.togglePause()
	assert.Equal(t, arena.StateRunning, g.match.State())
}

func TestRestart_StartsFreshMatch(t *testing.T) {
	g, clk := newTestGame(t, true)
	g.step()
	for i := 0; i < 30; i++ {
		clk.advance(time.Second / 60)
		g.step()
	}
	g.match.SetSpeed(2)

	g.restart()
	assert.Equal(t, arena.StateRunning, g.match.State())
	assert.Equal(t, 1.0, g.match.Speed())
	f, _ := g.match.Frame()
	assert.Equal(t, 0, f.Tick)
	_, ok := g.match.Pilot()
	assert.True(t, ok)
}

func TestCopyReport(t *testing.T) {
	g, _ := newTestGame(t, true)
	var got string
	g.copyText = func(s string) error { got = s; return nil }
	g.copyReport()

	assert.Contains(t, got, "Algo Arena status")
	assert.Contains(t, got, "Hunter (")
	assert.Contains(t, got, "PILOT")
	assert.Contains(t, got, "match")
	assert.Equal(t, "report copied", g.notice)

	g.copyText = func(string) error { return errors.New("no display") }
	g.copyReport()
	assert.Equal(t, "clipboard unavailable", g.notice)
}

func TestSpeedSteps(t *testing.T) {
	assert.Equal(t, 2.0, faster(1))
	assert.Equal(t, 3.0, faster(3))
	assert.Equal(t, 0.5, slower(1))
	assert.Equal(t, 0.25, slower(0.25))
	assert.Equal(t, 1.0, slower(1.5))
	assert.Equal(t, "1x", speedLabel(1))
	assert.Equal(t, "0.25x", speedLabel(0.25))
}

func TestColorOf(t *testing.T) {
	g, _ := newTestGame(t, false)
	assert.Equal(t, uint8(220), g.colorOf("crimson").R)
	grey := g.colorOf("not-a-colour")
	assert.Equal(t, grey.R, grey.G)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "DRAW", gameOverText(nil))
	assert.Equal(t, "Hunter WINS", gameOverText(&arena.VehicleStatus{Name: "Hunter"}))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Contains(t, hudLines(1, arena.StatePaused)[0], "PAUSED")

	v := arena.VehicleStatus{Name: "X", Armor: 40, Shutdown: true, Active: true}
	assert.Contains(t, statusLine(v), "SHUTDOWN")
}
