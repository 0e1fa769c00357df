// Package viewer renders a running match with ebiten and translates
// keyboard input into match controls and manual pilot commands.
package viewer

import (
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/config"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// panelWidth is the status panel to the right of the arena.
const panelWidth = 260

// pilotStep is how far one frame of turn input moves a heading, in degrees.
const pilotStep = 4.0

// speedSteps are the multipliers cycled by the , and . keys.
var speedSteps = []float64{0.25, 0.5, 1, 2, 3}

// EntryFunc builds a fresh set of competitors. It is called on start and
// after every reset so controllers never carry state between matches.
type EntryFunc func() ([]arena.Entry, error)

// Game implements ebiten.Game for one match.
type Game struct {
	match   *arena.Match
	log     *arena.EventLog
	logger  arena.Logger
	entries EntryFunc

	width      int
	height     int
	arenaW     int
	arenaH     int
	offX, offY int

	colors   map[string]color.RGBA
	prevKeys map[ebiten.Key]bool
	showHUD  bool

	notice      string
	noticeUntil time.Time

	now      func() time.Time
	copyText func(string) error
}

// New builds a viewer for match and starts it with entries().
func New(match *arena.Match, log *arena.EventLog, logger arena.Logger, entries EntryFunc) (*Game, error) {
	if logger == nil {
		logger = arena.NopLogger{}
	}
	s := match.Settings()
	g := &Game{
		match:    match,
		log:      log,
		logger:   logger,
		entries:  entries,
		arenaW:   int(s.Width),
		arenaH:   int(s.Height),
		offX:     borderWidth,
		offY:     borderWidth,
		colors:   make(map[string]color.RGBA),
		prevKeys: make(map[ebiten.Key]bool),
		showHUD:  true,
		now:      time.Now,
		copyText: clipboard.WriteAll,
	}
	g.width = borderWidth + g.arenaW + borderWidth + panelWidth
	g.height = borderWidth + g.arenaH + borderWidth
	if err := g.start(); err != nil {
		return nil, err
	}
	return g, nil
}

// Size is the window size the viewer wants.
func (g *Game) Size() (int, int) { return g.width, g.height }

func (g *Game) start() error {
	es, err := g.entries()
	if err != nil {
		return err
	}
	return g.match.Start(es)
}

func (g *Game) Update() error {
	g.handleInput()
	g.handlePilot()
	g.step()
	return nil
}

// step advances the match to the current wall clock.
func (g *Game) step() int {
	n := g.match.Advance(g.now())
	if n > 0 && g.match.State() == arena.StateGameOver {
		g.flash(gameOverText(g.match.Winner()), 5*time.Second)
	}
	return n
}

// pressed reports a key going down this frame and records its state.
func (g *Game) pressed(k ebiten.Key, current map[ebiten.Key]bool) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

// handleInput processes match control keys (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	if g.pressed(ebiten.KeyP, currentKeys) {
		g.togglePause()
	}
	if g.pressed(ebiten.KeyComma, currentKeys) {
		g.flash(speedLabel(g.match.SetSpeed(slower(g.match.Speed()))), time.Second)
	}
	if g.pressed(ebiten.KeyPeriod, currentKeys) {
		g.flash(speedLabel(g.match.SetSpeed(faster(g.match.Speed()))), time.Second)
	}
	if g.pressed(ebiten.KeyR, currentKeys) {
		g.restart()
	}
	if g.pressed(ebiten.KeyC, currentKeys) {
		g.copyReport()
	}
	if g.pressed(ebiten.KeyH, currentKeys) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(ebiten.KeySpace, currentKeys) {
		if p, ok := g.match.Pilot(); ok {
			p.Fire()
		}
	}
	if g.pressed(ebiten.KeyF, currentKeys) {
		if p, ok := g.match.Pilot(); ok {
			p.Scan()
		}
	}

	g.prevKeys = currentKeys
}

// handlePilot translates held keys into commands for the manual vehicle.
func (g *Game) handlePilot() {
	p, ok := g.match.Pilot()
	if !ok {
		return
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW):
		p.Thrust(1)
	case ebiten.IsKeyPressed(ebiten.KeyS):
		p.Brake()
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		p.TurnBy(-pilotStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		p.TurnBy(pilotStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		p.TurnTurretBy(-pilotStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		p.TurnTurretBy(pilotStep)
	}
	p.Overburn(ebiten.IsKeyPressed(ebiten.KeyShift))
}

func (g *Game) togglePause() {
	switch g.match.State() {
	case arena.StateRunning:
		if err := g.match.Pause(); err == nil {
			g.flash("PAUSED", time.Second)
		}
	case arena.StatePaused:
		if err := g.match.Resume(); err == nil {
			g.flash("RESUMED", time.Second)
		}
	}
}

// restart discards the world and starts a new match with fresh entries.
func (g *Game) restart() {
	g.match.Reset()
	if err := g.start(); err != nil {
		g.logger.Error("restart failed", "error", err)
		g.flash("restart failed: "+err.Error(), 3*time.Second)
		return
	}
	g.flash("RESET", time.Second)
}

func (g *Game) copyReport() {
	f, ok := g.match.Frame()
	if !ok {
		return
	}
	text := statusReport(f, g.match.State(), g.match.Speed(), g.log)
	if err := g.copyText(text); err != nil {
		g.logger.Warn("clipboard unavailable", "error", err)
		g.flash("clipboard unavailable", 2*time.Second)
		return
	}
	g.flash("report copied", time.Second)
}

func (g *Game) flash(msg string, d time.Duration) {
	g.notice = msg
	g.noticeUntil = g.now().Add(d)
}

// colorOf caches parsed bot colours; unknown names render grey.
func (g *Game) colorOf(name string) color.RGBA {
	if c, ok := g.colors[name]; ok {
		return c
	}
	c, err := config.ParseColor(name)
	if err != nil {
		c = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	}
	g.colors[name] = c
	return c
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

func slower(cur float64) float64 {
	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < cur-1e-9 {
			return speedSteps[i]
		}
	}
	return speedSteps[0]
}

func faster(cur float64) float64 {
	for _, s := range speedSteps {
		if s > cur+1e-9 {
			return s
		}
	}
	return speedSteps[len(speedSteps)-1]
}
