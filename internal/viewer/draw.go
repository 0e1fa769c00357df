package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/geom"
)

const (
	lineH = 16 // debug font line height plus spacing
	charW = 6  // debug font char width
)

var (
	backdrop  = color.RGBA{R: 12, G: 14, B: 16, A: 255}
	floor     = color.RGBA{R: 26, G: 30, B: 36, A: 255}
	gridCol   = color.RGBA{R: 255, G: 255, B: 255, A: 10}
	borderCol = color.RGBA{R: 70, G: 90, B: 110, A: 255}
	panelBg   = color.RGBA{R: 8, G: 10, B: 12, A: 220}
	panelEdge = color.RGBA{R: 60, G: 80, B: 100, A: 180}
	armorCol  = color.RGBA{R: 80, G: 200, B: 90, A: 255}
	heatCol   = color.RGBA{R: 240, G: 140, B: 40, A: 255}
	shutCol   = color.RGBA{R: 240, G: 60, B: 60, A: 255}
	flashCol  = color.RGBA{R: 255, G: 220, B: 150, A: 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)

	f, ok := g.match.Frame()
	ox, oy := float32(g.offX), float32(g.offY)
	aw, ah := float32(g.arenaW), float32(g.arenaH)
	vector.FillRect(screen, ox, oy, aw, ah, floor, false)
	drawGridOffset(screen, g.offX, g.offY, g.arenaW, g.arenaH, 50, gridCol)
	vector.StrokeRect(screen, ox-1, oy-1, aw+2, ah+2, 2.0, borderCol, false)

	if ok {
		for _, s := range f.Scans {
			g.drawScan(screen, s)
		}
		for _, v := range f.Vehicles {
			if v.Active {
				g.drawVehicle(screen, v)
			}
		}
		for _, p := range f.Projectiles {
			vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), float32(p.Radius), g.colorOf(p.Color), true)
		}
		for _, x := range f.Explosions {
			c := flashCol
			c.A = uint8(200 * x.Opacity)
			vector.FillCircle(screen, ox+float32(x.X), oy+float32(x.Y), float32(x.Radius), c, true)
		}
		g.drawStatus(screen, f)
	}

	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.notice != "" && g.now().Before(g.noticeUntil) {
		tx := g.offX + g.arenaW/2 - len(g.notice)*charW/2
		ebitenutil.DebugPrintAt(screen, g.notice, tx, g.offY+8)
	}
}

// drawScan renders a fading sweep fan.
func (g *Game) drawScan(screen *ebiten.Image, s arena.ScanState) {
	if s.Fade <= 0 {
		return
	}
	const steps = 24
	ox, oy := float64(g.offX), float64(g.offY)
	sx, sy := ox+s.X, oy+s.Y

	var path vector.Path
	path.MoveTo(float32(sx), float32(sy))
	for i := 0; i <= steps; i++ {
		a := s.Angle - s.Arc/2 + s.Arc*float64(i)/steps
		dx, dy := geom.Polar(a, s.Range)
		path.LineTo(float32(sx+dx), float32(sy+dy))
	}
	path.Close()

	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(g.colorOf(s.Color))
	opts.ColorScale.ScaleAlpha(float32(0.25 * s.Fade))
	vector.FillPath(screen, &path, &vector.FillOptions{}, opts)
}

// drawVehicle renders the hull, heading tick, turret barrel and armour ring.
func (g *Game) drawVehicle(screen *ebiten.Image, v arena.VehicleStatus) {
	ox, oy := float64(g.offX), float64(g.offY)
	x, y := ox+v.X, oy+v.Y
	r := v.Radius
	c := g.colorOf(v.Color)
	if v.Shutdown {
		c = shutCol
	}

	vector.FillCircle(screen, float32(x), float32(y), float32(r), c, true)
	if v.Overburn {
		vector.StrokeCircle(screen, float32(x), float32(y), float32(r+3), 1.5, heatCol, true)
	}

	hx, hy := geom.Polar(v.Heading, r)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+hx), float32(y+hy), 2, backdrop, true)

	tx, ty := geom.Polar(v.TurretHeading, r*1.8)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+tx), float32(y+ty), 3, color.White, true)

	if v.MaxArmor > 0 {
		frac := float32(geom.Clamp01(v.Armor / v.MaxArmor))
		bw := float32(2 * r)
		by := float32(y - r - 8)
		vector.FillRect(screen, float32(x-r), by, bw, 3, color.RGBA{R: 40, G: 40, B: 40, A: 200}, false)
		vector.FillRect(screen, float32(x-r), by, bw*frac, 3, armorCol, false)
	}
	ebitenutil.DebugPrintAt(screen, v.Name, int(x)-len(v.Name)*charW/2, int(y+r)+2)
}

// drawStatus renders one block per vehicle in the side panel.
func (g *Game) drawStatus(screen *ebiten.Image, f arena.Frame) {
	px := float32(g.offX + g.arenaW + borderWidth)
	py := float32(g.offY)
	pw := float32(panelWidth - borderWidth)
	ph := float32(g.arenaH)
	vector.FillRect(screen, px, py, pw, ph, panelBg, false)
	vector.StrokeRect(screen, px, py, pw, ph, 1.0, panelEdge, false)

	x := int(px) + 8
	y := int(py) + 6
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("T=%d  %.1fs  %s", f.Tick, f.Elapsed, g.match.State()), x, y)
	y += lineH + 4

	barW := pw - 16
	for _, v := range f.Vehicles {
		vector.FillRect(screen, float32(x), float32(y+3), 8, 8, g.colorOf(v.Color), false)
		ebitenutil.DebugPrintAt(screen, statusLine(v), x+12, y)
		y += lineH

		drawBar(screen, float32(x), float32(y), barW, v.Armor, v.MaxArmor, armorCol)
		y += 6
		drawBar(screen, float32(x), float32(y), barW, v.Heat, v.MaxHeat, heatCol)
		y += 8

		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("K:%d H:%d/%d F:%d", v.Stats.Kills, v.Stats.Hits, v.Stats.ShotsFired, v.Stats.Faults), x, y)
		y += lineH
		if v.LastError != "" {
			ebitenutil.DebugPrintAt(screen, truncate("! "+v.LastError, int(barW)/charW), x, y)
			y += lineH
		}
		y += 6
	}
}

func drawBar(screen *ebiten.Image, x, y, w float32, val, limit float64, c color.RGBA) {
	vector.FillRect(screen, x, y, w, 4, color.RGBA{R: 40, G: 40, B: 40, A: 255}, false)
	if limit > 0 {
		vector.FillRect(screen, x, y, w*float32(geom.Clamp01(val/limit)), 4, c, false)
	}
}

// drawHUD renders the key legend in the bottom-left corner of the arena.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := hudLines(g.match.Speed(), g.match.State())
	if _, ok := g.match.Pilot(); ok {
		lines = append(lines, "W/S thrust/brake  A/D turn  Q/E turret", "Space fire  F scan  Shift overburn")
	}

	const padX, padY = 5, 4
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 4)
	by := float32(g.offY+g.arenaH) - boxH - 4

	vector.FillRect(screen, bx, by, boxW, boxH, panelBg, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, panelEdge, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	ox, oy := float32(offX), float32(offY)
	for x := spacing; x < w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := spacing; y < h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}
