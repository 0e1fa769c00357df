// Package bots holds native Go controllers. They play the same roles as the
// bundled scripts without a JavaScript runtime, which keeps batch runs and
// tests fast.
package bots

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// ErrUnknownBot is returned by ByName for unregistered names.
var ErrUnknownBot = errors.New("unknown bot")

var registry = map[string]func() arena.Controller{
	"hunter": func() arena.Controller { return NewHunter() },
	"turret": func() arena.Controller { return NewTurret() },
	"idle":   Idle,
}

// ByName builds a fresh controller for a registered bot.
func ByName(name string) (arena.Controller, error) {
	mk, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
	}
	return mk(), nil
}

// Names lists the registered bots.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Idle never issues a command.
func Idle() arena.Controller {
	return arena.ControllerFunc(func(context.Context, arena.Info, *arena.API, arena.Memory) error {
		return nil
	})
}

// lead returns the point to aim at so a shot travelling at speed meets a
// target moving in a straight line. One refinement pass is plenty at arena
// ranges. speed <= 0 aims at the contact itself.
func lead(fromX, fromY float64, c arena.Contact, speed float64) (float64, float64) {
	if speed <= 0 {
		return c.X, c.Y
	}
	t := geom.DistanceTo(fromX, fromY, c.X, c.Y) / speed
	x, y := c.X+c.VelX*t, c.Y+c.VelY*t
	t = geom.DistanceTo(fromX, fromY, x, y) / speed
	return c.X + c.VelX*t, c.Y + c.VelY*t
}

func closest(cs []arena.Contact) (arena.Contact, bool) {
	if len(cs) == 0 {
		return arena.Contact{}, false
	}
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Distance < best.Distance {
			best = c
		}
	}
	return best, true
}

// aimTurret points the turret at (x,y) and reports whether it is already
// within tol degrees.
func aimTurret(info arena.Info, api *arena.API, x, y, tol float64) bool {
	bearing := api.AngleTo(x, y)
	api.TurnTurret(bearing - info.Heading)
	return math.Abs(geom.AngularDifference(info.TurretHeading, bearing)) <= tol
}
