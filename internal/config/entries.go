package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/bots"
	"github.com/Garsondee/Algo-Arena/internal/script"
)

// palette colours bots that do not name one.
var palette = []string{"crimson", "royalblue", "gold", "mediumseagreen", "darkorange", "orchid", "turquoise", "slategray"}

// Entries builds match entries from the bot list. Each script gets its own
// runtime seeded from the arena seed and its position in the list. Script
// compile errors are returned here, before any match exists.
func (c *Config) Entries(logger arena.Logger) ([]arena.Entry, error) {
	if logger == nil {
		logger = arena.NopLogger{}
	}
	out := make([]arena.Entry, 0, len(c.Bots))
	for i, b := range c.Bots {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("Bot %d", i+1)
		}
		col := b.Color
		if col == "" {
			col = palette[i%len(palette)]
		}

		ctrl, err := c.controller(b, name, int64(i), logger)
		if err != nil {
			return nil, fmt.Errorf("bot %q: %w", name, err)
		}
		spec := c.VehicleSpec(i)
		out = append(out, arena.Entry{
			Name:       name,
			Color:      strings.ToLower(col),
			Spec:       &spec,
			Controller: ctrl,
			Manual:     b.Manual,
		})
	}
	return out, nil
}

func (c *Config) controller(b BotConfig, name string, idx int64, logger arena.Logger) (arena.Controller, error) {
	opts := []script.Option{
		script.WithLogger(logger),
		script.WithSeed(c.Arena.Seed*1000 + idx),
	}
	switch {
	case b.Script != "":
		src, err := os.ReadFile(filepath.Clean(b.Script))
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return script.New(name, string(src), opts...)
	case b.Template != "":
		return script.FromTemplate(b.Template, opts...)
	case b.Native != "":
		return bots.ByName(b.Native)
	}
	return nil, nil
}
