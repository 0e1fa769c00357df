// Package config loads arena, vehicle, logging and bot settings with viper.
// Values come from defaults, then an optional JSON/YAML/TOML file, then
// ARENA_* environment variables, then bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Algo-Arena/internal/arena"
)

// EnvPrefix prefixes environment overrides, e.g. ARENA_ARENA_SEED.
const EnvPrefix = "ARENA"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the fully resolved configuration.
type Config struct {
	Arena   ArenaConfig       `mapstructure:"arena"`
	Vehicle arena.VehicleSpec `mapstructure:"vehicle"`
	Log     LogConfig         `mapstructure:"log"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Bots    []BotConfig       `mapstructure:"bots"`
}

// ArenaConfig mirrors arena.Settings.
type ArenaConfig struct {
	Width         float64       `mapstructure:"width"`
	Height        float64       `mapstructure:"height"`
	FPSCap        int           `mapstructure:"fpsCap"`
	MaxDT         float64       `mapstructure:"maxDt"`
	MinSpeed      float64       `mapstructure:"minSpeed"`
	MaxSpeed      float64       `mapstructure:"maxSpeed"`
	MinVehicles   int           `mapstructure:"minVehicles"`
	MinSeparation float64       `mapstructure:"minSeparation"`
	AgentBudget   time.Duration `mapstructure:"agentBudget"`
	Seed          int64         `mapstructure:"seed"`
}

// LogConfig selects the zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// MetricsConfig controls the OpenTelemetry stdout exporter.
type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// BotConfig is one competitor. Exactly one of Script, Template or Native
// names the controller; none of them means an idle vehicle.
type BotConfig struct {
	Name     string `mapstructure:"name"`
	Color    string `mapstructure:"color"`
	Script   string `mapstructure:"script"`   // path to a .js file
	Template string `mapstructure:"template"` // built-in script name
	Native   string `mapstructure:"native"`   // built-in Go bot name
	Manual   bool   `mapstructure:"manual"`

	// Vehicle overrides the shared vehicle spec; zero fields inherit it.
	Vehicle *arena.VehicleSpec `mapstructure:"vehicle"`
}

func setDefaults() {
	s := arena.DefaultSettings()
	viper.SetDefault("arena.width", s.Width)
	viper.SetDefault("arena.height", s.Height)
	viper.SetDefault("arena.fpsCap", s.FPSCap)
	viper.SetDefault("arena.maxDt", s.MaxDT)
	viper.SetDefault("arena.minSpeed", s.MinSpeed)
	viper.SetDefault("arena.maxSpeed", s.MaxSpeed)
	viper.SetDefault("arena.minVehicles", s.MinVehicles)
	viper.SetDefault("arena.minSeparation", s.MinSeparation)
	viper.SetDefault("arena.agentBudget", s.AgentBudget.String())
	viper.SetDefault("arena.seed", s.Seed)

	v := arena.DefaultVehicleSpec()
	viper.SetDefault("vehicle.maxSpeed", v.MaxSpeed)
	viper.SetDefault("vehicle.acceleration", v.Acceleration)
	viper.SetDefault("vehicle.braking", v.Braking)
	viper.SetDefault("vehicle.bodyTurnRate", v.BodyTurnRate)
	viper.SetDefault("vehicle.turretTurnRate", v.TurretRate)
	viper.SetDefault("vehicle.radius", v.Radius)
	viper.SetDefault("vehicle.armor", v.Armor)
	viper.SetDefault("vehicle.firePower", v.FirePower)
	viper.SetDefault("vehicle.fireCooldown", v.FireCooldown)
	viper.SetDefault("vehicle.maxHeat", v.MaxHeat)
	viper.SetDefault("vehicle.fireHeat", v.FireHeat)
	viper.SetDefault("vehicle.overburnHeatRate", v.OverburnHeatRate)
	viper.SetDefault("vehicle.dissipation", v.Dissipation)
	viper.SetDefault("vehicle.overburnSpeed", v.OverburnSpeed)
	viper.SetDefault("vehicle.overburnPower", v.OverburnPower)
	viper.SetDefault("vehicle.scanRange", v.ScanRange)
	viper.SetDefault("vehicle.scanArc", v.ScanArc)
	viper.SetDefault("vehicle.scanCooldown", v.ScanCooldown)
	viper.SetDefault("vehicle.projectileSpeed", v.ProjectileSpeed)
	viper.SetDefault("vehicle.projectileLifetime", v.ProjectileLifetime)
	viper.SetDefault("vehicle.projectileRadius", v.ProjectileRadius)
	viper.SetDefault("vehicle.explosionRadius", v.ExplosionRadius)
	viper.SetDefault("vehicle.explosionDamage", v.ExplosionDamage)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.interval", "10s")

	viper.SetDefault("bots", []map[string]any{
		{"name": "Hunter", "color": "crimson", "native": "hunter"},
		{"name": "Sniper", "color": "royalblue", "template": "sniper"},
		{"name": "Rover", "color": "gold", "template": "defensive"},
	})
}

// Load reads configuration. path may be empty to use defaults, environment
// and flags only.
func Load(path string) (*Config, error) {
	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"seed":        "arena.seed",
	"width":       "arena.width",
	"height":      "arena.height",
	"fps":         "arena.fpsCap",
	"budget":      "arena.agentBudget",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"metrics":     "metrics.enabled",
	"metrics-int": "metrics.interval",
}

// BindFlags binds whichever of the known flags fs defines. Call before Load.
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks what viper cannot: sizes, vehicle stats and bot definitions.
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: arena: %v", ErrInvalid, err)
	}
	if err := c.Vehicle.Validate(); err != nil {
		return fmt.Errorf("%w: vehicle: %v", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q (want console or json)", ErrInvalid, c.Log.Format)
	}

	manual := 0
	for i, b := range c.Bots {
		sources := 0
		for _, s := range []string{b.Script, b.Template, b.Native} {
			if s != "" {
				sources++
			}
		}
		if sources > 1 {
			return fmt.Errorf("%w: bot %d (%s): set only one of script, template, native", ErrInvalid, i, b.Name)
		}
		if b.Color != "" {
			if _, err := ParseColor(b.Color); err != nil {
				return fmt.Errorf("%w: bot %d (%s): %v", ErrInvalid, i, b.Name, err)
			}
		}
		if b.Manual {
			manual++
		}
	}
	if manual > 1 {
		return fmt.Errorf("%w: %v", ErrInvalid, arena.ErrTooManyPilots)
	}
	return nil
}

// Settings converts the arena section.
func (c *Config) Settings() arena.Settings {
	s := arena.DefaultSettings()
	s.Width = c.Arena.Width
	s.Height = c.Arena.Height
	s.FPSCap = c.Arena.FPSCap
	s.MaxDT = c.Arena.MaxDT
	s.MinSpeed = c.Arena.MinSpeed
	s.MaxSpeed = c.Arena.MaxSpeed
	s.MinVehicles = c.Arena.MinVehicles
	s.MinSeparation = c.Arena.MinSeparation
	s.AgentBudget = c.Arena.AgentBudget
	s.Seed = c.Arena.Seed
	return s
}

// VehicleSpec returns the vehicle spec for bot i, the shared spec overlaid with the
// bot's own overrides.
func (c *Config) VehicleSpec(i int) arena.VehicleSpec {
	spec := arena.DefaultVehicleSpec().Overlay(&c.Vehicle)
	if i >= 0 && i < len(c.Bots) {
		spec = spec.Overlay(c.Bots[i].Vehicle)
	}
	return spec
}

// ParseColor accepts an SVG colour name or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
}
