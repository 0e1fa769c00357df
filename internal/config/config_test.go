package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/script"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.Arena.Width)
	assert.Equal(t, 600.0, cfg.Arena.Height)
	assert.Equal(t, 60, cfg.Arena.FPSCap)
	assert.Equal(t, 50*time.Millisecond, cfg.Arena.AgentBudget)
	assert.Equal(t, arena.DefaultVehicleSpec(), cfg.Vehicle)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Metrics.Interval)
	require.Len(t, cfg.Bots, 3)
	assert.Equal(t, "hunter", cfg.Bots[0].Native)

	s := cfg.Settings()
	assert.Equal(t, arena.DefaultSettings(), s)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := writeConfig(t, "arena.json", `{
		"arena": { "width": 1000, "seed": 42, "agentBudget": "20ms" },
		"vehicle": { "armor": 150 },
		"log": { "level": "debug", "format": "json" },
		"bots": [
			{ "name": "Alpha", "template": "aggressive", "vehicle": { "maxSpeed": 80 } },
			{ "name": "Beta", "native": "turret", "color": "#00ff00" }
		]
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.Arena.Width)
	assert.Equal(t, 600.0, cfg.Arena.Height, "unset keys keep defaults")
	assert.Equal(t, int64(42), cfg.Arena.Seed)
	assert.Equal(t, 20*time.Millisecond, cfg.Arena.AgentBudget)
	assert.Equal(t, 150.0, cfg.Vehicle.Armor)
	assert.Equal(t, "json", cfg.Log.Format)
	require.Len(t, cfg.Bots, 2)

	alpha := cfg.VehicleSpec(0)
	assert.Equal(t, 80.0, alpha.MaxSpeed)
	assert.Equal(t, 150.0, alpha.Armor, "per-bot overrides sit on the shared spec")
	beta := cfg.VehicleSpec(1)
	assert.Equal(t, 100.0, beta.MaxSpeed)
}

func TestLoad_YAML(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := writeConfig(t, "arena.yaml", "arena:\n  height: 700\nbots:\n  - name: Solo\n  - name: Duo\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 700.0, cfg.Arena.Height)
	assert.Len(t, cfg.Bots, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load("/nonexistent/arena.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ARENA_ARENA_SEED", "99")
	t.Setenv("ARENA_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Arena.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestBindFlags(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int64("seed", 1, "")
	fs.String("log-format", "console", "")
	require.NoError(t, fs.Parse([]string{"--seed=7", "--log-format=json"}))
	require.NoError(t, BindFlags(fs))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Arena.Seed)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"bad format":      `{"log": {"format": "xml"}}`,
		"bad colour":      `{"bots": [{"name": "A", "color": "notacolour"}, {"name": "B"}]}`,
		"two sources":     `{"bots": [{"name": "A", "template": "idle", "native": "idle"}, {"name": "B"}]}`,
		"two pilots":      `{"bots": [{"name": "A", "manual": true}, {"name": "B", "manual": true}]}`,
		"negative armour": `{"vehicle": {"armor": -5}}`,
		"tiny arena":      `{"arena": {"width": 80}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			_, err := Load(writeConfig(t, "c.json", body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("Crimson")
	require.NoError(t, err)
	assert.Equal(t, uint8(220), c.R)

	c, err = ParseColor("#102030")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), c.R)
	assert.Equal(t, uint8(0x30), c.B)

	_, err = ParseColor("#12")
	assert.Error(t, err)
}

func TestEntries_BuildsControllers(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "mine.js")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`function runBotAI(b, api, m) { api.thrust(1); }`), 0o644))
	path := writeConfig(t, "c.json", `{"bots": [
		{"name": "File", "script": "`+filepath.ToSlash(scriptPath)+`"},
		{"name": "Tmpl", "template": "sniper"},
		{"name": "Go", "native": "hunter"},
		{"name": "Me", "manual": true},
		{}
	]}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	entries, err := cfg.Entries(nil)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	_, isScript := entries[0].Controller.(*script.Controller)
	assert.True(t, isScript)
	assert.NotNil(t, entries[2].Controller)
	assert.Nil(t, entries[3].Controller)
	assert.True(t, entries[3].Manual)
	assert.Equal(t, "Bot 5", entries[4].Name)
	assert.Equal(t, "crimson", entries[0].Color, "palette fills missing colours")
	require.NotNil(t, entries[1].Spec)
	assert.Equal(t, cfg.Vehicle, *entries[1].Spec)

	m, err := arena.NewMatch(cfg.Settings())
	require.NoError(t, err)
	require.NoError(t, m.Start(entries))
}

func TestEntries_ScriptErrorsSurface(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, "c.json", `{"bots": [{"name": "X", "template": "nope"}, {"name": "Y"}]}`))
	require.NoError(t, err)
	_, err = cfg.Entries(nil)
	assert.ErrorIs(t, err, script.ErrUnknownTemplate)
}
