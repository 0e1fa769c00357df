package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/bots"
	"github.com/Garsondee/Algo-Arena/internal/logging"
	"github.com/Garsondee/Algo-Arena/internal/script"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	runStyle   = lipgloss.NewStyle().Bold(true)
	winStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	drawStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

type vehicleStats struct {
	name     string
	survived bool
	armor    float64
	stats    arena.Stats
}

type runStats struct {
	runIndex int
	seed     int64
	ticks    int
	finished bool
	winner   string // empty for a draw or an unfinished run

	firstFireTick    int
	firstDamageTick  int
	firstDestroyTick int
	shutdowns        int
	faults           int
	placements       int

	vehicles []vehicleStats
}

// contestant is one entry of the lineup: a native bot, a script template
// ("js:<template>") or a script file ("file:<path>").
type contestant struct {
	kind string
	ref  string
}

func parseLineup(specs []string) ([]contestant, error) {
	out := make([]contestant, 0, len(specs))
	for _, s := range specs {
		kind, ref, ok := strings.Cut(strings.TrimSpace(s), ":")
		if !ok {
			kind, ref = "bot", kind
		}
		switch kind {
		case "bot", "js", "file":
		default:
			return nil, fmt.Errorf("unknown contestant kind %q in %q", kind, s)
		}
		if ref == "" {
			return nil, fmt.Errorf("empty contestant %q", s)
		}
		out = append(out, contestant{kind: kind, ref: ref})
	}
	return out, nil
}

func (c contestant) label() string {
	base := c.ref
	if c.kind == "file" {
		base = strings.TrimSuffix(base[strings.LastIndexAny(base, `/\`)+1:], ".js")
	}
	if base == "" {
		return c.ref
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

// controller builds a fresh controller so no state leaks between runs.
func (c contestant) controller(seed int64, logger arena.Logger) (arena.Controller, error) {
	switch c.kind {
	case "js":
		return script.FromTemplate(c.ref, script.WithSeed(seed), script.WithLogger(logger))
	case "file":
		src, err := os.ReadFile(c.ref)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return script.New(c.ref, string(src), script.WithSeed(seed), script.WithLogger(logger))
	default:
		return bots.ByName(c.ref)
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("headless-report", pflag.ContinueOnError)
	runs := fs.Int("runs", 5, "number of headless matches")
	ticks := fs.Int("ticks", 3600, "tick limit per match")
	seedBase := fs.Int64("seed-base", 42, "seed for run 1")
	seedStep := fs.Int64("seed-step", 1, "seed increment between runs")
	width := fs.Float64("width", 800, "arena width")
	height := fs.Float64("height", 600, "arena height")
	lineup := fs.StringSlice("bots", []string{"hunter", "turret", "js:aggressive", "js:sniper"},
		"contestants: native bot name, js:<template> or file:<path>")
	logLevel := fs.String("log-level", "error", "engine log level")
	verbose := fs.Bool("events", false, "print every run's event log")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if *ticks <= 0 {
		return fmt.Errorf("--ticks must be > 0")
	}
	cs, err := parseLineup(*lineup)
	if err != nil {
		return err
	}
	if len(cs) < 2 {
		return fmt.Errorf("need at least 2 contestants, got %d", len(cs))
	}

	logger := logging.NewAdapter(logging.New(os.Stderr, *logLevel, "console"))

	fmt.Fprintln(w, titleStyle.Render("=== Headless Arena Report ==="))
	fmt.Fprintf(w, "bots=%s runs=%d ticks=%d seed_base=%d seed_step=%d arena=%.0fx%.0f\n\n",
		strings.Join(*lineup, ","), *runs, *ticks, *seedBase, *seedStep, *width, *height)

	all := make([]runStats, 0, *runs)
	for i := 0; i < *runs; i++ {
		seed := *seedBase + int64(i)*(*seedStep)
		hs, err := newRun(cs, seed, *width, *height, logger)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		hs.RunTicks(*ticks)
		rs := collect(i+1, seed, hs)
		all = append(all, rs)
		printRun(w, rs)
		if *verbose {
			fmt.Fprint(w, dimStyle.Render(hs.Log.Format()))
			fmt.Fprintln(w)
		}
	}
	printAggregate(w, all)
	return nil
}

func newRun(cs []contestant, seed int64, width, height float64, logger arena.Logger) (*arena.Harness, error) {
	opts := []arena.HarnessOption{
		arena.WithSeed(seed),
		arena.WithArenaSize(width, height),
		arena.WithHarnessLogger(logger),
	}
	seen := map[string]int{}
	for i, c := range cs {
		ctrl, err := c.controller(seed*1000+int64(i), logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.ref, err)
		}
		name := c.label()
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%s#%d", name, seen[name])
		}
		opts = append(opts, arena.WithEntry(arena.Entry{Name: name, Controller: ctrl}))
	}
	return arena.NewHarness(opts...), nil
}

func collect(runIndex int, seed int64, hs *arena.Harness) runStats {
	rs := runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            hs.Engine.Tick(),
		finished:         hs.Engine.Over(),
		firstFireTick:    hs.Log.FirstTick("weapon", "fire", ""),
		firstDamageTick:  hs.Log.FirstTick("damage", "", ""),
		firstDestroyTick: hs.Log.FirstTick("state", "destroyed", ""),
		placements:       hs.Log.Count("match", "placement"),
	}
	for _, ev := range hs.Log.Filter("heat", "shutdown") {
		if ev.Value == "engaged" {
			rs.shutdowns++
		}
	}
	if w := hs.Engine.Winner(); w != nil {
		rs.winner = w.Name
	}
	for _, v := range hs.Engine.Vehicles() {
		rs.faults += v.Stats.Faults
		rs.vehicles = append(rs.vehicles, vehicleStats{
			name:     v.Name,
			survived: v.Active,
			armor:    v.Armor,
			stats:    v.Stats,
		})
	}
	return rs
}

func outcome(rs runStats) string {
	switch {
	case !rs.finished:
		return drawStyle.Render("time limit")
	case rs.winner == "":
		return drawStyle.Render("draw")
	default:
		return winStyle.Render("winner=" + rs.winner)
	}
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintln(w, runStyle.Render(fmt.Sprintf("--- Run %d (seed=%d) ---", rs.runIndex, rs.seed)))
	fmt.Fprintf(w, "result: %s ticks=%d\n", outcome(rs), rs.ticks)
	fmt.Fprintf(w, "phase_markers: first_fire=%d first_damage=%d first_destroyed=%d\n",
		rs.firstFireTick, rs.firstDamageTick, rs.firstDestroyTick)
	fmt.Fprintf(w, "events: heat_shutdowns=%d agent_faults=%d best_effort_placements=%d\n",
		rs.shutdowns, rs.faults, rs.placements)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("bot", "alive", "armor", "shots", "hits", "acc", "dealt", "taken", "kills", "scans", "faults")
	for _, v := range rs.vehicles {
		t.Row(v.name, yesNo(v.survived), fmt.Sprintf("%.0f", v.armor),
			fmt.Sprint(v.stats.ShotsFired), fmt.Sprint(v.stats.Hits), accuracy(v.stats),
			fmt.Sprintf("%.0f", v.stats.DamageDealt), fmt.Sprintf("%.0f", v.stats.DamageTaken),
			fmt.Sprint(v.stats.Kills), fmt.Sprint(v.stats.Scans), fmt.Sprint(v.stats.Faults))
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w)
}

type botAgg struct {
	name     string
	runs     int
	wins     int
	survived int
	kills    int
	shots    int
	hits     int
	dealt    float64
	faults   int
}

func aggregate(all []runStats) (rows []*botAgg, draws, unfinished int, endTicks []int) {
	byName := map[string]*botAgg{}
	for _, rs := range all {
		switch {
		case !rs.finished:
			unfinished++
		case rs.winner == "":
			draws++
		}
		if rs.finished {
			endTicks = append(endTicks, rs.ticks)
		}
		for _, v := range rs.vehicles {
			ag, ok := byName[v.name]
			if !ok {
				ag = &botAgg{name: v.name}
				byName[v.name] = ag
				rows = append(rows, ag)
			}
			ag.runs++
			if rs.winner == v.name {
				ag.wins++
			}
			if v.survived {
				ag.survived++
			}
			ag.kills += v.stats.Kills
			ag.shots += v.stats.ShotsFired
			ag.hits += v.stats.Hits
			ag.dealt += v.stats.DamageDealt
			ag.faults += v.stats.Faults
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].wins != rows[j].wins {
			return rows[i].wins > rows[j].wins
		}
		return rows[i].name < rows[j].name
	})
	return rows, draws, unfinished, endTicks
}

func printAggregate(w io.Writer, all []runStats) {
	rows, draws, unfinished, endTicks := aggregate(all)

	fmt.Fprintln(w, titleStyle.Render("=== Aggregate ==="))
	fmt.Fprintf(w, "runs=%d draws=%d time_limit=%d avg_end_tick=%s\n",
		len(all), draws, unfinished, avgTickString(endTicks))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("bot", "wins", "win%", "survival%", "kills", "acc", "avg dealt", "faults")
	for _, r := range rows {
		t.Row(r.name, fmt.Sprint(r.wins),
			fmt.Sprintf("%.0f%%", pct(r.wins, r.runs)),
			fmt.Sprintf("%.0f%%", pct(r.survived, r.runs)),
			fmt.Sprint(r.kills),
			accuracy(arena.Stats{ShotsFired: r.shots, Hits: r.hits}),
			fmt.Sprintf("%.1f", avgFloat(r.dealt, r.runs)),
			fmt.Sprint(r.faults))
	}
	fmt.Fprintln(w, t.String())
}

func accuracy(s arena.Stats) string {
	if s.ShotsFired == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", pct(s.Hits, s.ShotsFired))
}

func pct(n, of int) float64 {
	if of <= 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}

func avgFloat(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
