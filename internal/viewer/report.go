package viewer

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Algo-Arena/internal/arena"
)

// reportEvents is how many recent events the copied report carries.
const reportEvents = 40

// statusReport is the plain-text snapshot copied to the clipboard.
func statusReport(f arena.Frame, state arena.State, speed float64, log *arena.EventLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Algo Arena status ---\n")
	fmt.Fprintf(&b, "tick=%d elapsed=%.2fs state=%s speed=%s arena=%.0fx%.0f\n\n",
		f.Tick, f.Elapsed, state, speedLabel(speed), f.Width, f.Height)

	for _, v := range f.Vehicles {
		fmt.Fprintf(&b, "%s (%s)\n", v.Name, v.ID)
		fmt.Fprintf(&b, "  pos=(%.1f,%.1f) heading=%.1f turret=%.1f speed=%.1f\n",
			v.X, v.Y, v.Heading, v.TurretHeading, v.Speed)
		fmt.Fprintf(&b, "  armor=%.1f/%.0f heat=%.1f/%.0f %s\n",
			v.Armor, v.MaxArmor, v.Heat, v.MaxHeat, flags(v))
		fmt.Fprintf(&b, "  shots=%d hits=%d dealt=%.1f taken=%.1f kills=%d scans=%d faults=%d\n",
			v.Stats.ShotsFired, v.Stats.Hits, v.Stats.DamageDealt, v.Stats.DamageTaken,
			v.Stats.Kills, v.Stats.Scans, v.Stats.Faults)
		if v.LastError != "" {
			fmt.Fprintf(&b, "  last error: %s\n", v.LastError)
		}
	}

	events := log.Entries()
	if len(events) > reportEvents {
		events = events[len(events)-reportEvents:]
	}
	if len(events) > 0 {
		b.WriteString("\nrecent events:\n")
		for _, ev := range events {
			b.WriteString(ev.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// statusLine is the one-line panel header for a vehicle.
func statusLine(v arena.VehicleStatus) string {
	s := fmt.Sprintf("%-10s %3.0f", truncate(v.Name, 10), v.Armor)
	if f := flags(v); f != "" {
		s += " " + f
	}
	return s
}

func flags(v arena.VehicleStatus) string {
	var fs []string
	if !v.Active {
		fs = append(fs, "DEAD")
	}
	if v.Shutdown {
		fs = append(fs, "SHUTDOWN")
	}
	if v.Overburn {
		fs = append(fs, "OB")
	}
	if v.Manual {
		fs = append(fs, "PILOT")
	}
	return strings.Join(fs, " ")
}

func hudLines(speed float64, state arena.State) []string {
	label := speedLabel(speed)
	switch state {
	case arena.StatePaused:
		label = "PAUSED"
	case arena.StateGameOver:
		label = "OVER"
	}
	return []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", label),
		"R=reset  C=copy report  H=hide",
	}
}

func speedLabel(speed float64) string {
	if speed == float64(int(speed)) {
		return fmt.Sprintf("%dx", int(speed))
	}
	return fmt.Sprintf("%.2gx", speed)
}

func gameOverText(winner *arena.VehicleStatus) string {
	if winner == nil {
		return "DRAW"
	}
	return winner.Name + " WINS"
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
