package arena

import (
	"fmt"
	"strings"
)

// Event is one recorded engine event.
type Event struct {
	Tick     int
	Vehicle  string  // vehicle name, or "--" for arena-wide events
	Category string  // agent, weapon, sensor, damage, heat, state, projectile, collision, match
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[T=042] Hunter   weapon    fire             12.5
func (ev Event) String() string {
	return fmt.Sprintf("[T=%03d] %-8s %-9s %-16s %s",
		ev.Tick, ev.Vehicle, ev.Category, ev.Key, ev.Value)
}

// EventLog collects structured engine events. Tests query it; the viewer
// and headless report summarise it. A limit of 0 keeps everything.
type EventLog struct {
	entries []Event
	verbose bool
	limit   int
}

// NewEventLog creates an EventLog. Verbose also records per-scan and
// per-contact detail.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// SetLimit caps the number of retained events; the oldest are dropped first.
func (l *EventLog) SetLimit(n int) {
	if l == nil {
		return
	}
	l.limit = n
	l.trim()
}

// Add records an event. A nil log is a no-op.
func (l *EventLog) Add(tick int, vehicle, category, key, value string, numVal float64) {
	if l == nil {
		return
	}
	if vehicle == "" {
		vehicle = "--"
	}
	l.entries = append(l.entries, Event{
		Tick:     tick,
		Vehicle:  vehicle,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	l.trim()
}

// AddVerbose records an event only in verbose mode.
func (l *EventLog) AddVerbose(tick int, vehicle, category, key, value string, numVal float64) {
	if l == nil || !l.verbose {
		return
	}
	l.Add(tick, vehicle, category, key, value, numVal)
}

func (l *EventLog) trim() {
	if l.limit <= 0 || len(l.entries) <= l.limit {
		return
	}
	drop := len(l.entries) - l.limit
	l.entries = append(l.entries[:0], l.entries[drop:]...)
}

// Entries returns all recorded events.
func (l *EventLog) Entries() []Event {
	if l == nil {
		return nil
	}
	return l.entries
}

// Filter returns events matching category and key; "" matches anything.
func (l *EventLog) Filter(category, key string) []Event {
	if l == nil {
		return nil
	}
	var out []Event
	for _, ev := range l.entries {
		if category != "" && ev.Category != category {
			continue
		}
		if key != "" && ev.Key != key {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// FilterVehicle returns events for one vehicle name.
func (l *EventLog) FilterVehicle(name string) []Event {
	if l == nil {
		return nil
	}
	var out []Event
	for _, ev := range l.entries {
		if ev.Vehicle == name {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many events match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent event matching category and key.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	evs := l.Filter(category, key)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

// FirstTick returns the tick of the first matching event whose value
// contains substr, or -1.
func (l *EventLog) FirstTick(category, key, substr string) int {
	for _, ev := range l.Filter(category, key) {
		if substr == "" || strings.Contains(ev.Value, substr) {
			return ev.Tick
		}
	}
	return -1
}

// Format renders the whole log, one event per line.
func (l *EventLog) Format() string {
	var b strings.Builder
	for _, ev := range l.Entries() {
		b.WriteString(ev.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func formatAngle(deg float64) string {
	return fmt.Sprintf("%.1f", deg)
}
