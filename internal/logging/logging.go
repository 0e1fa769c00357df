// Package logging builds the zerolog logger used by the commands and adapts
// it to the engine's Logger interface.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to zerolog. Unknown names mean info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a timestamped logger writing to w. format "json" writes one
// JSON object per line; anything else uses the console writer.
func New(w io.Writer, level, format string) zerolog.Logger {
	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Adapter adapts zerolog.Logger to arena.Logger. Warnings go through a burst
// sampler because a faulting bot reports once per tick.
type Adapter struct {
	logger  zerolog.Logger
	sampled zerolog.Logger
}

// NewAdapter wraps logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{
		logger: logger,
		sampled: logger.Sample(&zerolog.BurstSampler{
			// at most 5 per 10 seconds, then 1 in 100
			Burst:       5,
			Period:      10 * time.Second,
			NextSampler: &zerolog.BasicSampler{N: 100},
		}),
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *Adapter) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *Adapter) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

// Warn logs a sampled warning with optional key-value pairs.
func (l *Adapter) Warn(msg string, keysAndValues ...any) {
	l.sampled.Warn().Fields(toFields(keysAndValues)).Msg(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *Adapter) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields converts key-value pairs to a map for zerolog. Errors are
// stringified so they render in both writers.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
