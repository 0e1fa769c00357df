// Package telemetry installs the OpenTelemetry meter provider that the
// engine's instruments report to.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ShutdownFunc flushes pending metrics and stops the provider.
type ShutdownFunc func(context.Context) error

// Setup installs a global meter provider that periodically writes metrics
// as JSON to w. The returned func must be called on exit.
func Setup(w io.Writer, interval time.Duration) (ShutdownFunc, error) {
	exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithoutTimestamps())
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
