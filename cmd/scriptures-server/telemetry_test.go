package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vscarantav/parallelscriptures/lib/telemetry"
)

// the shutdown goroutine holds the value returned by SetupFromEnv; a
// zero value must shut down cleanly so a configless run never panics
func TestTelemetryShutdownZeroValue(t *testing.T) {
	require.NoError(t, telemetry.Telemetry{}.Shutdown(context.Background()))
}

func TestInitTelemetryWithoutConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// no telemetry.json5 in the test tree, the server keeps running
	// with export disabled
	InitTelemetry(ctx, false)
}
