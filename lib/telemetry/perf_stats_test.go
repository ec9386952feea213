package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestInstrumentPerfStatsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	InstrumentPerfStats(ctx)
	cancel()

	// the sampler goroutine exits without panicking once the context
	// is cancelled
	time.Sleep(time.Millisecond * 10)
}
