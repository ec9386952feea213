package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfStatsInterval = time.Second * 30

var perfMeter = otel.Meter("process.perf")
var cpuUsageGauge, _ = perfMeter.Float64Gauge("process.cpu_usage")
var heapAllocGauge, _ = perfMeter.Int64Gauge("process.heap_alloc_mb")
var liveObjectsGauge, _ = perfMeter.Int64Gauge("process.live_objects")
var goroutinesGauge, _ = perfMeter.Int64Gauge("process.goroutines")

// InstrumentPerfStats samples process health gauges on a fixed
// interval until the context is cancelled.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)
				heapAllocGauge.Record(ctx, int64(memStats.HeapAlloc/1_000_000))
				liveObjectsGauge.Record(ctx, int64(memStats.Mallocs-memStats.Frees))
				goroutinesGauge.Record(ctx, int64(runtime.NumGoroutine()))

				usage, err := cpu.PercentWithContext(ctx, time.Minute, false)
				if err != nil {
					slog.WarnContext(ctx, "failed to read cpu usage", "err", err)
					continue
				}
				cpuUsageGauge.Record(ctx, usage[0])
			case <-ctx.Done():
				return
			}
		}
	}()
}
