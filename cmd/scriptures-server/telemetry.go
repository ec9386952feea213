package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/vscarantav/parallelscriptures/lib/serviceutil"
	"github.com/vscarantav/parallelscriptures/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tel, err := telemetry.SetupFromEnv(ctx, "scriptures-server")
	if os.IsNotExist(err) {
		slog.WarnContext(ctx, "no telemetry.json5 found, otlp export disabled")
	} else if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	} else {
		go func() {
			<-ctx.Done()
			if err := tel.Shutdown(context.Background()); err != nil {
				slog.Error("failed to shut down telemetry", "err", err)
			}
		}()
	}
	telemetry.InstrumentPerfStats(ctx)
}
