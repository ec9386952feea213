package main

import (
	"context"

	"github.com/vscarantav/parallelscriptures/cmd/corpus-fetch/commands"
	"github.com/vscarantav/parallelscriptures/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "corpus-fetch")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
