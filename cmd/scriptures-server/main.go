package main

import (
	"flag"
	"net/http"

	"github.com/vscarantav/parallelscriptures/lib/configutil"
	"github.com/vscarantav/parallelscriptures/lib/serviceutil"
)

type Config struct {
	Port      int             `json:"port"`
	StaticDir string          `json:"static_dir"`
	Scripture ScriptureConfig `json:"scripture"`
	Account   AccountConfig   `json:"account"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	cfg.Port = configutil.EnvInt("PORT", cfg.Port)
	if cfg.Port == 0 {
		cfg.Port = 5000
	}

	mux := http.NewServeMux()

	err = InitScripture(mux, cfg.Scripture)
	if err != nil {
		serviceutil.Fatal("init scripture", err)
	}
	err = InitAccount(mux, cfg.Account)
	if err != nil {
		serviceutil.Fatal("init account", err)
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
