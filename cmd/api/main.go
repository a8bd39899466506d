package main

import (
	"os"

	"docreview-backend/internal/bootstrap"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/server"
	"docreview-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Error("server.error", map[string]any{"error": err})
		os.Exit(1)
	}
}
