// Command api запускает PayToGether BFF: миграции (database.auto_migrate),
// REST API, фоновые задачи и outbox relay.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/config"
	"github.com/Haleralex/paytogether/internal/container"
)

// Заполняются через -ldflags "-X main.version=... -X main.buildTime=... -X main.gitCommit=...".
var (
	version   = ""
	buildTime = ""
	gitCommit = ""
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "paytogether: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		configName string
	)
	flag.StringVar(&configPath, "config-path", "configs", "Directory with the configuration file")
	flag.StringVar(&configName, "config-name", "config", "Configuration file name without extension")
	flag.Parse()

	cfg, err := config.Load(configPath, configName)
	if err != nil {
		return err
	}
	if version != "" {
		cfg.App.Version = version
	}
	if buildTime != "" {
		cfg.App.BuildTime = buildTime
	}
	if gitCommit != "" {
		cfg.App.GitCommit = gitCommit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := container.New(cfg)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := app.Initialize(ctx); err != nil {
		return err
	}

	return app.Run(ctx)
}
