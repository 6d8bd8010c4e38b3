package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/dalemusser/planboard/internal/app/bootstrap"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	zcfg := zap.NewProductionConfig()
	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	_, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(appCfg, logger); err != nil {
		return err
	}
	if lvl, err := zapcore.ParseLevel(appCfg.LogLevel); err == nil {
		zcfg.Level.SetLevel(lvl)
	}
	timeouts.Configure(appCfg.Timeouts)
	t := timeouts.Current()
	logger.Debug("timeouts configured",
		zap.Duration("connect", t.Connect),
		zap.Duration("scan", t.Scan),
		zap.Duration("transfer", t.Transfer))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.ConnectDB(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	defer bootstrap.Shutdown(context.Background(), deps, logger)

	app, err := bootstrap.Startup(ctx, appCfg, deps, logger)
	if err != nil {
		return err
	}
	logger.Info("planboard starting", zap.String("mode", appCfg.Mode), zap.String("storage", appCfg.StorageType))
	return bootstrap.Run(ctx, appCfg, app, logger, os.Stdout, os.Stdin)
}
