// internal/app/bootstrap/run.go
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// Run executes appCfg.Mode against app. In ModeRun it blocks until ctx is
// done. stdout and stdin back a TransferPath of "-".
func Run(ctx context.Context, appCfg AppConfig, app *App, logger *zap.Logger, stdout io.Writer, stdin io.Reader) error {
	switch appCfg.Mode {
	case ModeRun:
		app.Scan.Start()
		<-ctx.Done()
		app.Scan.Stop()
		return nil

	case ModeScan:
		sctx, cancel := timeouts.WithScan(ctx)
		defer cancel()
		n := app.Scan.ScanOnce(sctx)
		logger.Info("deadline scan finished", zap.Int("notifications", n))
		return nil

	case ModeExport:
		tctx, cancel := timeouts.WithTransfer(ctx)
		defer cancel()
		return exportTo(tctx, app, appCfg.TransferPath, stdout, logger)

	case ModeImport:
		tctx, cancel := timeouts.WithTransfer(ctx)
		defer cancel()
		return importFrom(tctx, app, appCfg.TransferPath, stdin, logger)

	case ModeReset:
		if !app.Store.ClearAllData(ctx) {
			return fmt.Errorf("reset: data was not cleared")
		}
		app.Audit.DataCleared(ctx)
		return nil
	}
	return fmt.Errorf("unknown mode %q", appCfg.Mode)
}

func exportTo(ctx context.Context, app *App, path string, stdout io.Writer, logger *zap.Logger) error {
	data := app.Store.ExportData(ctx)
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	b = append(b, '\n')

	if path == "-" {
		_, err = stdout.Write(b)
	} else {
		err = os.WriteFile(path, b, 0o600)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("data exported",
		zap.String("path", path),
		zap.Int("projects", len(data.Projects)),
		zap.Int("tasks", len(data.Tasks)))
	return nil
}

func importFrom(ctx context.Context, app *App, path string, stdin io.Reader, logger *zap.Logger) error {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.Debug("import document read", zap.Int("bytes", len(b)))

	var data models.Import
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("import: invalid document: %w", err)
	}
	if !app.Store.ImportData(ctx, data) {
		return fmt.Errorf("import: data was not saved")
	}
	app.Audit.DataImported(ctx, path)
	return nil
}
