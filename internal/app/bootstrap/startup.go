// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/planboard/internal/app/actions"
	"github.com/dalemusser/planboard/internal/app/kv"
	entitystore "github.com/dalemusser/planboard/internal/app/store/entities"
	"github.com/dalemusser/planboard/internal/app/system/auditlog"
	"github.com/dalemusser/planboard/internal/app/system/auth"
	"github.com/dalemusser/planboard/internal/app/system/dates"
	"github.com/dalemusser/planboard/internal/app/system/session"
	"github.com/dalemusser/planboard/internal/app/system/workers"
	"go.uber.org/zap"
)

// App is a wired planboard instance.
type App struct {
	KV      *kv.Adapter
	Gate    *session.Gate
	Store   *entitystore.Store
	Actions *actions.Service
	Scan    *workers.DeadlineScan
	Audit   *auditlog.Logger
}

// Startup builds the store over deps.Backend, writes missing defaults, and
// restores the persisted session.
func Startup(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger, opts ...entitystore.Option) (*App, error) {
	adapter := kv.NewAdapter(deps.Backend, appCfg.KeyPrefix, logger)
	gate := session.New(adapter, logger)

	base := []entitystore.Option{
		entitystore.WithLocation(dates.Location(appCfg.TimezoneFallback, time.UTC)),
	}
	store := entitystore.New(adapter, gate, logger, append(base, opts...)...)
	if !store.Init(ctx) {
		return nil, entitystore.ErrNotSaved
	}

	if gate.Restore(ctx) {
		u, _ := gate.Current()
		logger.Info("restored session", zap.String("user_id", u.ID))
	}

	mode := appCfg.AuditLog
	audit := auditlog.New(logger, auditlog.Config{Auth: mode, Work: mode, Team: mode, Data: mode})

	return &App{
		KV:      adapter,
		Gate:    gate,
		Store:   store,
		Actions: actions.New(store, gate, auth.NewHasher(appCfg.BcryptCost), logger, actions.WithAudit(audit)),
		Scan:    workers.NewDeadlineScan(store, logger, appCfg.ScanInterval),
		Audit:   audit,
	}, nil
}
