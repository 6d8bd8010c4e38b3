// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/planboard/internal/app/system/auditlog"
	"github.com/dalemusser/planboard/internal/app/system/auth"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// appConfigKeys defines the configuration keys for planboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: storage_type, sqlite_path, etc.
//   - Environment variables: PLANBOARD_STORAGE_TYPE, PLANBOARD_SQLITE_PATH, etc.
//   - Command-line flags: --storage_type, --sqlite_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_type", Default: StorageSQLite, Desc: "Storage backend: 'sqlite', 'mongo' or 'memory'"},
	{Name: "sqlite_path", Default: "./planboard.db", Desc: "SQLite database file"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (storage_type=mongo)"},
	{Name: "mongo_database", Default: "planboard", Desc: "MongoDB database name"},
	{Name: "key_prefix", Default: "pm_", Desc: "Prefix for every stored key"},

	{Name: "scan_interval", Default: "30m", Desc: "How often deadlines are checked (e.g., 30m, 1h)"},
	{Name: "timezone_fallback", Default: "UTC", Desc: "IANA timezone used when settings have none"},

	{Name: "log_level", Default: "info", Desc: "Log level: debug, info, warn, error"},
	{Name: "mode", Default: ModeRun, Desc: "What to do: run, scan, export, import, reset"},
	{Name: "transfer_path", Default: "-", Desc: "Export/import file ('-' for stdout/stdin)"},
	{Name: "bcrypt_cost", Default: auth.DefaultCost, Desc: "bcrypt work factor for new passwords"},
	{Name: "audit_log", Default: auditlog.ModeLog, Desc: "Audit events: 'log' (structured log) or 'off'"},

	{Name: "connect_timeout", Default: "10s", Desc: "Timeout for opening the storage backend"},
	{Name: "scan_timeout", Default: "30s", Desc: "Timeout for one deadline scan"},
	{Name: "transfer_timeout", Default: "60s", Desc: "Timeout for export and import"},
}

// LoadConfig loads WAFFLE core config and planboard's app config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (PLANBOARD_* for app keys)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PLANBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageType:   strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		SQLitePath:    appValues.String("sqlite_path"),
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		KeyPrefix:     appValues.String("key_prefix"),

		ScanInterval:     appValues.Duration("scan_interval", workers.DefaultScanInterval),
		TimezoneFallback: appValues.String("timezone_fallback"),

		LogLevel:     appValues.String("log_level"),
		Mode:         strings.ToLower(strings.TrimSpace(appValues.String("mode"))),
		TransferPath: appValues.String("transfer_path"),
		BcryptCost:   appValues.Int("bcrypt_cost"),
		AuditLog:     strings.ToLower(strings.TrimSpace(appValues.String("audit_log"))),

		Timeouts: timeouts.Config{
			Connect:  appValues.Duration("connect_timeout", timeouts.DefaultConnect),
			Scan:     appValues.Duration("scan_timeout", timeouts.DefaultScan),
			Transfer: appValues.Duration("transfer_timeout", timeouts.DefaultTransfer),
		},
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot start.
//
// The MongoDB URI is only checked when the mongo backend is selected, so a
// default sqlite install never needs a reachable or well-formed URI.
func ValidateConfig(appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageType {
	case StorageSQLite:
		if strings.TrimSpace(appCfg.SQLitePath) == "" {
			return fmt.Errorf("storage_type sqlite requires sqlite_path")
		}
	case StorageMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("storage_type mongo requires mongo_database")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}

	switch appCfg.Mode {
	case ModeRun, ModeScan, ModeExport, ModeImport, ModeReset:
	default:
		return fmt.Errorf("unknown mode %q", appCfg.Mode)
	}
	if appCfg.Mode == ModeImport && strings.TrimSpace(appCfg.TransferPath) == "" {
		return fmt.Errorf("mode import requires transfer_path")
	}

	if appCfg.ScanInterval < time.Minute {
		return fmt.Errorf("scan_interval must be at least 1m, got %s", appCfg.ScanInterval)
	}
	switch appCfg.AuditLog {
	case "", auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log must be 'log' or 'off', got %q", appCfg.AuditLog)
	}
	if _, err := zapcore.ParseLevel(appCfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if _, err := time.LoadLocation(appCfg.TimezoneFallback); err != nil {
		return fmt.Errorf("invalid timezone_fallback %q: %w", appCfg.TimezoneFallback, err)
	}
	return nil
}
