// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/planboard/internal/app/system/timeouts"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Run modes.
const (
	ModeRun    = "run"    // restore the session and scan deadlines until stopped
	ModeScan   = "scan"   // one deadline scan, then exit
	ModeExport = "export" // write every collection to TransferPath
	ModeImport = "import" // replace collections from TransferPath
	ModeReset  = "reset"  // remove all planboard data
)

// AppConfig holds planboard's configuration.
//
// These values come from environment variables (PLANBOARD_*), configuration
// files, or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig is
// loaded alongside but planboard only uses the app-level values below.
type AppConfig struct {
	// Key-value storage
	StorageType   string // sqlite | mongo | memory
	SQLitePath    string // database file for the sqlite backend
	MongoURI      string // MongoDB connection string
	MongoDatabase string // database holding the kv collection
	KeyPrefix     string // namespace prepended to every logical key

	// Deadline scanning
	ScanInterval time.Duration

	// TimezoneFallback is used for calendar-day math when the stored
	// settings carry no usable timezone.
	TimezoneFallback string

	LogLevel     string // debug | info | warn | error
	Mode         string // see Mode* constants
	TransferPath string // file for export/import; "-" means stdout/stdin
	BcryptCost   int

	// AuditLog is "log" or "off" and applies to every audit category.
	AuditLog string

	// Timeouts for blocking storage work; zero fields keep the defaults.
	Timeouts timeouts.Config
}
