// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/app/kv/mongokv"
	"github.com/dalemusser/planboard/internal/app/kv/sqlitekv"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens the key-value backend named by appCfg.StorageType.
func ConnectDB(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.StorageType {
	case StorageSQLite:
		store, err := sqlitekv.Open(ctx, appCfg.SQLitePath)
		if err != nil {
			return DBDeps{}, err
		}
		logger.Info("opened sqlite storage", zap.String("path", appCfg.SQLitePath))
		return DBDeps{Backend: store}, nil

	case StorageMongo:
		cctx, cancel := context.WithTimeout(ctx, timeouts.Connect())
		defer cancel()
		client, err := mongo.Connect(cctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(cctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
		return DBDeps{
			Backend:       mongokv.New(db, logger),
			MongoClient:   client,
			MongoDatabase: db,
		}, nil

	case StorageMemory:
		logger.Warn("using in-memory storage; data is lost on exit")
		return DBDeps{Backend: kv.NewMemory()}, nil
	}
	return DBDeps{}, fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
}
