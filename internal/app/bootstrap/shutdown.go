// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// Shutdown closes the backend and, for mongo, disconnects the client.
func Shutdown(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	if deps.Backend != nil {
		if err := deps.Backend.Close(); err != nil {
			logger.Error("closing storage failed", zap.Error(err))
			return err
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
