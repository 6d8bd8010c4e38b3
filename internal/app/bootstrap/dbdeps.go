// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/planboard/internal/app/kv"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the storage opened for the configured backend.
type DBDeps struct {
	Backend kv.Backend

	// Set only for the mongo backend.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
