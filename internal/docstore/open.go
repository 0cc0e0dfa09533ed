package docstore

import (
	"context"
	"log/slog"

	"github.com/podium/backend/internal/config"
	"github.com/podium/backend/internal/db"
)

var (
	_ Database = (*MemoryDatabase)(nil)
	_ Database = (*MongoDatabase)(nil)
	_ Database = (*PostgresDatabase)(nil)
)

// Connector opens a real backend; swapped out in tests.
type Connector func(ctx context.Context, cfg config.StoreConfig) (Database, error)

// Open selects the configured backend. If the real store cannot be reached the
// returned database is an in-memory one for the rest of the process lifetime;
// there is no reconnection.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) Database {
	return OpenWith(ctx, cfg, logger, Connect)
}

// OpenWith is Open with an explicit connector.
func OpenWith(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger, connect Connector) Database {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory document store, data will not persist")
		return NewMemoryDatabase()
	}

	database, err := connect(ctx, cfg)
	if err != nil {
		logger.Warn("document store unavailable, falling back to in-memory storage",
			"driver", cfg.Driver, "error", err)
		return NewMemoryDatabase()
	}

	logger.Info("connected to document store", "driver", database.Backend())
	return database
}

// Connect dials the real backend named by cfg.Driver.
func Connect(ctx context.Context, cfg config.StoreConfig) (Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		pool, err := db.Connect(connectCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresDatabase(pool), nil
	default:
		client, err := db.ConnectMongo(ctx, cfg.MongoURL, cfg.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return NewMongoDatabase(client, cfg.DatabaseName), nil
	}
}
