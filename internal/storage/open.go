package storage

import (
	"go.uber.org/zap"

	"github.com/school-system/results-portal/internal/config"
	"github.com/school-system/results-portal/internal/database"
)

// Open builds the snapshot store selected by STORE_BACKEND. The database
// backend connects and migrates before returning.
func Open(cfg *config.Config, log *zap.Logger) (SnapshotStore, error) {
	if cfg.Store.Backend != config.StoreBackendDatabase {
		log.Info("using file result store", zap.String("path", cfg.Store.Path))
		return NewFileStore(cfg.Store.Path, log), nil
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return NewDBStore(db, log), nil
}
