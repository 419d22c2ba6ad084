package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/school-system/results-portal/internal/models"
)

const defaultSnapshotName = "default"

// DBStore keeps the snapshot document in one row of result_snapshots.
type DBStore struct {
	db     *gorm.DB
	name   string
	logger *zap.Logger
}

func NewDBStore(db *gorm.DB, logger *zap.Logger) *DBStore {
	return &DBStore{db: db, name: defaultSnapshotName, logger: logger}
}

func (s *DBStore) Load(ctx context.Context) (*models.Store, error) {
	var snap models.ResultSnapshot
	err := s.db.WithContext(ctx).First(&snap, "name = ?", s.name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	store, ok := decode(snap.Payload)
	if !ok {
		s.logger.Warn("snapshot row unreadable, starting from an empty store", zap.String("name", s.name))
	}
	return store, nil
}

func (s *DBStore) Save(ctx context.Context, store *models.Store) error {
	data, err := encode(store)
	if err != nil {
		return err
	}

	snap := models.ResultSnapshot{Name: s.name, Payload: data}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snap).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
