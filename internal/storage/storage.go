// Package storage persists the results store as one snapshot document.
// Every load reads the whole aggregate and every save rewrites it.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/school-system/results-portal/internal/models"
)

// SnapshotStore loads and saves the entire store.
type SnapshotStore interface {
	Load(ctx context.Context) (*models.Store, error)
	Save(ctx context.Context, store *models.Store) error
}

// decode parses a snapshot document. ok is false when the bytes are not
// JSON or lack the expected shape; callers then start from an empty store.
func decode(data []byte) (store *models.Store, ok bool) {
	var s models.Store
	if err := json.Unmarshal(data, &s); err != nil {
		return models.NewStore(), false
	}
	if !s.Valid() {
		return models.NewStore(), false
	}
	s.Normalize()
	return &s, true
}

func encode(store *models.Store) ([]byte, error) {
	if store == nil {
		store = models.NewStore()
	}
	data, err := json.MarshalIndent(store, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}
