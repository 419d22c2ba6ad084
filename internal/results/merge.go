package results

import (
	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/tabular"
)

// Merge applies one normalized row to the store. Metadata only moves
// forward: empty incoming fields never erase known values. The block
// replaces whatever was stored under the same result key.
func Merge(store *models.Store, resultKey string, n Normalized) {
	id := NormalizeStudentID(n.Metadata.StudentID)
	rec, ok := store.StudentData[id]
	if !ok {
		rec = models.NewStudentRecord(id)
		store.StudentData[id] = rec
	}
	if rec.Results == nil {
		rec.Results = make(map[string]models.ResultBlock)
	}

	rec.Metadata.StudentID = id
	if n.Metadata.Name != "" {
		rec.Metadata.Name = n.Metadata.Name
	}
	if n.Metadata.Branch != "" {
		rec.Metadata.Branch = n.Metadata.Branch
	}

	block := n.Block
	block.ResultKey = resultKey
	rec.Results[resultKey] = block
}

// MergeRows normalizes and merges every row of one file and returns how
// many rows were applied. Rows without a student id are skipped silently.
func MergeRows(store *models.Store, resultKey string, rows []tabular.Row) int {
	applied := 0
	for _, row := range rows {
		n, ok := Normalize(row, resultKey)
		if !ok {
			continue
		}
		Merge(store, resultKey, n)
		applied++
	}
	return applied
}
