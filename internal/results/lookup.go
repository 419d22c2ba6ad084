package results

import (
	"errors"
	"sort"

	"github.com/school-system/results-portal/internal/models"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrResultNotFound     = errors.New("result not found for this key")
	ErrFileRecordNotFound = errors.New("uploaded file record not found")
)

type Summary struct {
	Metadata      models.Metadata
	AvailableKeys []string
	DefaultKey    string
}

type Detail struct {
	Metadata models.Metadata
	Result   models.ResultBlock
}

type DeleteOutcome struct {
	RemovedFileRecords     int
	AffectedStudentEntries int
}

// Summarize lists the result keys held for a student. The default key is
// the lexicographically greatest one, which is only chronological for
// zero-padded, year-first labels ("2024_Sem10" sorts before "2024_Sem9").
func Summarize(store *models.Store, studentID string) (Summary, error) {
	rec, ok := store.StudentData[NormalizeStudentID(studentID)]
	if !ok {
		return Summary{}, ErrStudentNotFound
	}

	keys := make([]string, 0, len(rec.Results))
	for key := range rec.Results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := Summary{Metadata: rec.Metadata, AvailableKeys: keys}
	if len(keys) > 0 {
		s.DefaultKey = keys[len(keys)-1]
	}
	return s, nil
}

func Lookup(store *models.Store, studentID, resultKey string) (Detail, error) {
	rec, ok := store.StudentData[NormalizeStudentID(studentID)]
	if !ok {
		return Detail{}, ErrStudentNotFound
	}
	block, ok := rec.Results[resultKey]
	if !ok {
		return Detail{}, ErrResultNotFound
	}
	return Detail{Metadata: rec.Metadata, Result: block}, nil
}

// DeleteFileRecord drops every provenance entry matching both resultKey
// and filename, then removes resultKey from every student. Files that
// share a key cannot be removed independently.
func DeleteFileRecord(store *models.Store, resultKey, filename string) (DeleteOutcome, error) {
	var out DeleteOutcome
	kept := make([]models.UploadFileRecord, 0, len(store.UploadedFiles))
	for _, f := range store.UploadedFiles {
		if f.ResultKey == resultKey && f.Filename == filename {
			out.RemovedFileRecords++
			continue
		}
		kept = append(kept, f)
	}
	if out.RemovedFileRecords == 0 {
		return out, ErrFileRecordNotFound
	}
	store.UploadedFiles = kept

	for _, rec := range store.StudentData {
		if _, ok := rec.Results[resultKey]; ok {
			delete(rec.Results, resultKey)
			out.AffectedStudentEntries++
		}
	}
	return out, nil
}

// Reset empties the aggregate in place.
func Reset(store *models.Store) {
	*store = *models.NewStore()
}
