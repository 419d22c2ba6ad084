package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/school-system/results-portal/internal/metrics"
	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/results"
	"github.com/school-system/results-portal/internal/storage"
	"github.com/school-system/results-portal/internal/tabular"
)

var ErrValidation = errors.New("invalid request")

// UploadFile is one file of an upload batch. Open is called at most once.
type UploadFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

func FileFromBytes(name string, data []byte) UploadFile {
	return UploadFile{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func FileFromPath(path string) UploadFile {
	return UploadFile{
		Filename: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

type FileOutcome struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Records  int    `json:"records"`
	Message  string `json:"message"`
}

type UploadReport struct {
	ResultKey     string        `json:"resultKey"`
	TotalUploaded int           `json:"totalUploaded"`
	Messages      []string      `json:"details"`
	Files         []FileOutcome `json:"files"`
}

// Errors returns the outcomes of files that failed to process.
func (r *UploadReport) Errors() []FileOutcome {
	var out []FileOutcome
	for _, f := range r.Files {
		if f.Status == metrics.StatusError {
			out = append(out, f)
		}
	}
	return out
}

// ResultService owns the store. Every operation loads the snapshot,
// works on the in-memory copy and writes it back while holding mu, so
// operations inside one process never interleave.
type ResultService struct {
	mu     sync.Mutex
	store  storage.SnapshotStore
	logger *zap.Logger
	now    func() time.Time
}

func NewResultService(store storage.SnapshotStore, logger *zap.Logger) *ResultService {
	return &ResultService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Upload merges every file of a batch under resultKey. A failing file is
// recorded in the report and never stops the others; the snapshot is
// written once after the last file.
func (s *ResultService) Upload(ctx context.Context, resultKey string, files []UploadFile) (*UploadReport, error) {
	resultKey = strings.TrimSpace(resultKey)
	if resultKey == "" {
		return nil, fmt.Errorf("%w: resultKey is required", ErrValidation)
	}
	if !hasNamedFile(files) {
		return nil, fmt.Errorf("%w: no file selected", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New().String()
	report := &UploadReport{ResultKey: resultKey}
	for _, f := range files {
		outcome := s.processFile(store, resultKey, f)
		metrics.UploadFiles.WithLabelValues(outcome.Status).Inc()

		fields := []zap.Field{
			zap.String("batch_id", batchID),
			zap.String("result_key", resultKey),
			zap.String("filename", outcome.Filename),
			zap.String("status", outcome.Status),
			zap.Int("records", outcome.Records),
		}
		if outcome.Status == metrics.StatusError {
			s.logger.Error(outcome.Message, fields...)
		} else {
			s.logger.Info("upload file handled", fields...)
		}

		report.TotalUploaded += outcome.Records
		report.Messages = append(report.Messages, outcome.Message)
		report.Files = append(report.Files, outcome)
	}
	metrics.UploadRows.Add(float64(report.TotalUploaded))

	if err := s.save(ctx, store); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ResultService) processFile(store *models.Store, resultKey string, f UploadFile) (outcome FileOutcome) {
	name := strings.TrimSpace(f.Filename)
	outcome.Filename = name
	if name == "" {
		outcome.Status = metrics.StatusSkipped
		outcome.Message = "Skipped a file with no name."
		return outcome
	}

	ext := tabular.Extension(name)
	if !tabular.Supported(ext) {
		outcome.Status = metrics.StatusSkipped
		outcome.Message = fmt.Sprintf("Skipped %s: unsupported file type. Please upload a CSV or Excel file.", name)
		return outcome
	}

	rows, err := readFile(f, ext)
	if err != nil {
		outcome.Status = metrics.StatusError
		outcome.Message = fmt.Sprintf("Error processing %s: %v", name, err)
		return outcome
	}

	applied := results.MergeRows(store, resultKey, rows)
	if applied == 0 {
		outcome.Status = metrics.StatusSkipped
		outcome.Message = fmt.Sprintf("No valid student data found in %s.", name)
		return outcome
	}

	store.UploadedFiles = append(store.UploadedFiles, models.UploadFileRecord{
		ResultKey:     resultKey,
		Filename:      name,
		UploadTime:    s.now().UTC().Format(time.RFC3339),
		TotalRecords:  applied,
		FileExtension: ext,
	})
	outcome.Status = metrics.StatusProcessed
	outcome.Records = applied
	outcome.Message = fmt.Sprintf("Successfully uploaded %d student results from %s.", applied, name)
	return outcome
}

// readFile turns a panic inside a decoder into an error. Merging only
// starts once the whole file has been read.
func readFile(f UploadFile, ext string) (rows []tabular.Row, err error) {
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("%v", p)
		}
	}()

	if f.Open == nil {
		return nil, errors.New("file content missing")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return tabular.Read(ext, rc)
}

func hasNamedFile(files []UploadFile) bool {
	for _, f := range files {
		if strings.TrimSpace(f.Filename) != "" {
			return true
		}
	}
	return false
}

func (s *ResultService) Summary(ctx context.Context, studentID string) (results.Summary, error) {
	store, err := s.load(ctx)
	if err != nil {
		return results.Summary{}, err
	}
	return results.Summarize(store, studentID)
}

func (s *ResultService) Detail(ctx context.Context, studentID, resultKey string) (results.Detail, error) {
	store, err := s.load(ctx)
	if err != nil {
		return results.Detail{}, err
	}
	return results.Lookup(store, studentID, resultKey)
}

// GradeCardData resolves the block printed on a grade card. An empty
// resultKey selects the student's default key.
func (s *ResultService) GradeCardData(ctx context.Context, studentID, resultKey string) (results.Detail, error) {
	store, err := s.load(ctx)
	if err != nil {
		return results.Detail{}, err
	}
	if resultKey == "" {
		summary, err := results.Summarize(store, studentID)
		if err != nil {
			return results.Detail{}, err
		}
		if summary.DefaultKey == "" {
			return results.Detail{}, results.ErrResultNotFound
		}
		resultKey = summary.DefaultKey
	}
	return results.Lookup(store, studentID, resultKey)
}

func (s *ResultService) ListUploadedFiles(ctx context.Context) ([]models.UploadFileRecord, error) {
	store, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return store.UploadedFiles, nil
}

func (s *ResultService) DeleteFileRecord(ctx context.Context, resultKey, filename string) (results.DeleteOutcome, error) {
	if strings.TrimSpace(resultKey) == "" || strings.TrimSpace(filename) == "" {
		return results.DeleteOutcome{}, fmt.Errorf("%w: resultKey and filename are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.store.Load(ctx)
	if err != nil {
		return results.DeleteOutcome{}, err
	}
	out, err := results.DeleteFileRecord(store, resultKey, filename)
	if err != nil {
		return out, err
	}
	if err := s.save(ctx, store); err != nil {
		return results.DeleteOutcome{}, err
	}

	s.logger.Info("uploaded file record deleted",
		zap.String("result_key", resultKey),
		zap.String("filename", filename),
		zap.Int("removed_file_records", out.RemovedFileRecords),
		zap.Int("affected_student_entries", out.AffectedStudentEntries))
	return out, nil
}

func (s *ResultService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := models.NewStore()
	if err := s.save(ctx, store); err != nil {
		return err
	}
	s.logger.Warn("result store reset")
	return nil
}

// Export returns the whole store as currently persisted.
func (s *ResultService) Export(ctx context.Context) (*models.Store, error) {
	return s.load(ctx)
}

func (s *ResultService) load(ctx context.Context) (*models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

func (s *ResultService) save(ctx context.Context, store *models.Store) error {
	timer := prometheus.NewTimer(metrics.SnapshotSave)
	defer timer.ObserveDuration()

	if err := s.store.Save(ctx, store); err != nil {
		return err
	}
	metrics.StoreStudents.Set(float64(len(store.StudentData)))
	return nil
}
