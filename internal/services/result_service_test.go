package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/results"
	"github.com/school-system/results-portal/internal/storage"
)

const sem4CSV = "studentId,name,branch,semester,sgpa,cgpa,Math_Credits,Math_Grade,Math_Points,History_Grade\n" +
	"21cs01,Asha,CSE,IV,8.5,8.1,4,A,9,B\n" +
	"21cs02,Ravi,ECE,IV,7.2,,4.0,B,7,\n" +
	",Nobody,,,,,,,,\n"

// countingStore records how often the snapshot is touched.
type countingStore struct {
	storage.SnapshotStore
	loads, saves int
}

func (c *countingStore) Load(ctx context.Context) (*models.Store, error) {
	c.loads++
	return c.SnapshotStore.Load(ctx)
}

func (c *countingStore) Save(ctx context.Context, s *models.Store) error {
	c.saves++
	return c.SnapshotStore.Save(ctx, s)
}

func newTestService(t *testing.T) (*ResultService, *countingStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students_results.json")
	cs := &countingStore{SnapshotStore: storage.NewFileStore(path, zap.NewNop())}
	svc := NewResultService(cs, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc, cs
}

func TestUpload_Validation(t *testing.T) {
	svc, cs := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		files []UploadFile
	}{
		{"missing key", "  ", []UploadFile{FileFromBytes("a.csv", []byte(sem4CSV))}},
		{"no files", "K", nil},
		{"only unnamed files", "K", []UploadFile{FileFromBytes("", []byte(sem4CSV))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.key, tt.files)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Zero(t, cs.loads, "validation happens before the store is read")
	assert.Zero(t, cs.saves)
}

func TestUpload_MergesAndRecordsProvenance(t *testing.T) {
	svc, cs := newTestService(t)
	ctx := context.Background()

	report, err := svc.Upload(ctx, " 2024_Sem4_Regular ", []UploadFile{FileFromBytes("sem4.csv", []byte(sem4CSV))})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalUploaded)
	assert.Equal(t, []string{"Successfully uploaded 2 student results from sem4.csv."}, report.Messages)
	assert.Equal(t, 1, cs.saves)

	files, err := svc.ListUploadedFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, models.UploadFileRecord{
		ResultKey:     "2024_Sem4_Regular",
		Filename:      "sem4.csv",
		UploadTime:    "2024-06-01T10:00:00Z",
		TotalRecords:  2,
		FileExtension: "csv",
	}, files[0])

	d, err := svc.Detail(ctx, "21CS02", "2024_Sem4_Regular")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", d.Metadata.Name)
	require.Len(t, d.Result.Subjects, 2)
	assert.Equal(t, 4, d.Result.Subjects[0].Credit)
	assert.Equal(t, "N/A", d.Result.Subjects[1].Grade)
	assert.Equal(t, "N/A", d.Result.CGPA.Display())
}

func TestUpload_PartialBatchResilience(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	failing := UploadFile{
		Filename: "broken.csv",
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("stream interrupted")
		},
	}
	files := []UploadFile{
		FileFromBytes("first.csv", []byte("studentId,sgpa\nA1,8\n")),
		FileFromBytes("second.xlsx", []byte("this is not a workbook")),
		failing,
		FileFromBytes("notes.txt", []byte("hello")),
		FileFromBytes("third.csv", []byte("studentId,sgpa\nB2,7\n")),
	}

	report, err := svc.Upload(ctx, "K", files)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalUploaded)
	require.Len(t, report.Messages, 5)

	errs := report.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "second.xlsx", errs[0].Filename)
	assert.Equal(t, "broken.csv", errs[1].Filename)
	assert.Equal(t, "skipped", report.Files[3].Status)

	for _, id := range []string{"A1", "B2"} {
		_, err := svc.Detail(ctx, id, "K")
		assert.NoError(t, err, id)
	}
	uploaded, err := svc.ListUploadedFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, uploaded, 2)
}

func TestUpload_NumericLookingIdentifiers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sheet := "studentId,name,branch\n00123,Nan,CSE\n19E045,Infinity,ECE\n21CS01,Asha,CSE\n"
	report, err := svc.Upload(ctx, "K", []UploadFile{FileFromBytes("ids.csv", []byte(sheet))})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalUploaded)

	for id, name := range map[string]string{"00123": "Nan", "19e045": "Infinity", "21cs01": "Asha"} {
		summary, err := svc.Summary(ctx, id)
		require.NoError(t, err, id)
		assert.Equal(t, name, summary.Metadata.Name)
	}
}

type panickingReader struct{}

func (panickingReader) Read([]byte) (int, error) { panic("decoder blew up") }
func (panickingReader) Close() error { return nil }

func TestUpload_PanicWhileReadingIsIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	files := []UploadFile{
		{Filename: "bad.csv", Open: func() (io.ReadCloser, error) { return panickingReader{}, nil }},
		FileFromBytes("good.csv", []byte("studentId\nA1\n")),
	}
	report, err := svc.Upload(ctx, "K", files)
	require.NoError(t, err)

	assert.Equal(t, "error", report.Files[0].Status)
	assert.Contains(t, report.Files[0].Message, "decoder blew up")
	assert.Equal(t, "processed", report.Files[1].Status)

	uploaded, err := svc.ListUploadedFiles(ctx)
	require.NoError(t, err)
	require.Len(t, uploaded, 1)
	assert.Equal(t, "good.csv", uploaded[0].Filename)
}

func TestUpload_FileWithoutUsableRows(t *testing.T) {
	svc, _ := newTestService(t)
	report, err := svc.Upload(context.Background(), "K", []UploadFile{
		FileFromBytes("empty.csv", []byte("studentId,name\n,Nobody\n")),
	})
	require.NoError(t, err)
	assert.Zero(t, report.TotalUploaded)
	assert.Equal(t, "skipped", report.Files[0].Status)

	files, err := svc.ListUploadedFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDeleteFileRecord_Cascade(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "K", []UploadFile{FileFromBytes("sem4.csv", []byte(sem4CSV))})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "J", []UploadFile{FileFromBytes("sem3.csv", []byte("studentId\n21CS01\n"))})
	require.NoError(t, err)

	_, err = svc.DeleteFileRecord(ctx, "K", "other.csv")
	assert.ErrorIs(t, err, results.ErrFileRecordNotFound)
	_, err = svc.DeleteFileRecord(ctx, "", "sem4.csv")
	assert.ErrorIs(t, err, ErrValidation)

	out, err := svc.DeleteFileRecord(ctx, "K", "sem4.csv")
	require.NoError(t, err)
	assert.Equal(t, results.DeleteOutcome{RemovedFileRecords: 1, AffectedStudentEntries: 2}, out)

	_, err = svc.Detail(ctx, "21CS01", "K")
	assert.ErrorIs(t, err, results.ErrResultNotFound)
	summary, err := svc.Summary(ctx, "21cs01")
	require.NoError(t, err)
	assert.Equal(t, []string{"J"}, summary.AvailableKeys)
}

func TestGradeCardDataUsesDefaultKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, key := range []string{"2023_Sem1", "2023_Sem2"} {
		_, err := svc.Upload(ctx, key, []UploadFile{FileFromBytes("f.csv", []byte("studentId\nA1\n"))})
		require.NoError(t, err)
	}

	d, err := svc.GradeCardData(ctx, "A1", "")
	require.NoError(t, err)
	assert.Equal(t, "2023_Sem2", d.Result.ResultKey)

	d, err = svc.GradeCardData(ctx, "A1", "2023_Sem1")
	require.NoError(t, err)
	assert.Equal(t, "2023_Sem1", d.Result.ResultKey)

	_, err = svc.GradeCardData(ctx, "ZZ", "")
	assert.ErrorIs(t, err, results.ErrStudentNotFound)
}

func TestResetAndPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "students_results.json")
	ctx := context.Background()

	first := NewResultService(storage.NewFileStore(path, zap.NewNop()), zap.NewNop())
	_, err := first.Upload(ctx, "K", []UploadFile{FileFromBytes("sem4.csv", []byte(sem4CSV))})
	require.NoError(t, err)

	second := NewResultService(storage.NewFileStore(path, zap.NewNop()), zap.NewNop())
	_, err = second.Summary(ctx, "21CS01")
	require.NoError(t, err, "a fresh service reads the saved snapshot")

	require.NoError(t, second.Reset(ctx))
	_, err = first.Summary(ctx, "21CS01")
	assert.ErrorIs(t, err, results.ErrStudentNotFound)
	store, err := first.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, store.UploadedFiles)
}
