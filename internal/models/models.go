package models

import (
	"time"

	"github.com/school-system/results-portal/internal/tabular"
)

const NotAvailable = tabular.NotAvailable

// Metadata identifies a student. Fields are empty until a row supplies them.
type Metadata struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Branch    string `json:"branch"`
}

// SubjectGrade is one subject line of a result block
type SubjectGrade struct {
	Name        string        `json:"name"`
	Credit      int           `json:"credit"`
	Grade       string        `json:"grade"`
	GradePoints tabular.Value `json:"gradePoints"`
}

// ResultBlock holds one student's grades for one result key.
// A re-upload of the same key replaces the whole block.
type ResultBlock struct {
	ResultKey string         `json:"resultKey"`
	Semester  string         `json:"semester"`
	SGPA      tabular.Value  `json:"sgpa"`
	CGPA      tabular.Value  `json:"cgpa"`
	Subjects  []SubjectGrade `json:"subjects"`
}

// StudentRecord is everything known about one student
type StudentRecord struct {
	Metadata Metadata               `json:"metadata"`
	Results  map[string]ResultBlock `json:"results"`
}

func NewStudentRecord(studentID string) *StudentRecord {
	return &StudentRecord{
		Metadata: Metadata{StudentID: studentID},
		Results:  make(map[string]ResultBlock),
	}
}

// UploadFileRecord is the provenance entry written for each ingested file
type UploadFileRecord struct {
	ResultKey     string `json:"resultKey"`
	Filename      string `json:"filename"`
	UploadTime    string `json:"uploadTime"`
	TotalRecords  int    `json:"totalRecords"`
	FileExtension string `json:"fileExtension"`
}

// Store is the whole persisted aggregate. It is loaded and saved as one unit.
type Store struct {
	UploadedFiles []UploadFileRecord        `json:"uploadedFiles"`
	StudentData   map[string]*StudentRecord `json:"studentData"`
}

func NewStore() *Store {
	return &Store{
		UploadedFiles: []UploadFileRecord{},
		StudentData:   make(map[string]*StudentRecord),
	}
}

// Valid reports whether a decoded snapshot has the expected shape.
func (s *Store) Valid() bool {
	return s != nil && s.StudentData != nil && s.UploadedFiles != nil
}

// Normalize repairs decoded data so every record is usable:
// nil result maps are allocated and metadata ids follow their keys.
func (s *Store) Normalize() {
	for id, rec := range s.StudentData {
		if rec == nil {
			delete(s.StudentData, id)
			continue
		}
		if rec.Results == nil {
			rec.Results = make(map[string]ResultBlock)
		}
		rec.Metadata.StudentID = id
	}
}

// ResultSnapshot is the single database row holding a serialized Store.
type ResultSnapshot struct {
	Name      string    `gorm:"type:varchar(64);primaryKey" json:"name"`
	Payload   []byte    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
