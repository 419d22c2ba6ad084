package results

import (
	"strings"

	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/tabular"
)

// Column names read directly from a row.
const (
	ColStudentID = "studentId"
	ColName      = "name"
	ColBranch    = "branch"
	ColSemester  = "semester"
	ColSGPA      = "sgpa"
	ColCGPA      = "cgpa"
)

// Normalized is one usable row: who it belongs to and the block it carries.
type Normalized struct {
	Metadata models.Metadata
	Block    models.ResultBlock
}

// Normalize converts one row into a metadata fragment and a result block
// for resultKey. ok is false when the row has no student id.
func Normalize(row tabular.Row, resultKey string) (n Normalized, ok bool) {
	studentID := NormalizeStudentID(text(row, ColStudentID))
	if studentID == "" {
		return Normalized{}, false
	}

	semester := strings.TrimSpace(text(row, ColSemester))
	if semester == "" {
		semester = models.NotAvailable
	}

	n.Metadata = models.Metadata{
		StudentID: studentID,
		Name:      strings.TrimSpace(text(row, ColName)),
		Branch:    strings.TrimSpace(text(row, ColBranch)),
	}
	n.Block = models.ResultBlock{
		ResultKey: resultKey,
		Semester:  semester,
		SGPA:      numberOrZero(row, ColSGPA),
		CGPA:      numberOrZero(row, ColCGPA),
		Subjects:  InferSubjects(row),
	}
	return n, true
}

// NormalizeStudentID is the canonical form of a student id: trimmed, uppercase.
func NormalizeStudentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func text(row tabular.Row, col string) string {
	v, _ := row.Get(col)
	return v.String()
}

// numberOrZero keeps the cell untouched when the column exists; the
// read path decides how non-numeric values are shown.
func numberOrZero(row tabular.Row, col string) tabular.Value {
	if v, ok := row.Get(col); ok {
		return v
	}
	return tabular.Num(0)
}
