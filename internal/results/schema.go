package results

import (
	"math"
	"strconv"
	"strings"

	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/tabular"
)

// Column suffixes that tag a subject column family. Matching is case-sensitive.
const (
	SuffixCredits = "_Credits"
	SuffixGrade   = "_Grade"
	SuffixPoints  = "_Points"
)

// subjectColumns is what a row says about one subject before defaults apply.
type subjectColumns struct {
	credits tabular.Value
	grade   tabular.Value
	points  tabular.Value

	hasCredits, hasGrade, hasPoints bool
}

// InferSubjects groups suffix-tagged columns of row by their common prefix
// and returns one SubjectGrade per prefix, in order of first appearance.
// Columns without a known suffix are ignored.
func InferSubjects(row tabular.Row) []models.SubjectGrade {
	var order []string
	found := make(map[string]*subjectColumns)

	entry := func(name string) *subjectColumns {
		sc, ok := found[name]
		if !ok {
			sc = &subjectColumns{}
			found[name] = sc
			order = append(order, name)
		}
		return sc
	}

	for _, col := range row.Columns() {
		v, _ := row.Get(col)
		switch {
		case strings.HasSuffix(col, SuffixCredits):
			sc := entry(strings.TrimSuffix(col, SuffixCredits))
			sc.credits, sc.hasCredits = v, true
		case strings.HasSuffix(col, SuffixGrade):
			sc := entry(strings.TrimSuffix(col, SuffixGrade))
			sc.grade, sc.hasGrade = v, true
		case strings.HasSuffix(col, SuffixPoints):
			sc := entry(strings.TrimSuffix(col, SuffixPoints))
			sc.points, sc.hasPoints = v, true
		}
	}

	subjects := make([]models.SubjectGrade, 0, len(order))
	for _, name := range order {
		sc := found[name]
		subject := models.SubjectGrade{
			Name:        name,
			Grade:       models.NotAvailable,
			GradePoints: tabular.Num(0),
		}
		if sc.hasCredits {
			subject.Credit = CoerceCredit(sc.credits)
		}
		if sc.hasGrade && !sc.grade.IsEmpty() {
			subject.Grade = sc.grade.String()
		}
		if sc.hasPoints {
			subject.GradePoints = sc.points
		}
		subjects = append(subjects, subject)
	}
	return subjects
}

// CoerceCredit never fails: it tries an integer parse, then a float
// parse truncated toward zero, and falls back to 0.
func CoerceCredit(v tabular.Value) int {
	if f, ok := v.Float(); ok {
		return int(math.Trunc(f))
	}
	raw := strings.TrimSpace(v.String())
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(math.Trunc(f))
	}
	return 0
}
