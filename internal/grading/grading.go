package grading

import (
	"fmt"
	"math"
)

// Band is one row of the grading-scale legend printed on grade cards.
type Band struct {
	Grade    string
	Points   int
	MinMarks int
	MaxMarks int
	Remark   string
}

// scale is ordered from best to worst; Ab (absent) has no marks range.
var scale = []Band{
	{"O", 10, 90, 100, "Outstanding"},
	{"A+", 9, 80, 89, "Excellent"},
	{"A", 8, 70, 79, "Very Good"},
	{"B+", 7, 60, 69, "Good"},
	{"B", 6, 50, 59, "Above Average"},
	{"C", 5, 45, 49, "Average"},
	{"P", 4, 40, 44, "Pass"},
	{"F", 0, 0, 39, "Fail"},
	{"Ab", 0, -1, -1, "Absent"},
}

// Scale returns a copy of the ten-point legend.
func Scale() []Band {
	out := make([]Band, len(scale))
	copy(out, scale)
	return out
}

// GradeForPoints maps grade points back to a letter. Points are
// truncated; anything below 4 is F. Returns "" for non-finite input.
func GradeForPoints(points float64) string {
	if math.IsNaN(points) || math.IsInf(points, 0) {
		return ""
	}
	p := int(math.Trunc(points))
	for _, b := range scale {
		if b.Grade == "Ab" {
			continue
		}
		if p >= b.Points {
			return b.Grade
		}
	}
	return "F"
}

// MarksRange renders the legend's marks column.
func (b Band) MarksRange() string {
	switch {
	case b.MinMarks < 0:
		return "-"
	case b.MinMarks == 0:
		return "< 40"
	default:
		return fmt.Sprintf("%d - %d", b.MinMarks, b.MaxMarks)
	}
}
