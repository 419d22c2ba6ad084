package results

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/tabular"
)

func TestViewsSanitizeValues(t *testing.T) {
	store := models.NewStore()
	rec := models.NewStudentRecord("21CS01")
	block := models.ResultBlock{
		ResultKey: "K",
		Semester:  "IV",
		SGPA:      tabular.Num(math.NaN()),
		CGPA:      tabular.Num(8.25),
		Subjects: []models.SubjectGrade{
			{Name: "Math", Credit: 4, Grade: "", GradePoints: tabular.Str("abs")},
		},
	}
	rec.Results["K"] = block
	store.StudentData["21CS01"] = rec

	v := NewResultView(block)
	assert.Equal(t, "N/A", v.SGPA)
	assert.Equal(t, 8.25, v.CGPA)
	assert.Equal(t, "N/A", v.Subjects[0].Grade)
	assert.Equal(t, "N/A", v.Subjects[0].GradePoints)

	data, err := json.Marshal(NewStoreView(store))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"uploadedFiles": [],
		"studentData": {"21CS01": {
			"metadata": {"studentId": "21CS01", "name": "", "branch": ""},
			"results": {"K": {"resultKey": "K", "semester": "IV", "sgpa": "N/A", "cgpa": 8.25,
				"subjects": [{"name": "Math", "credit": 4, "grade": "N/A", "gradePoints": "N/A"}]}}
		}}
	}`, string(data))

	summary := NewSummaryView(Summary{Metadata: rec.Metadata})
	assert.NotNil(t, summary.AvailableKeys)
}
