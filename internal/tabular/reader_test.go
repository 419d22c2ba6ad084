package tabular

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
		str  string
	}{
		{"blank", "   ", Empty, ""},
		{"integer", "4", Number, "4"},
		{"float", " 8.25 ", Number, "8.25"},
		{"text", "A+", String, "A+"},
		{"text keeps spacing", " 21cs01 ", String, " 21cs01 "},
		{"leading zeros kept", "00123", Number, "00123"},
		{"exponent-looking id", "19E045", Number, "19E045"},
		{"nan is text", "Nan", String, "Nan"},
		{"infinity is text", "Infinity", String, "Infinity"},
		{"overflow is text", "1e400", String, "1e400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(tt.raw)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestValueDisplay(t *testing.T) {
	assert.Equal(t, 8.5, Num(8.5).Display())
	assert.Equal(t, NotAvailable, Num(math.NaN()).Display())
	assert.Equal(t, NotAvailable, Num(math.Inf(1)).Display())
	assert.Equal(t, NotAvailable, Str("absent").Display())
	assert.Equal(t, NotAvailable, Value{}.Display())
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal([]Value{Num(9), Num(math.NaN()), Str("x"), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[9, null, "x", null]`, string(data))

	var back []Value
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 4)
	assert.Equal(t, Number, back[0].Kind())
	assert.Equal(t, Empty, back[1].Kind())
	assert.Equal(t, "x", back[2].String())
	assert.True(t, back[3].IsEmpty())
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffstudentId,name,Math_Credits,Math_Grade\n" +
		"21cs01,Asha,4,A\n" +
		",,,\n" +
		"21cs02,Ravi\n"

	rows, err := Read("CSV", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"studentId", "name", "Math_Credits", "Math_Grade"}, rows[0].Columns())
	credits, ok := rows[0].Get("Math_Credits")
	require.True(t, ok)
	assert.Equal(t, Number, credits.Kind())

	grade, ok := rows[1].Get("Math_Grade")
	require.True(t, ok, "short rows still carry every header column")
	assert.True(t, grade.IsEmpty())
}

func TestReadKeepsIdentifierText(t *testing.T) {
	input := "studentId,name\n00123,Nan\n19E045,Infinity\n"

	rows, err := Read(ExtCSV, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	want := [][2]string{{"00123", "Nan"}, {"19E045", "Infinity"}}
	for i, w := range want {
		id, _ := rows[i].Get("studentId")
		name, _ := rows[i].Get("name")
		assert.Equal(t, w[0], id.String())
		assert.Equal(t, w[1], name.String())
	}

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"studentId", "name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"00123", "Nan"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err = Read(ExtXLSX, buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id, _ := rows[0].Get("studentId")
	assert.Equal(t, "00123", id.String())
}

func TestReadCSVWithoutHeader(t *testing.T) {
	_, err := Read(ExtCSV, strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"studentId", "sgpa", "Physics_Grade"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"21EC07", 8.5, "B+"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Read(ExtXLSX, buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	sgpa, _ := rows[0].Get("sgpa")
	f64, ok := sgpa.Float()
	require.True(t, ok)
	assert.Equal(t, 8.5, f64)
	grade, _ := rows[0].Get("Physics_Grade")
	assert.Equal(t, "B+", grade.String())
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	_, err := Read("pdf", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, Supported("pdf"))
	assert.True(t, Supported("XLSX"))
}

func TestReadXLSGarbage(t *testing.T) {
	_, err := Read(ExtXLS, strings.NewReader("definitely not a workbook"))
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "xlsx", Extension("Sem4 Results.XLSX"))
	assert.Equal(t, "csv", Extension("a.b.csv"))
	assert.Equal(t, "", Extension("noext"))
}

func TestNewRowKeepsFirstDuplicate(t *testing.T) {
	row := NewRow([]string{"a", "a", ""}, []Value{Num(1), Num(2), Num(3)})
	assert.Equal(t, []string{"a"}, row.Columns())
	v, _ := row.Get("a")
	f, _ := v.Float()
	assert.Equal(t, 1.0, f)
}
