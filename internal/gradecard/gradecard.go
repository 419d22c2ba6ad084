// Package gradecard lays out a finished result block as a printable PDF.
// It makes no decisions about the data; what is stored is what is printed.
package gradecard

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/school-system/results-portal/internal/grading"
	"github.com/school-system/results-portal/internal/models"
	"github.com/school-system/results-portal/internal/tabular"
)

// MinSubjectRows keeps the subject table the same height on every card.
const MinSubjectRows = 10

// compress is switched off by tests to inspect page content.
var compress = true

type Options struct {
	Institution string
	Subtitle    string
}

var subjectColumns = []struct {
	title string
	width float64
	align string
}{
	{"S.No", 14, "C"},
	{"Subject", 96, "L"},
	{"Credits", 24, "C"},
	{"Grade", 24, "C"},
	{"Grade Points", 32, "C"},
}

// Render writes the grade card for one student and one result block.
func Render(w io.Writer, meta models.Metadata, block models.ResultBlock, opts Options) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(fmt.Sprintf("Grade Card %s %s", meta.StudentID, block.ResultKey), true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	// core fonts are cp1252; names such as "Zoë" must be re-encoded
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header(pdf, tr, opts)
	studentBlock(pdf, tr, meta, block)
	subjectTable(pdf, tr, block.Subjects)
	summary(pdf, block)
	legend(pdf)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to lay out grade card: %w", err)
	}
	return pdf.Output(w)
}

func header(pdf *fpdf.Fpdf, tr func(string) string, opts Options) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(opts.Institution), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(opts.Subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func studentBlock(pdf *fpdf.Fpdf, tr func(string) string, meta models.Metadata, block models.ResultBlock) {
	rows := [][2]string{
		{"Student ID", meta.StudentID},
		{"Name", orNA(meta.Name)},
		{"Branch", orNA(meta.Branch)},
		{"Semester", orNA(block.Semester)},
		{"Result", block.ResultKey},
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(36, 7, r[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, tr(r[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func subjectTable(pdf *fpdf.Fpdf, tr func(string) string, subjects []models.SubjectGrade) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range subjectColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	rows := len(subjects)
	if rows < MinSubjectRows {
		rows = MinSubjectRows
	}
	for i := 0; i < rows; i++ {
		cells := []string{"", "", "", "", ""}
		if i < len(subjects) {
			s := subjects[i]
			cells = []string{strconv.Itoa(i + 1), tr(s.Name), strconv.Itoa(s.Credit), tr(s.Grade), display(s.GradePoints)}
		}
		for j, col := range subjectColumns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func summary(pdf *fpdf.Fpdf, block models.ResultBlock) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 8, "SGPA: "+withGrade(block.SGPA), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, "CGPA: "+withGrade(block.CGPA), "1", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func legend(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, "Grading Scale", "", 1, "L", false, 0, "")
	widths := []float64{30, 30, 40, 60}
	for i, title := range []string{"Grade", "Points", "Marks (%)", "Remark"} {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range grading.Scale() {
		cells := []string{b.Grade, strconv.Itoa(b.Points), b.MarksRange(), b.Remark}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func display(v tabular.Value) string {
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return models.NotAvailable
}

func withGrade(v tabular.Value) string {
	f, ok := v.Float()
	if !ok {
		return models.NotAvailable
	}
	return fmt.Sprintf("%.2f (%s)", f, grading.GradeForPoints(f))
}

func orNA(s string) string {
	if s == "" {
		return models.NotAvailable
	}
	return s
}
