package handlers

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/school-system/results-portal/internal/gradecard"
	"github.com/school-system/results-portal/internal/results"
	"github.com/school-system/results-portal/internal/services"
)

type StudentHandler struct {
	resultService *services.ResultService
	cardOptions   gradecard.Options
}

func NewStudentHandler(resultService *services.ResultService, cardOptions gradecard.Options) *StudentHandler {
	return &StudentHandler{resultService: resultService, cardOptions: cardOptions}
}

// @Summary Result keys available for a student
// @Tags student
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} results.SummaryView
// @Failure 404 {object} map[string]string
// @Router /student/results/{studentId} [get]
func (h *StudentHandler) Summary(c *gin.Context) {
	summary, err := h.resultService.Summary(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results.NewSummaryView(summary))
}

// @Summary One result block for a student
// @Tags student
// @Produce json
// @Param studentId path string true "Student ID"
// @Param resultKey path string true "Result key"
// @Success 200 {object} results.DetailView
// @Failure 404 {object} map[string]string
// @Router /student/results/{studentId}/{resultKey} [get]
func (h *StudentHandler) Detail(c *gin.Context) {
	detail, err := h.resultService.Detail(c.Request.Context(), c.Param("studentId"), c.Param("resultKey"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results.NewDetailView(detail))
}

// @Summary Download a grade card
// @Tags student
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Param resultKey path string true "Result key"
// @Success 200 {file} file
// @Router /student/results/{studentId}/{resultKey}/pdf [get]
func (h *StudentHandler) GradeCard(c *gin.Context) {
	detail, err := h.resultService.GradeCardData(c.Request.Context(), c.Param("studentId"), c.Param("resultKey"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := gradecard.Render(&buf, detail.Metadata, detail.Result, h.cardOptions); err != nil {
		respondError(c, fmt.Errorf("render grade card: %w", err))
		return
	}

	filename := fmt.Sprintf("%s_%s_grade_card.pdf", detail.Metadata.StudentID, detail.Result.ResultKey)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
