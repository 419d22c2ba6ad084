package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/school-system/results-portal/internal/services"
)

// ResultHandler serves the admin side: uploads and file records.
type ResultHandler struct {
	resultService *services.ResultService
}

func NewResultHandler(resultService *services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

type DeleteFileRequest struct {
	ResultKey string `json:"resultKey"`
	Filename  string `json:"filename"`
}

// @Summary Upload result sheets
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param resultKey formData string true "Result key, e.g. 2024_Sem4_Regular"
// @Param files formData file true "CSV, XLS or XLSX files"
// @Success 200 {object} map[string]interface{}
// @Router /admin/upload_results [post]
func (h *ResultHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload exceeds the maximum allowed size"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	var resultKey string
	if v := form.Value["resultKey"]; len(v) > 0 {
		resultKey = v[0]
	}

	headers := append(form.File["files"], form.File["file"]...)
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}

	report, err := h.resultService.Upload(c.Request.Context(), resultKey, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Processed %d file(s) for %s", len(report.Files), report.ResultKey),
		"resultKey":     report.ResultKey,
		"totalUploaded": report.TotalUploaded,
		"details":       report.Messages,
		"files":         report.Files,
	})
}

func uploadFile(fh *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// @Summary List uploaded files
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UploadFileRecord
// @Router /admin/uploaded_files [get]
func (h *ResultHandler) ListFiles(c *gin.Context) {
	files, err := h.resultService.ListUploadedFiles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// DeleteFile accepts resultKey and filename from the query string or a JSON body.
// @Summary Delete an uploaded file and its results
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param resultKey query string false "Result key"
// @Param filename query string false "File name"
// @Success 200 {object} map[string]interface{}
// @Router /admin/uploaded_files [delete]
func (h *ResultHandler) DeleteFile(c *gin.Context) {
	var req DeleteFileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.ResultKey == "" {
		req.ResultKey = c.Query("resultKey")
	}
	if req.Filename == "" {
		req.Filename = c.Query("filename")
	}

	out, err := h.resultService.DeleteFileRecord(c.Request.Context(), strings.TrimSpace(req.ResultKey), strings.TrimSpace(req.Filename))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                "File record and associated results deleted",
		"removedFileRecords":     out.RemovedFileRecords,
		"affectedStudentEntries": out.AffectedStudentEntries,
	})
}

// @Summary Clear all results
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /admin/reset [post]
func (h *ResultHandler) Reset(c *gin.Context) {
	if err := h.resultService.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All results have been cleared"})
}
