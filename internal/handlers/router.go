package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/school-system/results-portal/internal/config"
	"github.com/school-system/results-portal/internal/gradecard"
	"github.com/school-system/results-portal/internal/middleware"
	"github.com/school-system/results-portal/internal/services"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(cfg *config.Config, log *zap.Logger, authService *services.AuthService, resultService *services.ResultService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.Origins))
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "results-portal"})
	})

	if cfg.Monitoring.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := NewAuthHandler(authService)
	resultHandler := NewResultHandler(resultService)
	studentHandler := NewStudentHandler(resultService, gradecard.Options{
		Institution: cfg.Institution.Name,
		Subtitle:    cfg.Institution.Subtitle,
	})

	admin := r.Group("/admin")
	{
		admin.POST("/login", authHandler.Login)

		protected := admin.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		protected.Use(middleware.RequireAdmin())
		{
			protected.POST("/upload_results", middleware.BodyLimit(cfg.MaxUploadBytes()), resultHandler.Upload)
			protected.GET("/uploaded_files", resultHandler.ListFiles)
			protected.DELETE("/uploaded_files", resultHandler.DeleteFile)
			protected.POST("/reset", resultHandler.Reset)
		}
	}

	student := r.Group("/student/results")
	{
		student.GET("/:studentId", studentHandler.Summary)
		student.GET("/:studentId/:resultKey", studentHandler.Detail)
		student.GET("/:studentId/:resultKey/pdf", studentHandler.GradeCard)
	}

	return r
}
