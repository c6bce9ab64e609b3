package handlers

import (
	"context"
	_ "embed"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deanrcg/skincheck/internal/usecase"
)

// ErrorLabel is the sentinel risk label returned when the pipeline fails.
const ErrorLabel = "Error"

//go:embed index.html
var indexPage []byte

// AssessmentRunner is the pipeline entry point the handlers depend on.
type AssessmentRunner interface {
	Assess(ctx context.Context, imageBytes []byte) (*usecase.Result, error)
}

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, runner AssessmentRunner, reportsDir string, maxUploadBytes int64) {
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.Static("/reports", reportsDir)

	router.POST("/assess", func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if file.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
			return
		}
		if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported content type"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
			return
		}

		result, err := runner.Assess(c.Request.Context(), data)
		if err != nil {
			// Pipeline failures are part of the form contract, not a
			// transport error: the label carries the sentinel.
			c.JSON(http.StatusOK, gin.H{
				"risk_level":  ErrorLabel,
				"explanation": "An error occurred during analysis: " + err.Error(),
				"report_path": "",
			})
			return
		}

		reportLink := ""
		if result.ReportPath != "" {
			reportLink = "/reports/" + filepath.Base(result.ReportPath)
		}
		c.JSON(http.StatusOK, gin.H{
			"risk_level":  result.RiskLevel,
			"explanation": result.Explanation,
			"report_path": reportLink,
		})
	})
}
