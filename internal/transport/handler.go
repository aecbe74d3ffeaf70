package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-beer-ebc/internal/analyzer"
	"go-beer-ebc/internal/config"
	apperrors "go-beer-ebc/internal/errors"
	"go-beer-ebc/internal/logger"
	"go-beer-ebc/internal/service"
	"go-beer-ebc/internal/version"
	"go-beer-ebc/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewHandler builds the gin router serving the analysis API
func NewHandler(svc service.BeerAnalysisService, cfg *config.Config) http.Handler {
	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/bands", listBands(svc))
	r.GET("/bands/:name", getBand(svc))
	r.GET("/classify", classify(svc))
	r.GET("/metrics", metrics(svc))

	r.POST("/analyze", analyzeURL(svc, cfg))
	r.POST("/analyze/upload", analyzeUpload(svc, cfg))
	r.POST("/analyze/blob", analyzeBlob(svc, cfg))
	r.POST("/analyze/batch", analyzeBatch(svc, cfg))

	return r
}

func analyzeURL(svc service.BeerAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		options, err := analysisOptions(c, req.Detailed, req.Strict)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := svc.AnalyzeURL(ctx, req.URL, options)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func analyzeUpload(svc service.BeerAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		options, err := analysisOptions(c, false, false)
		if err != nil {
			respondError(c, err)
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				respondError(c, &apperrors.AppError{
					Type:       apperrors.ErrorTypeValidation,
					Message:    "upload exceeds the request size limit",
					StatusCode: http.StatusRequestEntityTooLarge,
					Cause:      err,
				})
				return
			}
			respondError(c, apperrors.NewValidationError("multipart field \"image\" is required", err))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, apperrors.NewInternalError("failed to read upload", err))
			return
		}
		defer file.Close()

		resp, err := svc.AnalyzeUpload(ctx, fileHeader.Filename, file, options)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func analyzeBlob(svc service.BeerAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BlobAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		options, err := analysisOptions(c, req.Detailed, req.Strict)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := svc.AnalyzeBlob(ctx, req.BlobURL, options)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func analyzeBatch(svc service.BeerAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		options := analyzer.DefaultOptions()
		options.Detailed = req.Detailed
		options.MaxWorkers = cfg.AnalysisWorkers
		options.UseWorkerPool = cfg.AnalysisWorkers != 1

		resp, err := svc.AnalyzeBatch(ctx, req.URLs, options)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listBands(svc service.BeerAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"bands": svc.Bands()})
	}
}

func getBand(svc service.BeerAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, err := svc.LookupBand(c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, band)
	}
}

func classify(svc service.BeerAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("ebc")
		ebc, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, apperrors.NewValidationError(fmt.Sprintf("ebc must be a number, got %q", raw), err))
			return
		}

		resp, err := svc.Classify(ebc)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func metrics(svc service.BeerAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Metrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version.Version(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// analysisOptions merges body flags with the "detailed" and "strict" query
// parameters; query values take precedence
func analysisOptions(c *gin.Context, detailed, strict bool) (analyzer.AnalysisOptions, error) {
	options := analyzer.DefaultOptions()
	options.Detailed = detailed
	options.Strict = strict

	for name, target := range map[string]*bool{"detailed": &options.Detailed, "strict": &options.Strict} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return options, apperrors.NewValidationError(fmt.Sprintf("query parameter %s must be a boolean", name), err)
		}
		*target = v
	}
	return options, nil
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	message := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
		if appErr.Cause != nil {
			message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
	})
}
