package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"voicepick-service/internal/service"
	"voicepick-service/internal/session"
	"voicepick-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	pickingService *service.PickingService
	metricsService *service.MetricsService
}

// NewHandler creates a new HTTP handler
func NewHandler(pickingService *service.PickingService, metricsService *service.MetricsService) *Handler {
	return &Handler{
		pickingService: pickingService,
		metricsService: metricsService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", h.startSession)
		v1.GET("/sessions/:id", h.getSession)
		v1.POST("/sessions/:id/utterances", h.submitUtterance)
		v1.POST("/sessions/:id/previous", h.previous)
		v1.POST("/sessions/:id/repeat", h.repeat)
		v1.GET("/commands", h.commandHelp)
		v1.GET("/metrics/warehouse/:id", h.warehouseMetrics)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// StartSessionRequest opens an order for a worker
type StartSessionRequest struct {
	WorkerID int64  `json:"worker_id" binding:"required"`
	OrderID  int64  `json:"order_id" binding:"required"`
	Language string `json:"language"`
}

// startSession handles session creation
func (h *Handler) startSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	result, err := h.pickingService.StartSession(c.Request.Context(), req.WorkerID, req.OrderID, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnsupportedLanguage), errors.Is(err, session.ErrEmptyOrder):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Cannot start session",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to start session",
				"details": err.Error(),
			})
		}
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// UtteranceRequest carries one recognized utterance from the device
type UtteranceRequest struct {
	Text       string  `json:"text" binding:"required"`
	Confidence float64 `json:"confidence"`
}

// submitUtterance handles a recognized voice command
func (h *Handler) submitUtterance(c *gin.Context) {
	var req UtteranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	announcements, err := h.pickingService.SubmitUtterance(c.Request.Context(), c.Param("id"), req.Text, req.Confidence)
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

// previous steps the session cursor back one item
func (h *Handler) previous(c *gin.Context) {
	announcements, err := h.pickingService.Previous(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

// repeat re-announces the current item
func (h *Handler) repeat(c *gin.Context) {
	announcements, err := h.pickingService.Repeat(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

// getSession handles session state lookup
func (h *Handler) getSession(c *gin.Context) {
	state, err := h.pickingService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Session not found",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, state)
}

// commandHelp returns the spoken-command reference for a language
func (h *Handler) commandHelp(c *gin.Context) {
	language := c.DefaultQuery("language", "en")
	catalog, err := h.pickingService.HelpCatalog(language)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Unsupported language",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": language, "commands": catalog})
}

// warehouseMetrics serves the aggregation feed for one warehouse
func (h *Handler) warehouseMetrics(c *gin.Context) {
	warehouseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse ID"})
		return
	}

	metrics, err := h.metricsService.GetWarehouseMetrics(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load metrics",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, session.ErrNotLoaded):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Session not found",
			"details": err.Error(),
		})
	case errors.Is(err, session.ErrCommandInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "A command is already being processed",
			"details": err.Error(),
		})
	case errors.Is(err, session.ErrSessionCompleted):
		c.JSON(http.StatusGone, gin.H{
			"error":   "Session already completed",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process command",
			"details": err.Error(),
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
