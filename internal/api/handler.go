package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	commonerrors "web-assistant/internal/common/errors"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/interactions"
	"web-assistant/internal/orchestrator"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type Answerer interface {
	Available() bool
	Model() string
	Answer(ctx context.Context, question string) (*orchestrator.Result, error)
}

type Recorder interface {
	Submit(r interactions.Record) bool
	HasHistory() bool
	Recent(ctx context.Context, limit int) ([]interactions.Record, error)
}

// ReadinessChecker pings the configured stores; an empty map means ready.
type ReadinessChecker interface {
	Ping(ctx context.Context) map[string]error
}

type Handler struct {
	answerer Answerer
	recorder Recorder
	ready    ReadinessChecker
	version  string
	logger   logger.Logger
}

func NewHandler(answerer Answerer, recorder Recorder, ready ReadinessChecker, version string, log logger.Logger) *Handler {
	return &Handler{
		answerer: answerer,
		recorder: recorder,
		ready:    ready,
		version:  version,
		logger:   log.With(map[string]interface{}{"component": "api"}),
	}
}

type askRequest struct {
	Question *string `json:"question"`
}

// Ask handles POST /ask.
func (h *Handler) Ask(c *gin.Context) {
	if !h.answerer.Available() {
		abortWithError(c, commonerrors.NewAIUnavailableError())
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, commonerrors.NewInvalidRequestError("Invalid request. Body must be a JSON object."))
		return
	}
	if req.Question == nil {
		abortWithError(c, commonerrors.NewInvalidRequestError("Invalid request. 'question' field is missing."))
		return
	}
	question := strings.TrimSpace(*req.Question)
	if question == "" {
		abortWithError(c, commonerrors.NewInvalidRequestError("Question cannot be empty."))
		return
	}

	start := time.Now()
	result, err := h.answerer.Answer(c.Request.Context(), question)
	if err != nil {
		if errors.Is(err, orchestrator.ErrAIUnavailable) {
			abortWithError(c, commonerrors.NewAIUnavailableError())
			return
		}
		h.logger.Error("answer failed", map[string]interface{}{
			"error":     err,
			"requestID": c.GetString(requestIDKey),
		})
		abortWithError(c, commonerrors.NewInternalError(err))
		return
	}

	if h.recorder != nil {
		h.recorder.Submit(interactions.NewRecord(
			c.ClientIP(), question, result.Response, h.answerer.Model(), time.Since(start), result.Details,
		))
	}

	c.JSON(http.StatusOK, result.Public())
}

// History handles GET /history?limit=N.
func (h *Handler) History(c *gin.Context) {
	if h.recorder == nil || !h.recorder.HasHistory() {
		abortWithError(c, commonerrors.NewHistoryUnavailableError())
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, commonerrors.NewInvalidRequestError("Invalid request. 'limit' must be a positive integer."))
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.recorder.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("history read failed", map[string]interface{}{"error": err})
		abortWithError(c, commonerrors.NewInternalError(err))
		return
	}
	if records == nil {
		records = []interactions.Record{}
	}

	c.JSON(http.StatusOK, gin.H{"data": records, "count": len(records)})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "up",
		"time":         time.Now().UTC(),
		"version":      h.version,
		"ai_available": h.answerer.Available(),
	})
}

func (h *Handler) Ready(c *gin.Context) {
	failures := map[string]error{}
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		failures = h.ready.Ping(ctx)
	}

	if len(failures) > 0 {
		details := make(map[string]string, len(failures))
		for name, err := range failures {
			details[name] = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "failures": details})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
