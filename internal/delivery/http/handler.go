package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scansafe/backend/internal/domain"
	"github.com/scansafe/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver *usecase.Resolver
	analyzer *usecase.Analyzer
	insights *usecase.InsightsAggregator
	meter    *usecase.UsageMeter
	history  domain.HistoryStore
	cache    domain.CacheStore
}

// NewHandler creates a new HTTP handler
func NewHandler(
	resolver *usecase.Resolver,
	analyzer *usecase.Analyzer,
	insights *usecase.InsightsAggregator,
	meter *usecase.UsageMeter,
	history domain.HistoryStore,
	cache domain.CacheStore,
) *Handler {
	return &Handler{
		resolver: resolver,
		analyzer: analyzer,
		insights: insights,
		meter:    meter,
		history:  history,
		cache:    cache,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scansafe-backend",
		"version": "1.0.0",
	})
}

// scanRequest is a scan submission: a barcode and/or a base64 photo pair,
// plus the profiles to evaluate against
type scanRequest struct {
	Barcode    string           `json:"barcode"`
	FrontPhoto string           `json:"frontPhoto"`
	BackPhoto  string           `json:"backPhoto"`
	Profiles   []domain.Profile `json:"profiles"`
	Latitude   *float64         `json:"latitude"`
	Longitude  *float64         `json:"longitude"`
}

// scanResponse carries the resolved product, the per-profile analysis and the
// persisted history entry id
type scanResponse struct {
	Product   domain.ProductRecord   `json:"product"`
	Analysis  *domain.AnalysisReport `json:"analysis"`
	HistoryID string                 `json:"historyId"`
}

// Scan resolves a product, analyzes it against the submitted profiles and
// persists the result as a history entry
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	front, err := decodePhoto(req.FrontPhoto)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frontPhoto is not valid base64"})
		return
	}
	back, err := decodePhoto(req.BackPhoto)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "backPhoto is not valid base64"})
		return
	}

	var product *domain.ProductRecord
	if len(front) > 0 || len(back) > 0 {
		product, err = h.resolver.ResolvePhotos(c.Request.Context(), req.Barcode, front, back)
	} else {
		product, err = h.resolver.Resolve(c.Request.Context(), req.Barcode)
	}
	if err != nil {
		status, msg := statusForError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	report := h.analyzer.Analyze(product, activeProfiles(req.Profiles))

	item := &domain.ScanHistoryItem{
		Product:         *product,
		Results:         report.Results,
		AnyIncompatible: report.AnyIncompatible,
		ScannedAt:       time.Now(),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}
	if err := h.history.Append(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist scan"})
		return
	}

	c.JSON(http.StatusOK, scanResponse{
		Product:   *product,
		Analysis:  report,
		HistoryID: item.ID,
	})
}

// analyzeRequest asks for a pure analysis of an already-resolved product
type analyzeRequest struct {
	Product  domain.ProductRecord `json:"product" binding:"required"`
	Profiles []domain.Profile     `json:"profiles"`
}

// Analyze evaluates a supplied product against the submitted profiles without
// resolving or persisting anything
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	report := h.analyzer.Analyze(&req.Product, activeProfiles(req.Profiles))
	c.JSON(http.StatusOK, report)
}

// ListHistory returns scan history within the requested day window
func (h *Handler) ListHistory(c *gin.Context) {
	days := queryDays(c, 30)
	items, err := h.history.List(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// DeleteHistory removes one history entry by id
func (h *Handler) DeleteHistory(c *gin.Context) {
	id := c.Param("id")
	if err := h.history.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrHistoryItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "history item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete history item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Insights aggregates the scan history of the requested window
func (h *Handler) Insights(c *gin.Context) {
	days := queryDays(c, 30)
	items, err := h.history.List(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, h.insights.Aggregate(items, days))
}

// Usage returns the current tier counters and cost estimates
func (h *Handler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, h.meter.Snapshot())
}

// InvalidateCache removes one cached product. Routed behind the admin
// middleware; role verification happens there.
func (h *Handler) InvalidateCache(c *gin.Context) {
	barcode := c.Param("barcode")
	if err := h.cache.Delete(c.Request.Context(), barcode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate cache entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invalidated": barcode})
}

// activeProfiles filters the submitted profiles to the active ones
func activeProfiles(profiles []domain.Profile) []domain.Profile {
	out := make([]domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// decodePhoto decodes an optional base64 photo field
func decodePhoto(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// queryDays parses the "days" query parameter with a fallback
func queryDays(c *gin.Context, fallback int) int {
	raw := c.Query("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}

// statusForError maps resolution errors to HTTP responses. Both terminal
// failures surface an actionable message.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "a barcode or at least one photo is required"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product is unknown; enter it manually or retry with photos"
	case errors.Is(err, domain.ErrUnresolved):
		return http.StatusBadGateway, "product could not be resolved right now; please retry"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
