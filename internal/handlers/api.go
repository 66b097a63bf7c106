package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"shopdash/internal/errors"
	"shopdash/internal/models"
	"shopdash/internal/observability"
	"shopdash/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=60",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// summarize runs the filter/aggregate pass for the request's query params.
func (h *APIHandlers) summarize(r *http.Request) (*models.Summary, error) {
	f, err := filterFromQuery(r, h.analytics.Defaults())
	if err != nil {
		return nil, err
	}
	return h.analytics.Summarize(f)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Defaults(), cacheHeaders)
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarize(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, summary, cacheHeaders)
}

func (h *APIHandlers) HandleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarize(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, summary.DailyRevenue, cacheHeaders)
}

func (h *APIHandlers) HandleCategoryRevenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarize(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, summary.CategoryRevenue, cacheHeaders)
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarize(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, summary.TopProducts, cacheHeaders)
}

func (h *APIHandlers) HandleHourlyOrders(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarize(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, summary.HourlyOrders, cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
