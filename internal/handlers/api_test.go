package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopdash/internal/models"
	"shopdash/internal/services"
)

func testAnalytics() *services.Analytics {
	orders := []models.Order{
		{
			OrderID:             1,
			ProductName:         "Laptop",
			Category:            "Electronics",
			Price:               100,
			Quantity:            2,
			OrderDate:           time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			IsRepeatingCustomer: true,
		},
		{
			OrderID:     2,
			ProductName: "Shirt",
			Category:    "Fashion",
			Price:       50,
			Quantity:    1,
			OrderDate:   time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC),
		},
		{
			OrderID:     3,
			ProductName: "Phone",
			Category:    "Electronics",
			Price:       200,
			Quantity:    1,
			OrderDate:   time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC),
		},
	}

	a := services.NewAnalytics(nil)
	a.SetData(orders)
	return a
}

func testAPIHandlers() *APIHandlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPIHandlers(testAnalytics(), logger)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response body: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

func TestHandleSummary(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", got)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var summary models.Summary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.KPIs.TotalRevenue != 450 {
		t.Errorf("total revenue = %v, want 450", summary.KPIs.TotalRevenue)
	}
	if summary.KPIs.TotalOrders != 3 {
		t.Errorf("total orders = %d, want 3", summary.KPIs.TotalOrders)
	}
	if len(summary.HourlyOrders) != 24 {
		t.Errorf("hourly buckets = %d, want 24", len(summary.HourlyOrders))
	}
}

func TestHandleSummary_CategoryFilter(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/summary?categories=Electronics", nil)
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var summary models.Summary
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &summary); err != nil {
		t.Fatal(err)
	}
	if summary.KPIs.TotalRevenue != 400 {
		t.Errorf("total revenue = %v, want 400", summary.KPIs.TotalRevenue)
	}
	if summary.KPIs.AvgOrderValue != 200 {
		t.Errorf("avg order value = %v, want 200", summary.KPIs.AvgOrderValue)
	}
}

func TestHandleSummary_EmptySelection(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/summary?categories=", nil)
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected error envelope")
	}
	if env.Error == nil || env.Error.Code != "EMPTY_SELECTION" {
		t.Errorf("unexpected error: %+v", env.Error)
	}
}

func TestHandleSummary_BadQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unparseable start", "/api/summary?start=notaday"},
		{"unparseable end", "/api/summary?end=2024-13-99"},
		{"inverted range", "/api/summary?start=2024-01-02&end=2024-01-01"},
	}

	h := testAPIHandlers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			h.HandleSummary(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Success {
				t.Error("expected error envelope")
			}
		})
	}
}

func TestHandleFilters(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	rec := httptest.NewRecorder()
	h.HandleFilters(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var defaults models.FilterDefaults
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &defaults); err != nil {
		t.Fatal(err)
	}
	if defaults.MinDay != "2024-01-01" || defaults.MaxDay != "2024-01-02" {
		t.Errorf("day span = %s..%s", defaults.MinDay, defaults.MaxDay)
	}
	if len(defaults.Categories) != 2 {
		t.Errorf("categories = %v", defaults.Categories)
	}
}

func TestHandleChartEndpoints(t *testing.T) {
	h := testAPIHandlers()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"daily revenue", h.HandleDailyRevenue},
		{"category revenue", h.HandleCategoryRevenue},
		{"top products", h.HandleTopProducts},
		{"hourly orders", h.HandleHourlyOrders},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/chart", nil)
			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if env := decodeEnvelope(t, rec); !env.Success {
				t.Error("expected success envelope")
			}
		})
	}
}

func TestHandleHourlyOrders_Payload(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/hourly-orders", nil)
	rec := httptest.NewRecorder()
	h.HandleHourlyOrders(rec, req)

	var hourly []models.HourlyOrders
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &hourly); err != nil {
		t.Fatal(err)
	}
	if len(hourly) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(hourly))
	}

	total := 0
	for _, b := range hourly {
		total += b.Orders
	}
	if total != 3 {
		t.Errorf("hourly counts sum to %d, want 3", total)
	}
}

func TestHandleHealth(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestHandleStats(t *testing.T) {
	h := testAPIHandlers()

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	var stats map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats["record_count"] != float64(3) {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
}
