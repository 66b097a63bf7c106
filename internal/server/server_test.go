package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopdash/internal/models"
	"shopdash/internal/services"
)

func newTestServer() *Server {
	orders := []models.Order{
		{OrderID: 1, ProductName: "Laptop", Category: "Electronics", Price: 100, Quantity: 2, OrderDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{OrderID: 2, ProductName: "Shirt", Category: "Fashion", Price: 50, Quantity: 1, OrderDate: time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)},
	}

	analytics := services.NewAnalytics(nil)
	analytics.SetData(orders)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templateHandlers := &TemplateHandlers{
		Dashboard: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>dashboard</html>"))
		},
	}
	return NewServer(analytics, logger, templateHandlers)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"dashboard page", http.MethodGet, "/", http.StatusOK},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"admin stats", http.MethodGet, "/admin/stats", http.StatusOK},
		{"filters", http.MethodGet, "/api/filters", http.StatusOK},
		{"summary", http.MethodGet, "/api/summary", http.StatusOK},
		{"daily revenue", http.MethodGet, "/api/daily-revenue", http.StatusOK},
		{"category revenue", http.MethodGet, "/api/category-revenue", http.StatusOK},
		{"top products", http.MethodGet, "/api/top-products", http.StatusOK},
		{"hourly orders", http.MethodGet, "/api/hourly-orders", http.StatusOK},
		{"sse dashboard", http.MethodGet, "/sse/dashboard", http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"post rejected", http.MethodPost, "/api/summary", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.target, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestServer_EmptySelectionStatus(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/summary?categories=", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}
