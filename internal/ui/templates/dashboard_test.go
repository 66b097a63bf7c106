package templates

import (
	"context"
	"html"
	"strings"
	"testing"

	"shopdash/internal/models"
)

func TestDashboard(t *testing.T) {
	defaults := models.FilterDefaults{
		MinDay:     "2024-01-01",
		MaxDay:     "2024-01-21",
		Categories: []string{"Electronics", "Fashion"},
	}

	var buf strings.Builder
	if err := Dashboard(defaults).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := buf.String()

	for _, want := range []string{
		`min="2024-01-01"`,
		`max="2024-01-21"`,
		`data-bind="categories.Electronics"`,
		`data-bind="categories.Fashion"`,
		`id="dashboard-alert"`,
		`id="kpi-cards"`,
		"/sse/dashboard?",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected %q in rendered page", want)
		}
	}

	// Initial signals carry the default selection with every category on.
	// The JSON is entity-escaped inside the attribute, so compare the
	// unescaped page.
	unescaped := html.UnescapeString(page)
	if !strings.Contains(unescaped, `"start":"2024-01-01"`) {
		t.Error("expected start signal seeded from defaults")
	}
	if !strings.Contains(unescaped, `"Electronics":true`) {
		t.Error("expected every category checked by default")
	}

	for _, canvas := range []string{"daily-chart", "category-chart", "products-chart", "hourly-chart"} {
		if !strings.Contains(page, canvas) {
			t.Errorf("expected canvas %q", canvas)
		}
	}
}
