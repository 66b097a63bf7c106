// Package templates renders the dashboard page. The page is a single
// interactive view: sidebar filter controls, four KPI cards and four chart
// regions, all updated through the /sse/dashboard endpoint.
package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"shopdash/internal/models"
)

type pageData struct {
	Signals    string
	MinDay     string
	MaxDay     string
	Categories []string
}

// Dashboard returns the page component seeded with the dataset's default
// filter selection (full day span, every category checked).
func Dashboard(defaults models.FilterDefaults) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		categories := make(map[string]bool, len(defaults.Categories))
		for _, c := range defaults.Categories {
			categories[c] = true
		}

		signals, err := json.Marshal(map[string]any{
			"start":        defaults.MinDay,
			"end":          defaults.MaxDay,
			"categories":   categories,
			"dailyData":    []models.DailyRevenue{},
			"categoryData": []models.CategoryRevenue{},
			"productsData": []models.ProductRevenue{},
			"hourlyData":   []models.HourlyOrders{},
		})
		if err != nil {
			return err
		}

		return pageTemplate.Execute(w, pageData{
			Signals:    string(signals),
			MinDay:     defaults.MinDay,
			MaxDay:     defaults.MaxDay,
			Categories: defaults.Categories,
		})
	})
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>🛒 Pro E-Commerce Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body { margin: 0; font-family: system-ui, sans-serif; background: #f5f6fa; color: #222; }
.layout { display: flex; min-height: 100vh; }
.sidebar { width: 240px; padding: 1.5rem; background: #fff; border-right: 1px solid #e2e2e8; }
.sidebar h2 { font-size: 1rem; margin-top: 0; }
.sidebar label { display: block; margin: .5rem 0 .15rem; font-size: .85rem; }
.sidebar input[type=date] { width: 100%; }
.content { flex: 1; padding: 1.5rem; }
.kpi-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; }
.kpi-card { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.kpi-label { font-size: .8rem; color: #666; }
.kpi-value { font-size: 1.4rem; font-weight: 600; margin-top: .25rem; }
.chart-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; margin-top: 1.5rem; }
.chart-card { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.chart-card h3 { margin: 0 0 .75rem; font-size: .95rem; }
.alert { background: #fff4e5; border: 1px solid #f0c36d; border-radius: 6px; padding: .75rem 1rem; margin-bottom: 1rem; }
</style>
</head>
<body data-signals='{{.Signals}}'
      data-on-load="@get('/sse/dashboard?' + filterQuery($start, $end, $categories))">
<div class="layout">
<aside class="sidebar">
<h2>🔍 Filters</h2>
<label for="start">Start day</label>
<input id="start" type="date" min="{{.MinDay}}" max="{{.MaxDay}}" data-bind-start
       data-on-change="@get('/sse/dashboard?' + filterQuery($start, $end, $categories))">
<label for="end">End day</label>
<input id="end" type="date" min="{{.MinDay}}" max="{{.MaxDay}}" data-bind-end
       data-on-change="@get('/sse/dashboard?' + filterQuery($start, $end, $categories))">
<h2>Category</h2>
{{range .Categories}}<label><input type="checkbox" data-bind="categories.{{.}}"
       data-on-change="@get('/sse/dashboard?' + filterQuery($start, $end, $categories))"> {{.}}</label>
{{end}}</aside>
<main class="content">
<h1>🛒 Pro E-Commerce Dashboard</h1>
<div id="dashboard-alert" hidden></div>
<div id="kpi-cards" class="kpi-grid"></div>
<div class="chart-grid"
     data-effect="renderCharts($dailyData, $categoryData, $productsData, $hourlyData)">
<div class="chart-card"><h3>📈 Revenue Trend</h3><canvas id="daily-chart"></canvas></div>
<div class="chart-card"><h3>🥧 Revenue by Category</h3><canvas id="category-chart"></canvas></div>
<div class="chart-card"><h3>🏆 Top 5 Products</h3><canvas id="products-chart"></canvas></div>
<div class="chart-card"><h3>⏰ Peak Hours</h3><canvas id="hourly-chart"></canvas></div>
</div>
</main>
</div>
<script>
window.filterQuery = function (start, end, categories) {
  const selected = Object.keys(categories).filter((c) => categories[c]);
  const params = new URLSearchParams({ start: start, end: end, categories: selected.join(',') });
  return params.toString();
};

const charts = {};
function upsertChart(id, type, labels, values, label) {
  if (charts[id]) {
    charts[id].data.labels = labels;
    charts[id].data.datasets[0].data = values;
    charts[id].update();
    return;
  }
  charts[id] = new Chart(document.getElementById(id), {
    type: type,
    data: { labels: labels, datasets: [{ label: label, data: values, fill: type === 'line' }] },
    options: { responsive: true, plugins: { legend: { display: type === 'pie' } } },
  });
}

window.renderCharts = function (daily, category, products, hourly) {
  upsertChart('daily-chart', 'line', daily.map((d) => d.day), daily.map((d) => d.revenue), 'Revenue');
  upsertChart('category-chart', 'pie', category.map((c) => c.category), category.map((c) => c.revenue), 'Revenue');
  upsertChart('products-chart', 'bar', products.map((p) => p.product_name), products.map((p) => p.revenue), 'Revenue');
  upsertChart('hourly-chart', 'line', hourly.map((h) => h.hour), hourly.map((h) => h.orders), 'Orders');
};
</script>
</body>
</html>
`))
