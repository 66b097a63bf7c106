package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"shopdash/internal/errors"
	"shopdash/internal/models"
	"shopdash/internal/services"
)

var kpiCardsTemplate = template.Must(template.New("kpiCards").Parse(`
<div id="kpi-cards" class="kpi-grid">
<div class="kpi-card"><div class="kpi-label">💰 Total Revenue</div><div class="kpi-value">{{.TotalRevenue}}</div></div>
<div class="kpi-card"><div class="kpi-label">📦 Total Orders</div><div class="kpi-value">{{.TotalOrders}}</div></div>
<div class="kpi-card"><div class="kpi-label">🏷️ Avg Order Value</div><div class="kpi-value">{{.AvgOrderValue}}</div></div>
<div class="kpi-card"><div class="kpi-label">🔁 Repeat Rate</div><div class="kpi-value">{{.RepeatRate}}</div></div>
</div>`))

const (
	noDataAlert    = `<div id="dashboard-alert" class="alert">No data available for the selected filters.</div>`
	badFilterAlert = `<div id="dashboard-alert" class="alert">Invalid filter selection.</div>`
	clearedAlert   = `<div id="dashboard-alert" hidden></div>`
)

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard is one interaction's recomputation pass: filter,
// aggregate, patch the KPI cards and all four chart signals. Empty
// selections patch a notice and skip the charts entirely.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	f, err := filterFromQuery(r, h.analytics.Defaults())
	if err != nil {
		h.logger.Warn("invalid dashboard filter", "error", err)
		sse.PatchElements(badFilterAlert)
		return
	}

	summary, err := h.analytics.Summarize(f)
	if err != nil {
		if errors.IsEmptySelection(err) {
			sse.PatchElements(noDataAlert)
		} else {
			h.logger.Warn("dashboard summarize failed", "error", err)
			sse.PatchElements(badFilterAlert)
		}
		flush(w)
		return
	}

	sse.PatchElements(clearedAlert)

	html, err := renderKPICards(summary.KPIs)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"dailyData":    summary.DailyRevenue,
		"categoryData": summary.CategoryRevenue,
		"productsData": summary.TopProducts,
		"hourlyData":   summary.HourlyOrders,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	flush(w)
}

type kpiCardValues struct {
	TotalRevenue  string
	TotalOrders   string
	AvgOrderValue string
	RepeatRate    string
}

// Scalars are formatted as currency/percentage here at the boundary, not
// inside the aggregation engine.
func renderKPICards(k models.KPIs) (string, error) {
	var buf strings.Builder
	err := kpiCardsTemplate.Execute(&buf, kpiCardValues{
		TotalRevenue:  formatCurrency(k.TotalRevenue),
		TotalOrders:   strconv.Itoa(k.TotalOrders),
		AvgOrderValue: formatCurrency(k.AvgOrderValue),
		RepeatRate:    strconv.FormatFloat(k.RepeatRate, 'f', 1, 64) + "%",
	})
	return buf.String(), err
}

func formatCurrency(v float64) string {
	return "₹" + groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if frac != "" {
		out += "." + frac
	}
	return out
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
