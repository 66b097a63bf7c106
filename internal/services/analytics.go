// Package services implements the filter-and-aggregate pipeline: a date
// range and category restriction over the order log, followed by the KPI
// scalars and grouped tables the dashboard renders.
package services

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"shopdash/internal/dataset"
	"shopdash/internal/errors"
	"shopdash/internal/models"
)

const topProductLimit = 5

// Filter restricts the order table. Both day bounds are inclusive and
// compared against order_day; a zero time leaves that side unconstrained.
// Categories is a membership set; nil means no category restriction, while
// an empty non-nil set legitimately matches nothing.
type Filter struct {
	Start      time.Time
	End        time.Time
	Categories []string
}

func (f Filter) validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return errors.Validation("start day must not be after end day")
	}
	return nil
}

// Analytics holds the preprocessed order table for a session. The table is
// immutable after SetData; filtering only derives subsets, and every read
// takes a snapshot under the lock.
type Analytics struct {
	mu     sync.RWMutex
	orders []models.Order
	logger *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{logger: logger}
}

// SetData installs the dataset, deriving the computed columns. Derivation
// is idempotent, so already-preprocessed tables are accepted unchanged.
func (a *Analytics) SetData(orders []models.Order) {
	derived := dataset.Derive(orders)

	a.mu.Lock()
	a.orders = derived
	a.mu.Unlock()
}

func (a *Analytics) snapshot() []models.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.orders
}

func (a *Analytics) RecordCount() int {
	return len(a.snapshot())
}

// Defaults reports the dataset's full day span and its distinct categories
// in encounter order, used to seed the dashboard controls. Filtering with
// these values returns the entire table.
func (a *Analytics) Defaults() models.FilterDefaults {
	orders := a.snapshot()
	if len(orders) == 0 {
		return models.FilterDefaults{Categories: []string{}}
	}

	minDay, maxDay := orders[0].OrderDay, orders[0].OrderDay
	seen := make(map[string]bool)
	categories := make([]string, 0, 4)

	for _, o := range orders {
		if o.OrderDay.Before(minDay) {
			minDay = o.OrderDay
		}
		if o.OrderDay.After(maxDay) {
			maxDay = o.OrderDay
		}
		if !seen[o.Category] {
			seen[o.Category] = true
			categories = append(categories, o.Category)
		}
	}

	return models.FilterDefaults{
		MinDay:     minDay.Format(models.DayLayout),
		MaxDay:     maxDay.Format(models.DayLayout),
		Categories: categories,
	}
}

// FilterOrders returns the subset matching the filter. The subset keeps
// the table's row order; an empty subset is a valid result. The dataset is
// never mutated, so filtering an already-filtered subset by the same
// predicate returns the same rows.
func (a *Analytics) FilterOrders(f Filter) ([]models.Order, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	var allowed map[string]bool
	if f.Categories != nil {
		allowed = make(map[string]bool, len(f.Categories))
		for _, c := range f.Categories {
			allowed[c] = true
		}
	}

	orders := a.snapshot()
	subset := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !f.Start.IsZero() && o.OrderDay.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && o.OrderDay.After(f.End) {
			continue
		}
		if allowed != nil && !allowed[o.Category] {
			continue
		}
		subset = append(subset, o)
	}
	return subset, nil
}

// Summarize runs one full recomputation pass: filter, short-circuit empty
// selections, aggregate. The aggregation engine is never entered with an
// empty subset.
func (a *Analytics) Summarize(f Filter) (*models.Summary, error) {
	subset, err := a.FilterOrders(f)
	if err != nil {
		return nil, err
	}
	if len(subset) == 0 {
		return nil, errors.EmptySelection("no data available for the selected filters")
	}
	return Aggregate(subset), nil
}

// Aggregate reduces a filtered subset to the dashboard summary. All
// reductions are read-only. The subset must be non-empty; callers
// short-circuit empty selections before getting here.
func Aggregate(subset []models.Order) *models.Summary {
	var totalRevenue float64
	orderIDs := make(map[int]struct{}, len(subset))
	repeating := 0
	var hourCounts [24]int

	dailyIndex := make(map[string]int)
	daily := make([]models.DailyRevenue, 0)
	categoryIndex := make(map[string]int)
	categories := make([]models.CategoryRevenue, 0)
	productIndex := make(map[string]int)
	products := make([]models.ProductRevenue, 0)

	for _, o := range subset {
		totalRevenue += o.Revenue
		orderIDs[o.OrderID] = struct{}{}
		if o.IsRepeatingCustomer {
			repeating++
		}
		hourCounts[o.OrderHour]++

		day := o.OrderDay.Format(models.DayLayout)
		if i, ok := dailyIndex[day]; ok {
			daily[i].Revenue += o.Revenue
		} else {
			dailyIndex[day] = len(daily)
			daily = append(daily, models.DailyRevenue{Day: day, Revenue: o.Revenue})
		}

		if i, ok := categoryIndex[o.Category]; ok {
			categories[i].Revenue += o.Revenue
		} else {
			categoryIndex[o.Category] = len(categories)
			categories = append(categories, models.CategoryRevenue{Category: o.Category, Revenue: o.Revenue})
		}

		if i, ok := productIndex[o.ProductName]; ok {
			products[i].Revenue += o.Revenue
		} else {
			productIndex[o.ProductName] = len(products)
			products = append(products, models.ProductRevenue{ProductName: o.ProductName, Revenue: o.Revenue})
		}
	}

	// The day layout sorts lexicographically in chronological order.
	slices.SortFunc(daily, func(a, b models.DailyRevenue) int {
		return strings.Compare(a.Day, b.Day)
	})

	slices.SortFunc(categories, func(a, b models.CategoryRevenue) int {
		return strings.Compare(a.Category, b.Category)
	})

	// Stable sort keeps encounter order for revenue ties.
	slices.SortStableFunc(products, func(a, b models.ProductRevenue) int {
		if a.Revenue > b.Revenue {
			return -1
		}
		if a.Revenue < b.Revenue {
			return 1
		}
		return 0
	})
	if len(products) > topProductLimit {
		products = products[:topProductLimit]
	}

	hourly := make([]models.HourlyOrders, 24)
	for h := range hourly {
		hourly[h] = models.HourlyOrders{Hour: h, Orders: hourCounts[h]}
	}

	rowCount := len(subset)
	return &models.Summary{
		KPIs: models.KPIs{
			TotalRevenue:  totalRevenue,
			TotalOrders:   len(orderIDs),
			AvgOrderValue: totalRevenue / float64(rowCount),
			RepeatRate:    float64(repeating) / float64(rowCount) * 100,
			RowCount:      rowCount,
		},
		DailyRevenue:    daily,
		CategoryRevenue: categories,
		TopProducts:     products,
		HourlyOrders:    hourly,
	}
}

// Stats exposes dataset shape for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	defaults := a.Defaults()

	return map[string]any{
		"record_count": a.RecordCount(),
		"min_day":      defaults.MinDay,
		"max_day":      defaults.MaxDay,
		"categories":   len(defaults.Categories),
	}
}
