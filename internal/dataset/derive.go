package dataset

import (
	"time"

	"shopdash/internal/models"
)

// Derive appends the computed columns to a raw order table: revenue
// (price x quantity), order_day (date component) and order_hour (0-23).
// Pure and idempotent; the input slice is not mutated. Runs once per
// loaded dataset, before any filtering.
func Derive(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		o.Revenue = o.Price * float64(o.Quantity)
		o.OrderDay = dayOf(o.OrderDate)
		o.OrderHour = o.OrderDate.UTC().Hour()
		out[i] = o
	}
	return out
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
