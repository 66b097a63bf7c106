package models

import "time"

// DayLayout is the wire format for calendar days in filters and summaries.
const DayLayout = "2006-01-02"

// Order is one line item of the order log. OrderID is not unique per row:
// a multi-line order repeats its id, so distinct-order counts must dedupe.
type Order struct {
	OrderID             int       `json:"order_id"`
	UserID              int       `json:"user_id"`
	ProductID           int       `json:"product_id"`
	ProductName         string    `json:"product_name"`
	Category            string    `json:"category"`
	Price               float64   `json:"price"`
	Quantity            int       `json:"quantity"`
	OrderDate           time.Time `json:"order_date"`
	Rating              int       `json:"rating"`
	IsRepeatingCustomer bool      `json:"is_repeating_customer"`

	// Derived once after load, pure functions of the raw fields above.
	Revenue   float64   `json:"revenue"`
	OrderDay  time.Time `json:"order_day"`
	OrderHour int       `json:"order_hour"`
}

// KPIs are the scalar metrics shown on the dashboard cards.
// AvgOrderValue is the mean revenue per row, not per distinct order; on
// datasets with multi-line orders it is therefore not TotalRevenue divided
// by TotalOrders. RowCount is carried so callers can see the difference.
type KPIs struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalOrders   int     `json:"total_orders"`
	AvgOrderValue float64 `json:"avg_order_value"`
	RepeatRate    float64 `json:"repeat_rate"`
	RowCount      int     `json:"row_count"`
}

type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type ProductRevenue struct {
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
}

type HourlyOrders struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

// Summary is one full recomputation pass over a filtered subset: the four
// KPI scalars plus the four chart tables, backend-agnostic.
type Summary struct {
	KPIs            KPIs              `json:"kpis"`
	DailyRevenue    []DailyRevenue    `json:"daily_revenue"`
	CategoryRevenue []CategoryRevenue `json:"category_revenue"`
	TopProducts     []ProductRevenue  `json:"top_products"`
	HourlyOrders    []HourlyOrders    `json:"hourly_orders"`
}

// FilterDefaults seeds the dashboard controls: the dataset's full day span
// and every distinct category in encounter order.
type FilterDefaults struct {
	MinDay     string   `json:"min_day"`
	MaxDay     string   `json:"max_day"`
	Categories []string `json:"categories"`
}
