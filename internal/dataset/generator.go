package dataset

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"shopdash/internal/models"
)

// Categories is the closed set of order categories in the synthetic dataset.
var Categories = []string{"Electronics", "Fashion", "Home", "Beauty"}

const (
	baseOrderID    = 1000
	productNameMax = 10
)

// generationEpoch anchors the regularly spaced hourly timestamp sequence.
var generationEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Synthesize produces n raw order rows from fixed distributions: a
// contiguous order_id range, uniform integer ids/prices/quantities/ratings,
// a coin-flip repeat-customer flag, and hourly timestamps starting at the
// epoch. The same seed yields the same rows.
func Synthesize(n int, seed uint64) []models.Order {
	f := gofakeit.New(seed)

	orders := make([]models.Order, n)
	for i := range orders {
		orders[i] = models.Order{
			OrderID:             baseOrderID + i,
			UserID:              f.Number(1, 99),
			ProductID:           f.Number(100, 119),
			ProductName:         fmt.Sprintf("Product %d", f.Number(1, productNameMax)),
			Category:            Categories[f.Number(0, len(Categories)-1)],
			Price:               float64(f.Number(50, 499)),
			Quantity:            f.Number(1, 4),
			OrderDate:           generationEpoch.Add(time.Duration(i) * time.Hour),
			Rating:              f.Number(1, 5),
			IsRepeatingCustomer: f.Bool(),
		}
	}
	return orders
}
