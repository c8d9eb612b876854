// Package stats reduces shipment records into dashboard and report metrics.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/lox"
)

// DefaultRecentLimit is the size of the "recent shipments" view.
const DefaultRecentLimit = 5

// Aggregate computes the metrics of shipments in one pass. shipments are
// expected newest first, as the persistence gateway returns them; any subset,
// including an empty one, is valid. now decides the current calendar month.
func Aggregate(shipments []entity.Shipment, now time.Time, recentLimit int) entity.Stats {
	st := entity.Stats{
		TotalShipments:  len(shipments),
		TotalSavings:    decimal.Zero,
		TotalProfit:     decimal.Zero,
		MonthSavings:    decimal.Zero,
		MonthProfit:     decimal.Zero,
		CustomerProfits: []entity.CustomerProfit{},
		CarrierCounts:   []entity.CarrierShare{},
	}

	customers := newProfitTally()
	carriers := lox.NewTally[value.Carrier, int]()

	for _, s := range shipments {
		st.TotalSavings = st.TotalSavings.Add(s.Savings)
		st.TotalProfit = st.TotalProfit.Add(s.Profit)

		if sameMonth(s.CreatedAt, now) {
			st.MonthSavings = st.MonthSavings.Add(s.Savings)
			st.MonthProfit = st.MonthProfit.Add(s.Profit)
		}

		if s.Status.IsOpen() {
			st.PendingShipments++
		}

		customers.Add(CustomerKey(s.CustomerName), s.Profit)
		carriers.Add(s.SelectedQuote.Carrier, 1)
	}

	for _, e := range customers.Entries() {
		st.CustomerProfits = append(st.CustomerProfits, entity.CustomerProfit{Name: e.Key, Profit: e.Total})
	}
	if name, profit, ok := customers.Max(); ok {
		st.BestCustomer = &entity.CustomerProfit{Name: name, Profit: profit}
	}
	if name, profit, ok := customers.Min(); ok {
		st.WorstCustomer = &entity.CustomerProfit{Name: name, Profit: profit}
	}

	for _, e := range carriers.Entries() {
		st.CarrierCounts = append(st.CarrierCounts, share(e.Key, e.Total, len(shipments)))
	}
	if carrier, count, ok := carriers.Max(); ok {
		favorite := share(carrier, count, len(shipments))
		st.FavoriteCarrier = &favorite
	}

	st.Recent = lox.Take(shipments, recentLimit)

	return st
}

// CustomerKey is the bucket a customer name is tallied under.
func CustomerKey(name string) string {
	if name == "" {
		return entity.UnknownCustomer
	}
	return name
}

func newProfitTally() *lox.Tally[string, decimal.Decimal] {
	return lox.NewTallyFunc[string](decimal.Decimal.Add, decimal.Decimal.LessThan)
}

func share(carrier value.Carrier, count, total int) entity.CarrierShare {
	return entity.CarrierShare{
		Carrier:    carrier,
		Count:      count,
		Percentage: percentage(count, total),
	}
}

// percentage rounds half up and is 0 for an empty total.
func percentage(count, total int) int {
	if total <= 0 {
		return 0
	}
	return (count*200 + total) / (2 * total) //nolint:mnd // x*100/total rounded
}

func sameMonth(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}
