package stats

import (
	"slices"
	"strings"

	"bikeship/internal/domain/entity"
)

// ApplyFilter narrows shipments by f. Filters compose in this order:
// customer, search, top cohort, bottom cohort. The input is not modified.
func ApplyFilter(shipments []entity.Shipment, f entity.ReportFilter) []entity.Shipment {
	out := slices.Clone(shipments)

	if f.Customer != "" {
		out = ByCustomer(out, f.Customer)
	}
	if f.Search != "" {
		out = Search(out, f.Search)
	}
	if f.Top > 0 {
		out = TopCustomers(out, f.Top)
	}
	if f.Bottom > 0 {
		out = BottomCustomers(out, f.Bottom)
	}

	return out
}

// ByCustomer keeps the shipments of one customer. "Unknown" selects the
// shipments without a customer name.
func ByCustomer(shipments []entity.Shipment, customer string) []entity.Shipment {
	customer = strings.TrimSpace(customer)
	return keep(shipments, func(s entity.Shipment) bool {
		return CustomerKey(s.CustomerName) == customer
	})
}

// Search keeps shipments whose order id, customer name or tracking code
// contains query, ignoring case.
func Search(shipments []entity.Shipment, query string) []entity.Shipment {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return shipments
	}

	return keep(shipments, func(s entity.Shipment) bool {
		return strings.Contains(strings.ToLower(s.OrderID), query) ||
			strings.Contains(strings.ToLower(s.CustomerName), query) ||
			strings.Contains(strings.ToLower(s.TrackingCode), query)
	})
}

// TopCustomers keeps the shipments of the k customers with the highest total
// profit.
func TopCustomers(shipments []entity.Shipment, k int) []entity.Shipment {
	return cohort(shipments, k, func(a, b entity.CustomerProfit) int {
		return b.Profit.Cmp(a.Profit)
	})
}

// BottomCustomers keeps the shipments of the k customers with the lowest
// total profit.
func BottomCustomers(shipments []entity.Shipment, k int) []entity.Shipment {
	return cohort(shipments, k, func(a, b entity.CustomerProfit) int {
		return a.Profit.Cmp(b.Profit)
	})
}

func cohort(shipments []entity.Shipment, k int, cmp func(a, b entity.CustomerProfit) int) []entity.Shipment {
	tally := newProfitTally()
	for _, s := range shipments {
		tally.Add(CustomerKey(s.CustomerName), s.Profit)
	}

	ranked := make([]entity.CustomerProfit, 0, tally.Len())
	for _, e := range tally.Entries() {
		ranked = append(ranked, entity.CustomerProfit{Name: e.Key, Profit: e.Total})
	}
	slices.SortStableFunc(ranked, cmp)

	members := make(map[string]struct{}, k)
	for _, c := range ranked[:min(k, len(ranked))] {
		members[c.Name] = struct{}{}
	}

	return keep(shipments, func(s entity.Shipment) bool {
		_, ok := members[CustomerKey(s.CustomerName)]
		return ok
	})
}

func keep(shipments []entity.Shipment, pred func(entity.Shipment) bool) []entity.Shipment {
	out := make([]entity.Shipment, 0, len(shipments))
	for _, s := range shipments {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}
