package entity

import (
	"github.com/shopspring/decimal"

	"bikeship/internal/domain/value"
)

// UnknownCustomer is the bucket shipments without a customer name fall into.
const UnknownCustomer = "Unknown"

type CustomerProfit struct {
	Name   string          `json:"name"`
	Profit decimal.Decimal `json:"profit"`
}

type CarrierShare struct {
	Carrier    value.Carrier `json:"carrier"`
	Count      int           `json:"count"`
	Percentage int           `json:"percentage"`
}

// Stats is the dashboard/report aggregation over a set of shipments. Nil
// BestCustomer, WorstCustomer and FavoriteCarrier mean "none": the set was
// empty.
type Stats struct {
	TotalShipments   int              `json:"totalShipments"`
	PendingShipments int              `json:"pendingShipments"`
	TotalSavings     decimal.Decimal  `json:"totalSavings"`
	TotalProfit      decimal.Decimal  `json:"totalProfit"`
	MonthSavings     decimal.Decimal  `json:"monthSavings"`
	MonthProfit      decimal.Decimal  `json:"monthProfit"`
	CustomerProfits  []CustomerProfit `json:"customerProfits"`
	BestCustomer     *CustomerProfit  `json:"bestCustomer"`
	WorstCustomer    *CustomerProfit  `json:"worstCustomer"`
	CarrierCounts    []CarrierShare   `json:"carrierCounts"`
	FavoriteCarrier  *CarrierShare    `json:"favoriteCarrier"`
	Recent           []Shipment       `json:"recent"`
}

// FavoriteCarrierPercentage is 0 when there is no favourite carrier.
func (s Stats) FavoriteCarrierPercentage() int {
	if s.FavoriteCarrier == nil {
		return 0
	}

	return s.FavoriteCarrier.Percentage
}

// ReportFilter narrows the shipments a report aggregates over. Zero values
// disable the corresponding filter.
type ReportFilter struct {
	Customer string
	Search   string
	Top      int
	Bottom   int
}

// Report is a filtered aggregation together with the rows it was built from.
type Report struct {
	Filter    ReportFilter `json:"-"`
	Stats     Stats        `json:"stats"`
	Shipments []Shipment   `json:"shipments"`
}

// DashboardShipment is a recent shipment decorated with its latest tracking
// update, when one was looked up.
type DashboardShipment struct {
	Shipment
	Tracking *TrackingUpdate `json:"tracking,omitempty"`
}

type Dashboard struct {
	Stats  Stats               `json:"stats"`
	Recent []DashboardShipment `json:"recent"`
}
