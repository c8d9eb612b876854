// Package rest holds the JSON shapes of the public HTTP API. Money travels as
// strings with two decimals so clients never round.
package rest

import "time"

type Quote struct {
	ID      int64  `json:"id"`
	Portal  string `json:"portal"  validate:"required"`
	Carrier string `json:"carrier" validate:"required"`
	Price   string `json:"price"`
}

type QuoteSet struct {
	Quotes []Quote `json:"quotes"`
}

type AnalyzeRequest struct {
	Quotes          []Quote `json:"quotes"          validate:"required,dive"`
	SelectedQuoteID *int64  `json:"selectedQuoteId"`
}

type Decision struct {
	Selected Quote  `json:"selected"`
	Best     Quote  `json:"best"`
	Worst    Quote  `json:"worst"`
	Savings  string `json:"savings"`
}

// PortalChangeRequest moves one quote of the set to another portal.
type PortalChangeRequest struct {
	Quotes  []Quote `json:"quotes"  validate:"required,dive"`
	QuoteID int64   `json:"quoteId" validate:"required"`
	Portal  string  `json:"portal"  validate:"required"`
}

type Catalog struct {
	Portals           []string            `json:"portals"`
	Carriers          []string            `json:"carriers"`
	PermittedCarriers map[string][]string `json:"permittedCarriers"`
}

type PortalSuggestion struct {
	Country string `json:"country"`
	Portal  string `json:"portal"`
}

type ShipmentDraft struct {
	OrderID            string  `json:"orderId"`
	CustomerName       string  `json:"customerName"`
	DestinationCountry string  `json:"destinationCountry"`
	TrackingCode       string  `json:"trackingCode"`
	CustomerPayment    string  `json:"customerPayment"    validate:"required"`
	Quotes             []Quote `json:"quotes"             validate:"required,min=1,dive"`
	SelectedQuoteID    *int64  `json:"selectedQuoteId"`
}

// ShipmentEdit is a partial update: absent fields are left untouched.
type ShipmentEdit struct {
	OrderID            *string `json:"orderId"`
	CustomerName       *string `json:"customerName"`
	DestinationCountry *string `json:"destinationCountry"`
	TrackingCode       *string `json:"trackingCode"`
	CustomerPayment    *string `json:"customerPayment"`
	Quotes             []Quote `json:"quotes"          validate:"omitempty,dive"`
	SelectedQuoteID    *int64  `json:"selectedQuoteId"`
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

type Shipment struct {
	ID                 string     `json:"id"`
	OrderID            string     `json:"orderId,omitempty"`
	CustomerName       string     `json:"customerName,omitempty"`
	DestinationCountry string     `json:"destinationCountry,omitempty"`
	TrackingCode       string     `json:"trackingCode,omitempty"`
	CustomerPayment    string     `json:"customerPayment"`
	SelectedQuote      Quote      `json:"selectedQuote"`
	AllQuotes          []Quote    `json:"allQuotes"`
	Profit             string     `json:"profit"`
	Savings            string     `json:"savings"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

type CustomerProfit struct {
	Name   string `json:"name"`
	Profit string `json:"profit"`
}

type CarrierShare struct {
	Carrier    string `json:"carrier"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type Stats struct {
	TotalShipments            int              `json:"totalShipments"`
	PendingShipments          int              `json:"pendingShipments"`
	TotalSavings              string           `json:"totalSavings"`
	TotalProfit               string           `json:"totalProfit"`
	MonthSavings              string           `json:"monthSavings"`
	MonthProfit               string           `json:"monthProfit"`
	CustomerProfits           []CustomerProfit `json:"customerProfits"`
	BestCustomer              *CustomerProfit  `json:"bestCustomer"`
	WorstCustomer             *CustomerProfit  `json:"worstCustomer"`
	CarrierCounts             []CarrierShare   `json:"carrierCounts"`
	FavoriteCarrier           *CarrierShare    `json:"favoriteCarrier"`
	FavoriteCarrierPercentage int              `json:"favoriteCarrierPercentage"`
	Recent                    []Shipment       `json:"recent"`
}

type TrackingUpdate struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Mocked    bool      `json:"mocked"`
}

type DashboardShipment struct {
	Shipment

	Tracking *TrackingUpdate `json:"tracking,omitempty"`
}

type Dashboard struct {
	Stats  Stats               `json:"stats"`
	Recent []DashboardShipment `json:"recent"`
}

type Report struct {
	Stats     Stats      `json:"stats"`
	Shipments []Shipment `json:"shipments"`
}

type ConnectionStatus struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Connection is the live probe result together with what the background
// monitor saw last.
type Connection struct {
	Backend   string            `json:"backend,omitempty"`
	Current   ConnectionStatus  `json:"current"`
	Monitored *ConnectionStatus `json:"monitored,omitempty"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code ErrorCode `json:"code"`

	// Message is safe to show to the operator.
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

type ErrorCode string
