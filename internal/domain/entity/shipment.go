package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"bikeship/internal/domain/value"
)

// Shipment is the persisted record of a completed quote decision. Empty
// descriptive strings mean the field is absent. SelectedQuote and AllQuotes
// are snapshots owned by the shipment.
type Shipment struct {
	ID                 value.ShipmentID `json:"id"`
	OrderID            string           `json:"orderId,omitempty"`
	CustomerName       string           `json:"customerName,omitempty"`
	DestinationCountry string           `json:"destinationCountry,omitempty"`
	TrackingCode       string           `json:"trackingCode,omitempty"`
	CustomerPayment    decimal.Decimal  `json:"customerPayment"`
	SelectedQuote      Quote            `json:"selectedQuote"`
	AllQuotes          []Quote          `json:"allQuotes"`
	Profit             decimal.Decimal  `json:"profit"`
	Savings            decimal.Decimal  `json:"savings"`
	Status             value.Status     `json:"status"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          *time.Time       `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy that shares no memory with s.
func (s Shipment) Clone() Shipment {
	s.AllQuotes = slices.Clone(s.AllQuotes)

	if s.UpdatedAt != nil {
		updatedAt := *s.UpdatedAt
		s.UpdatedAt = &updatedAt
	}

	return s
}

// NewShipment snapshots a decision and its quote set into a record ready to
// be created. Id, timestamps and status are left to the persistence gateway.
func NewShipment(form ShipmentForm, payment decimal.Decimal, decision Decision, quotes []Quote) Shipment {
	selected := decision.Selected
	selectedPrice, _ := selected.Amount()

	return Shipment{
		OrderID:            form.OrderID,
		CustomerName:       form.CustomerName,
		DestinationCountry: form.DestinationCountry,
		TrackingCode:       form.TrackingCode,
		CustomerPayment:    payment,
		SelectedQuote:      selected,
		AllQuotes:          slices.Clone(quotes),
		Profit:             payment.Sub(selectedPrice),
		Savings:            decision.Savings,
	}
}

// ShipmentForm holds the descriptive fields typed in alongside the quotes.
type ShipmentForm struct {
	OrderID            string
	CustomerName       string
	DestinationCountry string
	TrackingCode       string
}

// ShipmentDraft is everything needed to save a new shipment.
type ShipmentDraft struct {
	ShipmentForm

	CustomerPayment string
	Quotes          []Quote
	SelectedQuoteID *value.QuoteID
}

// ShipmentEdit carries an edit of an existing shipment. Nil fields are left
// untouched; a nil Quotes keeps the stored quote set.
type ShipmentEdit struct {
	OrderID            *string
	CustomerName       *string
	DestinationCountry *string
	TrackingCode       *string
	CustomerPayment    *string
	Quotes             []Quote
	SelectedQuoteID    *value.QuoteID
}

// ShipmentPatch is a field-level update handed to the persistence gateway.
// Nil means "not supplied"; supplied fields overwrite, the rest are kept.
type ShipmentPatch struct {
	OrderID            *string
	CustomerName       *string
	DestinationCountry *string
	TrackingCode       *string
	CustomerPayment    *decimal.Decimal
	SelectedQuote      *Quote
	AllQuotes          []Quote
	Profit             *decimal.Decimal
	Savings            *decimal.Decimal
	Status             *value.Status
}

// Apply merges p into s and stamps updatedAt. s itself is not modified.
func (p ShipmentPatch) Apply(s Shipment, updatedAt time.Time) Shipment {
	out := s.Clone()

	assign(&out.OrderID, p.OrderID)
	assign(&out.CustomerName, p.CustomerName)
	assign(&out.DestinationCountry, p.DestinationCountry)
	assign(&out.TrackingCode, p.TrackingCode)
	assign(&out.CustomerPayment, p.CustomerPayment)
	assign(&out.SelectedQuote, p.SelectedQuote)
	assign(&out.Profit, p.Profit)
	assign(&out.Savings, p.Savings)
	assign(&out.Status, p.Status)

	if p.AllQuotes != nil {
		out.AllQuotes = slices.Clone(p.AllQuotes)
	}

	out.UpdatedAt = &updatedAt

	return out
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
