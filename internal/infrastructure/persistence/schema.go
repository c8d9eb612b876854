package persistence

import (
	"database/sql/driver"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// shipmentRow is a shipment as the remote store keeps it: snake_case columns,
// NULL for absent descriptive fields and JSON columns for the quote
// snapshots. The same shape backs the PostgREST and SQL backends.
type shipmentRow struct {
	ID                 string          `json:"id"                  db:"id"`
	CreatedAt          time.Time       `json:"created_at"          db:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at"          db:"updated_at"`
	OrderID            *string         `json:"order_id"            db:"order_id"`
	CustomerName       *string         `json:"customer_name"       db:"customer_name"`
	DestinationCountry *string         `json:"destination_country" db:"destination_country"`
	CustomerPayment    decimal.Decimal `json:"customer_payment"    db:"customer_payment"`
	Status             string          `json:"status"              db:"status"`
	TrackingCode       *string         `json:"tracking_code"       db:"tracking_code"`
	SelectedQuote      quoteColumn     `json:"selected_quote"      db:"selected_quote"`
	AllQuotes          quotesColumn    `json:"all_quotes"          db:"all_quotes"`
	Profit             decimal.Decimal `json:"profit"              db:"profit"`
	Savings            decimal.Decimal `json:"savings"             db:"savings"`
}

func fromShipment(s entity.Shipment) shipmentRow {
	return shipmentRow{
		ID:                 s.ID.String(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		OrderID:            nullable(s.OrderID),
		CustomerName:       nullable(s.CustomerName),
		DestinationCountry: nullable(s.DestinationCountry),
		CustomerPayment:    s.CustomerPayment,
		Status:             s.Status.String(),
		TrackingCode:       nullable(s.TrackingCode),
		SelectedQuote:      quoteColumn(s.SelectedQuote),
		AllQuotes:          quotesColumn(s.AllQuotes),
		Profit:             s.Profit,
		Savings:            s.Savings,
	}
}

func (r shipmentRow) toDomain() (entity.Shipment, error) {
	id, err := value.ParseShipmentID(r.ID)
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipmentRow.toDomain: %w", err)
	}

	status := value.Status(r.Status)
	if status == "" {
		status = value.StatusPending
	}

	return entity.Shipment{
		ID:                 id,
		OrderID:            deref(r.OrderID),
		CustomerName:       deref(r.CustomerName),
		DestinationCountry: deref(r.DestinationCountry),
		TrackingCode:       deref(r.TrackingCode),
		CustomerPayment:    r.CustomerPayment,
		SelectedQuote:      entity.Quote(r.SelectedQuote),
		AllQuotes:          []entity.Quote(r.AllQuotes),
		Profit:             r.Profit,
		Savings:            r.Savings,
		Status:             status,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}

func rowsToDomain(rows []shipmentRow) ([]entity.Shipment, error) {
	shipments := make([]entity.Shipment, 0, len(rows))
	for _, r := range rows {
		s, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}

// patchColumns returns only the columns p supplies, keyed by remote column
// name. Clearing a descriptive field maps to NULL.
func patchColumns(p entity.ShipmentPatch, updatedAt time.Time) map[string]any {
	cols := map[string]any{"updated_at": updatedAt}

	putString := func(name string, v *string) {
		if v != nil {
			cols[name] = nullable(*v)
		}
	}
	putString("order_id", p.OrderID)
	putString("customer_name", p.CustomerName)
	putString("destination_country", p.DestinationCountry)
	putString("tracking_code", p.TrackingCode)

	if p.CustomerPayment != nil {
		cols["customer_payment"] = *p.CustomerPayment
	}
	if p.SelectedQuote != nil {
		cols["selected_quote"] = quoteColumn(*p.SelectedQuote)
	}
	if p.AllQuotes != nil {
		cols["all_quotes"] = quotesColumn(p.AllQuotes)
	}
	if p.Profit != nil {
		cols["profit"] = *p.Profit
	}
	if p.Savings != nil {
		cols["savings"] = *p.Savings
	}
	if p.Status != nil {
		cols["status"] = p.Status.String()
	}

	return cols
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// quoteColumn stores a quote snapshot as a JSON document.
type quoteColumn entity.Quote

func (q quoteColumn) Value() (driver.Value, error) {
	return json.MarshalToString(entity.Quote(q))
}

func (q *quoteColumn) Scan(src any) error {
	return scanJSON(src, (*entity.Quote)(q))
}

// quotesColumn stores a quote set snapshot as a JSON array. A nil set is
// stored as NULL.
type quotesColumn []entity.Quote

func (q quotesColumn) Value() (driver.Value, error) {
	if q == nil {
		return nil, nil
	}
	return json.MarshalToString([]entity.Quote(q))
}

func (q *quotesColumn) Scan(src any) error {
	if src == nil {
		*q = nil
		return nil
	}
	return scanJSON(src, (*[]entity.Quote)(q))
}

func scanJSON(src any, dst any) error {
	var data []byte

	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		return nil
	default:
		return fmt.Errorf("scanJSON: unsupported source type %T", src)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}
