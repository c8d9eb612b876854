package entity_test

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
)

func testShipment() entity.Shipment {
	return entity.Shipment{
		ID:                 value.NewShipmentID(),
		OrderID:            "ORD-1",
		CustomerName:       "Ana",
		DestinationCountry: "Portugal",
		CustomerPayment:    decimal.RequireFromString("150"),
		SelectedQuote:      entity.Quote{ID: 2, Portal: value.PortalMBE, Carrier: value.CarrierUPS, Price: "95.50"},
		AllQuotes: []entity.Quote{
			{ID: 1, Portal: value.PortalMBE, Carrier: value.CarrierTNT, Price: "120.00"},
			{ID: 2, Portal: value.PortalMBE, Carrier: value.CarrierUPS, Price: "95.50"},
		},
		Profit:    decimal.RequireFromString("54.50"),
		Savings:   decimal.RequireFromString("24.50"),
		Status:    value.StatusPending,
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestShipmentPatchApplyPreservesUntouchedFields(t *testing.T) {
	rq := require.New(t)

	original := testShipment()
	now := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)

	patched := entity.ShipmentPatch{
		TrackingCode: lo.ToPtr("DEL123"),
		Status:       lo.ToPtr(value.StatusDelivered),
	}.Apply(original, now)

	want := original.Clone()
	want.TrackingCode = "DEL123"
	want.Status = value.StatusDelivered
	want.UpdatedAt = &now

	rq.Equal(want, patched)
	rq.Nil(original.UpdatedAt)
	rq.Empty(original.TrackingCode)
}

func TestShipmentPatchApplyDoesNotAlias(t *testing.T) {
	rq := require.New(t)

	original := testShipment()
	quotes := []entity.Quote{{ID: 9, Portal: value.PortalBRT, Carrier: value.CarrierBRT, Price: "1"}}

	patched := entity.ShipmentPatch{AllQuotes: quotes}.Apply(original, time.Now())
	quotes[0].Price = "999"
	patched.AllQuotes[0].Portal = value.PortalMBE

	rq.Equal("1", patched.AllQuotes[0].Price)
	rq.Len(original.AllQuotes, 2)
	rq.Equal(value.PortalMBE, original.AllQuotes[0].Portal)
	rq.Equal(value.CarrierTNT, original.AllQuotes[0].Carrier)
}

func TestNewShipmentSnapshotsQuotes(t *testing.T) {
	rq := require.New(t)

	set := entity.NewQuoteSet()
	set.Add(value.PortalMBE, value.CarrierTNT, "120.00")
	best := set.Add(value.PortalMyParcel, value.CarrierUPS, "95.50")

	quotes := set.Quotes()
	decision := entity.Decision{
		Selected: best,
		Best:     best,
		Worst:    quotes[0],
		Savings:  decimal.RequireFromString("24.50"),
	}

	s := entity.NewShipment(
		entity.ShipmentForm{OrderID: "ORD-9", CustomerName: "Rui"},
		decimal.RequireFromString("100"),
		decision,
		quotes,
	)

	_, err := set.SetPrice(best.ID, "1.00")
	rq.NoError(err)
	quotes[1].Price = "2.00"

	rq.Equal("95.50", s.SelectedQuote.Price)
	rq.Equal("95.50", s.AllQuotes[1].Price)
	rq.True(decimal.RequireFromString("4.50").Equal(s.Profit))
	rq.True(decimal.RequireFromString("24.50").Equal(s.Savings))
	rq.True(s.ID.IsZero())
}
