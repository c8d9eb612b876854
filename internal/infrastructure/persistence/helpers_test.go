package persistence_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
)

//nolint:gochecknoglobals
var (
	baseTime = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	errDisk  = errors.New("disk full")
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleShipment() entity.Shipment {
	return entity.Shipment{
		OrderID:            "ORD-1",
		CustomerName:       "Ana",
		DestinationCountry: "Portugal",
		CustomerPayment:    dec("150"),
		SelectedQuote:      entity.Quote{ID: 2, Portal: value.PortalMyParcel, Carrier: value.CarrierUPS, Price: "95.50"},
		AllQuotes: []entity.Quote{
			{ID: 1, Portal: value.PortalMBE, Carrier: value.CarrierTNT, Price: "120.00"},
			{ID: 2, Portal: value.PortalMyParcel, Carrier: value.CarrierUPS, Price: "95.50"},
			{ID: 3, Portal: value.PortalMyDHL, Carrier: value.CarrierDHL, Price: "110.00"},
		},
		Profit:  dec("54.5"),
		Savings: dec("24.5"),
	}
}

// requireSameShipment compares money by value and timestamps by instant;
// everything else must match exactly.
func requireSameShipment(rq *require.Assertions, want, got entity.Shipment) {
	rq.True(want.CustomerPayment.Equal(got.CustomerPayment), "customerPayment %s != %s", want.CustomerPayment, got.CustomerPayment)
	rq.True(want.Profit.Equal(got.Profit), "profit %s != %s", want.Profit, got.Profit)
	rq.True(want.Savings.Equal(got.Savings), "savings %s != %s", want.Savings, got.Savings)
	rq.True(want.CreatedAt.Equal(got.CreatedAt), "createdAt %s != %s", want.CreatedAt, got.CreatedAt)

	if want.UpdatedAt == nil {
		rq.Nil(got.UpdatedAt)
	} else {
		rq.NotNil(got.UpdatedAt)
		rq.True(want.UpdatedAt.Equal(*got.UpdatedAt), "updatedAt %s != %s", *want.UpdatedAt, *got.UpdatedAt)
	}

	strip := func(s entity.Shipment) entity.Shipment {
		s.CustomerPayment, s.Profit, s.Savings = decimal.Zero, decimal.Zero, decimal.Zero
		s.CreatedAt, s.UpdatedAt = time.Time{}, nil
		return s
	}
	rq.Equal(strip(want), strip(got))
}

type memKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	loadErr  error
	storeErr error
	stores   int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *memKV) Store(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storeErr != nil {
		return m.storeErr
	}
	m.stores++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// clock hands out increasing timestamps one minute apart.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: baseTime}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Minute)
	return c.now
}
