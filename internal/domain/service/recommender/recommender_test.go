package recommender_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/service/recommender"
	"bikeship/internal/domain/value"
)

type listerStub struct {
	shipments []entity.Shipment
	err       error
	calls     int
}

func (l *listerStub) List(context.Context) ([]entity.Shipment, error) {
	l.calls++
	return l.shipments, l.err
}

func shippedTo(country string, portal value.Portal) entity.Shipment {
	return entity.Shipment{
		ID:                 value.NewShipmentID(),
		DestinationCountry: country,
		SelectedQuote:      entity.Quote{ID: 1, Portal: portal, Carrier: portal.AllowedCarriers()[0], Price: "10"},
	}
}

func TestMostUsedPortal(t *testing.T) {
	rq := require.New(t)

	history := []entity.Shipment{
		shippedTo("Italy", value.PortalBRT),
		shippedTo("germany", value.PortalMyDHL),
		shippedTo("Germany", value.PortalMBE),
		shippedTo(" GERMANY ", value.PortalMyDHL),
		shippedTo("France", value.PortalMyParcel),
		shippedTo("France", value.PortalMBE),
		shippedTo("", value.PortalMBE),
	}

	testCases := []struct {
		name       string
		country    string
		wantPortal value.Portal
		wantOK     bool
	}{
		{name: "Case-insensitive match", country: "GERMANY", wantPortal: value.PortalMyDHL, wantOK: true},
		{name: "Single shipment", country: "italy", wantPortal: value.PortalBRT, wantOK: true},
		{name: "Tie goes to first seen", country: "France", wantPortal: value.PortalMyParcel, wantOK: true},
		{name: "No history", country: "Spain", wantOK: false},
		{name: "Blank country", country: "  ", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			portal, ok := recommender.MostUsedPortal(history, tc.country)
			rq.Equal(tc.wantOK, ok)
			rq.Equal(tc.wantPortal, portal)
		})
	}
}

func TestSuggestCachesPerCountry(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	lister := &listerStub{shipments: []entity.Shipment{shippedTo("Spain", value.PortalMBE)}}
	r := recommender.NewRecommender(lister)

	portal, ok, err := r.Suggest(ctx, "spain")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(value.PortalMBE, portal)

	_, _, err = r.Suggest(ctx, "SPAIN")
	rq.NoError(err)
	rq.Equal(1, lister.calls)

	lister.shipments = append(lister.shipments,
		shippedTo("Spain", value.PortalBRT),
		shippedTo("Spain", value.PortalBRT),
	)
	r.Invalidate()

	portal, ok, err = r.Suggest(ctx, "Spain")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(value.PortalBRT, portal)
	rq.Equal(2, lister.calls)
}

func TestSuggestWithoutCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	lister := &listerStub{}
	r := recommender.NewRecommender(lister).WithCacheTTL(0)

	for range 3 {
		_, ok, err := r.Suggest(ctx, "Norway")
		rq.NoError(err)
		rq.False(ok)
	}
	rq.Equal(3, lister.calls)

	_, ok, err := r.Suggest(ctx, "")
	rq.NoError(err)
	rq.False(ok)
	rq.Equal(3, lister.calls)
}

func TestSuggestSurfacesListErrors(t *testing.T) {
	rq := require.New(t)

	errBoom := errors.New("boom")
	r := recommender.NewRecommender(&listerStub{err: errBoom}).WithCacheTTL(time.Minute)

	_, ok, err := r.Suggest(context.Background(), "Spain")
	rq.ErrorIs(err, errBoom)
	rq.False(ok)
}
