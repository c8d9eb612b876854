package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/service/recommender"
	"bikeship/internal/domain/service/shipment"
	"bikeship/internal/domain/service/stats"
	"bikeship/internal/domain/value"
	"bikeship/internal/infrastructure/persistence"
	"bikeship/internal/infrastructure/report"
	"bikeship/internal/server"
	"bikeship/pkg/middlewarex"
	"bikeship/pkg/rest"
	"bikeship/pkg/tests"
)

type trackerStub struct{}

func (trackerStub) Track(_ context.Context, code string) entity.TrackingUpdate {
	return entity.TrackingUpdate{Code: code, Status: value.StatusInTransit, Location: "Hub", Mocked: true}
}

func newAPI(t *testing.T) tests.APIClient {
	t.Helper()

	gateway := persistence.NewGateway(
		persistence.NewLocalBackend(persistence.NewFileKeyValue(t.TempDir()), persistence.DefaultLocalKey),
	)

	rec := recommender.NewRecommender(gateway)
	shipments := shipment.NewService(gateway).WithCacheInvalidation(rec)
	st := stats.NewService(gateway, trackerStub{})

	srv := server.NewServer(
		server.NewQuoteServer(rec),
		server.NewShipmentServer(shipments),
		server.NewStatsServer(st, report.NewGenerator()),
		server.NewConnectionServer(gateway, nil),
	)

	r := chi.NewRouter()
	r.Use(middlewarex.TraceID)
	srv.RegisterRoutes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return tests.NewAPIClient(ts.URL, ts.Client())
}

func sampleQuotes() []rest.Quote {
	return []rest.Quote{
		{ID: 1, Portal: "MBE", Carrier: "TNT", Price: "95.50"},
		{ID: 2, Portal: "My Parcel", Carrier: "TNT", Price: "120"},
		{ID: 3, Portal: "My DHL", Carrier: "DHL", Price: ""},
	}
}

func TestCatalogAndDraft(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	var catalog rest.Catalog
	resp, err := api.Get(ctx, "/v1/catalog", nil, &catalog, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]string{"MBE", "My Parcel", "My DHL", "BRT"}, catalog.Portals)
	rq.Equal([]string{"TNT", "Fedex", "DHL", "BRT", "SDA", "UPS"}, catalog.Carriers)
	rq.Equal([]string{"DHL"}, catalog.PermittedCarriers["My DHL"])
	rq.Equal([]string{"BRT"}, catalog.PermittedCarriers["BRT"])
	rq.Len(catalog.PermittedCarriers["MBE"], 6)

	var draft rest.QuoteSet
	resp, err = api.Post(ctx, "/v1/quotes/draft", nil, struct{}{}, &draft, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]rest.Quote{
		{ID: 1, Portal: "MBE", Carrier: "TNT"},
		{ID: 2, Portal: "My Parcel", Carrier: "TNT"},
		{ID: 3, Portal: "My DHL", Carrier: "DHL"},
	}, draft.Quotes)
}

func TestPortalChange(t *testing.T) {
	testCases := []struct {
		name       string
		request    rest.PortalChangeRequest
		wantStatus int
		wantQuote  rest.Quote
		wantCode   rest.ErrorCode
	}{
		{
			name: "carrier reset to the only one permitted",
			request: rest.PortalChangeRequest{
				Quotes:  []rest.Quote{{ID: 1, Portal: "MBE", Carrier: "UPS", Price: "10"}},
				QuoteID: 1,
				Portal:  "BRT",
			},
			wantStatus: http.StatusOK,
			wantQuote:  rest.Quote{ID: 1, Portal: "BRT", Carrier: "BRT", Price: "10"},
		},
		{
			name: "carrier kept when permitted",
			request: rest.PortalChangeRequest{
				Quotes:  []rest.Quote{{ID: 1, Portal: "MBE", Carrier: "UPS"}},
				QuoteID: 1,
				Portal:  "My Parcel",
			},
			wantStatus: http.StatusOK,
			wantQuote:  rest.Quote{ID: 1, Portal: "My Parcel", Carrier: "UPS"},
		},
		{
			name: "unknown quote",
			request: rest.PortalChangeRequest{
				Quotes:  []rest.Quote{{ID: 1, Portal: "MBE", Carrier: "UPS"}},
				QuoteID: 7,
				Portal:  "BRT",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidQuoteID",
		},
		{
			name: "unknown portal",
			request: rest.PortalChangeRequest{
				Quotes:  []rest.Quote{{ID: 1, Portal: "MBE", Carrier: "UPS"}},
				QuoteID: 1,
				Portal:  "Poste",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidPortal",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			api := newAPI(t)

			var (
				out     rest.QuoteSet
				errResp rest.Error
			)

			resp, err := api.Post(context.Background(), "/v1/quotes/portal", nil, tc.request, &out, &errResp)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, errResp.Code)
				return
			}

			rq.Equal([]rest.Quote{tc.wantQuote}, out.Quotes)
		})
	}
}

func TestAnalyze(t *testing.T) {
	testCases := []struct {
		name         string
		request      rest.AnalyzeRequest
		wantStatus   int
		wantSelected int64
		wantSavings  string
		wantCode     rest.ErrorCode
	}{
		{
			name:         "cheapest by default",
			request:      rest.AnalyzeRequest{Quotes: sampleQuotes()},
			wantStatus:   http.StatusOK,
			wantSelected: 1,
			wantSavings:  "24.50",
		},
		{
			name:         "manual selection",
			request:      rest.AnalyzeRequest{Quotes: sampleQuotes(), SelectedQuoteID: lo.ToPtr[int64](2)},
			wantStatus:   http.StatusOK,
			wantSelected: 2,
			wantSavings:  "0.00",
		},
		{
			name: "no eligible quote",
			request: rest.AnalyzeRequest{Quotes: []rest.Quote{
				{ID: 1, Portal: "MBE", Carrier: "TNT", Price: ""},
				{ID: 2, Portal: "MBE", Carrier: "TNT", Price: "-3"},
			}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "NoEligibleQuotes",
		},
		{
			name: "ids omitted are numbered in order",
			request: rest.AnalyzeRequest{Quotes: []rest.Quote{
				{Portal: "MBE", Carrier: "TNT", Price: "95.50"},
				{Portal: "My Parcel", Carrier: "TNT", Price: "120"},
				{Portal: "My DHL", Carrier: "DHL", Price: ""},
			}, SelectedQuoteID: lo.ToPtr[int64](2)},
			wantStatus:   http.StatusOK,
			wantSelected: 2,
			wantSavings:  "0.00",
		},
		{
			name: "duplicate ids",
			request: rest.AnalyzeRequest{Quotes: []rest.Quote{
				{ID: 1, Portal: "MBE", Carrier: "TNT", Price: "95.50"},
				{ID: 1, Portal: "My Parcel", Carrier: "TNT", Price: "120"},
			}, SelectedQuoteID: lo.ToPtr[int64](1)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidQuoteID",
		},
		{
			name: "unknown carrier",
			request: rest.AnalyzeRequest{Quotes: []rest.Quote{
				{ID: 1, Portal: "MBE", Carrier: "Pigeon", Price: "5"},
			}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidCarrier",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			api := newAPI(t)

			var (
				decision rest.Decision
				errResp  rest.Error
			)

			resp, err := api.Post(context.Background(), "/v1/quotes/analyze", nil, tc.request, &decision, &errResp)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, errResp.Code)
				return
			}

			rq.Equal(tc.wantSelected, decision.Selected.ID)
			rq.Equal(tc.wantSavings, decision.Savings)
			rq.Equal(int64(1), decision.Best.ID)
			rq.Equal(int64(2), decision.Worst.ID)
		})
	}
}

func TestShipmentLifecycle(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	var created rest.Shipment
	resp, err := api.Post(ctx, "/v1/shipments", nil, rest.ShipmentDraft{
		OrderID:            "ORD-7",
		CustomerName:       " Rossi ",
		DestinationCountry: "Italy",
		TrackingCode:       "OUT123",
		CustomerPayment:    "150",
		Quotes:             sampleQuotes(),
	}, &created, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.NotEmpty(created.ID)
	rq.Equal("Rossi", created.CustomerName)
	rq.Equal("54.50", created.Profit)
	rq.Equal("24.50", created.Savings)
	rq.Equal("Pending", created.Status)
	rq.Equal(int64(1), created.SelectedQuote.ID)
	rq.Len(created.AllQuotes, 3)
	rq.Nil(created.UpdatedAt)

	var list []rest.Shipment
	_, err = api.Get(ctx, "/v1/shipments", nil, &list, nil)
	rq.NoError(err)
	rq.Len(list, 1)

	var suggestion rest.PortalSuggestion
	resp, err = api.Get(ctx, "/v1/portals/suggestion?country=italy", nil, &suggestion, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("MBE", suggestion.Portal)

	resp, err = api.Get(ctx, "/v1/portals/suggestion?country=France", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNoContent, resp.StatusCode)

	var edited rest.Shipment
	resp, err = api.Patch(ctx, "/v1/shipments/"+created.ID, nil, rest.ShipmentEdit{
		CustomerName:    lo.ToPtr("Bianchi"),
		SelectedQuoteID: lo.ToPtr[int64](2),
	}, &edited, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Bianchi", edited.CustomerName)
	rq.Equal(int64(2), edited.SelectedQuote.ID)
	rq.Equal("30.00", edited.Profit)
	rq.Equal("0.00", edited.Savings)
	rq.NotNil(edited.UpdatedAt)

	var delivered rest.Shipment
	resp, err = api.Put(ctx, "/v1/shipments/"+created.ID+"/status", nil, rest.StatusUpdate{Status: "Delivered"}, &delivered, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Delivered", delivered.Status)
	rq.Equal("Bianchi", delivered.CustomerName)

	var errResp rest.Error
	resp, err = api.Put(ctx, "/v1/shipments/"+created.ID+"/status", nil, rest.StatusUpdate{Status: "Lost"}, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode("InvalidStatus"), errResp.Code)

	resp, err = api.Delete(ctx, "/v1/shipments/"+created.ID, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNoContent, resp.StatusCode)

	resp, err = api.Delete(ctx, "/v1/shipments/"+created.ID, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNoContent, resp.StatusCode)

	errResp = rest.Error{}
	resp, err = api.Get(ctx, "/v1/shipments/"+created.ID, nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode("ShipmentNotFound"), errResp.Code)
	rq.NotEmpty(errResp.SupportID)

	errResp = rest.Error{}
	resp, err = api.Get(ctx, "/v1/shipments/not-a-uuid", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode("InvalidShipmentID"), errResp.Code)
}

func TestCreateShipmentValidation(t *testing.T) {
	testCases := []struct {
		name     string
		draft    rest.ShipmentDraft
		wantCode rest.ErrorCode
	}{
		{
			name:     "missing payment",
			draft:    rest.ShipmentDraft{Quotes: sampleQuotes()},
			wantCode: "ValidationError",
		},
		{
			name:     "no quotes",
			draft:    rest.ShipmentDraft{CustomerPayment: "10", Quotes: []rest.Quote{}},
			wantCode: "ValidationError",
		},
		{
			name:     "bad payment",
			draft:    rest.ShipmentDraft{CustomerPayment: "ten", Quotes: sampleQuotes()},
			wantCode: "InvalidPrice",
		},
		{
			name: "nothing priced",
			draft: rest.ShipmentDraft{CustomerPayment: "10", Quotes: []rest.Quote{
				{ID: 1, Portal: "MBE", Carrier: "TNT"},
			}},
			wantCode: "NoEligibleQuotes",
		},
		{
			name: "duplicate quote ids",
			draft: rest.ShipmentDraft{CustomerPayment: "150", Quotes: []rest.Quote{
				{ID: 4, Portal: "MBE", Carrier: "TNT", Price: "95.50"},
				{ID: 4, Portal: "My DHL", Carrier: "DHL", Price: "110"},
			}},
			wantCode: "InvalidQuoteID",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			ctx := context.Background()
			api := newAPI(t)

			var errResp rest.Error
			resp, err := api.Post(ctx, "/v1/shipments", nil, tc.draft, nil, &errResp)
			rq.NoError(err)
			rq.Equal(http.StatusBadRequest, resp.StatusCode)
			rq.Equal(tc.wantCode, errResp.Code)

			var list []rest.Shipment
			_, err = api.Get(ctx, "/v1/shipments", nil, &list, nil)
			rq.NoError(err)
			rq.Empty(list)
		})
	}
}

func TestDashboardReportsAndConnection(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	for _, d := range []rest.ShipmentDraft{
		{CustomerName: "Rossi", TrackingCode: "OUT1", CustomerPayment: "150", Quotes: sampleQuotes()},
		{CustomerName: "Verdi", CustomerPayment: "100", Quotes: sampleQuotes()},
	} {
		resp, err := api.Post(ctx, "/v1/shipments", nil, d, nil, nil)
		rq.NoError(err)
		rq.Equal(http.StatusCreated, resp.StatusCode)
	}

	var dashboard rest.Dashboard
	_, err := api.Get(ctx, "/v1/dashboard", nil, &dashboard, nil)
	rq.NoError(err)
	rq.Equal(2, dashboard.Stats.TotalShipments)
	rq.Equal(2, dashboard.Stats.PendingShipments)
	rq.Equal("49.00", dashboard.Stats.TotalSavings)
	rq.Equal(100, dashboard.Stats.FavoriteCarrierPercentage)
	rq.Len(dashboard.Recent, 2)

	tracked := lo.Filter(dashboard.Recent, func(s rest.DashboardShipment, _ int) bool { return s.Tracking != nil })
	rq.Len(tracked, 1)
	rq.Equal("OUT1", tracked[0].Tracking.Code)

	var rep rest.Report
	_, err = api.Get(ctx, "/v1/reports?top=1", nil, &rep, nil)
	rq.NoError(err)
	rq.Len(rep.Shipments, 1)
	rq.Equal("Rossi", rep.Shipments[0].CustomerName)
	rq.Equal("54.50", rep.Stats.TotalProfit)

	var errResp rest.Error
	resp, err := api.Get(ctx, "/v1/reports?bottom=-2", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode("ValidationError"), errResp.Code)

	resp, err = api.Get(ctx, "/v1/reports/pdf?search=rossi", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("application/pdf", resp.Header.Get("Content-Type"))

	var conn rest.Connection
	_, err = api.Get(ctx, "/v1/connection", nil, &conn, nil)
	rq.NoError(err)
	rq.Empty(conn.Backend)
	rq.Equal("disconnected", conn.Current.Status)
	rq.Nil(conn.Monitored)
	rq.WithinDuration(time.Now(), conn.Current.CheckedAt, time.Minute)
}
