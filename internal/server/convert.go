package server

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/lox"
	"bikeship/pkg/rest"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newRESTQuote(q entity.Quote) rest.Quote {
	return rest.Quote{
		ID:      int64(q.ID),
		Portal:  q.Portal.String(),
		Carrier: q.Carrier.String(),
		Price:   q.Price,
	}
}

func newDomainQuote(q rest.Quote) (entity.Quote, error) {
	portal, err := value.ParsePortal(q.Portal)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("value.ParsePortal: %w", err)
	}

	carrier, err := value.ParseCarrier(q.Carrier)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("value.ParseCarrier: %w", err)
	}

	return entity.Quote{
		ID:      value.QuoteID(q.ID),
		Portal:  portal,
		Carrier: carrier,
		Price:   q.Price,
	}, nil
}

func newDomainQuotes(quotes []rest.Quote) ([]entity.Quote, error) {
	return lox.MapErr(quotes, newDomainQuote)
}

func newDomainQuoteID(id *int64) *value.QuoteID {
	if id == nil {
		return nil
	}
	return lo.ToPtr(value.QuoteID(*id))
}

func newRESTDecision(d entity.Decision) rest.Decision {
	return rest.Decision{
		Selected: newRESTQuote(d.Selected),
		Best:     newRESTQuote(d.Best),
		Worst:    newRESTQuote(d.Worst),
		Savings:  money(d.Savings),
	}
}

func newRESTCatalog() rest.Catalog {
	permitted := make(map[string][]string, len(value.Portals()))
	for _, p := range value.Portals() {
		permitted[p.String()] = lox.Map(p.AllowedCarriers(), value.Carrier.String)
	}

	return rest.Catalog{
		Portals:           lox.Map(value.Portals(), value.Portal.String),
		Carriers:          lox.Map(value.Carriers(), value.Carrier.String),
		PermittedCarriers: permitted,
	}
}

func newDomainDraft(d rest.ShipmentDraft) (entity.ShipmentDraft, error) {
	quotes, err := newDomainQuotes(d.Quotes)
	if err != nil {
		return entity.ShipmentDraft{}, err
	}

	return entity.ShipmentDraft{
		ShipmentForm: entity.ShipmentForm{
			OrderID:            d.OrderID,
			CustomerName:       d.CustomerName,
			DestinationCountry: d.DestinationCountry,
			TrackingCode:       d.TrackingCode,
		},
		CustomerPayment: d.CustomerPayment,
		Quotes:          quotes,
		SelectedQuoteID: newDomainQuoteID(d.SelectedQuoteID),
	}, nil
}

func newDomainEdit(e rest.ShipmentEdit) (entity.ShipmentEdit, error) {
	var quotes []entity.Quote

	if e.Quotes != nil {
		var err error
		if quotes, err = newDomainQuotes(e.Quotes); err != nil {
			return entity.ShipmentEdit{}, err
		}
	}

	return entity.ShipmentEdit{
		OrderID:            e.OrderID,
		CustomerName:       e.CustomerName,
		DestinationCountry: e.DestinationCountry,
		TrackingCode:       e.TrackingCode,
		CustomerPayment:    e.CustomerPayment,
		Quotes:             quotes,
		SelectedQuoteID:    newDomainQuoteID(e.SelectedQuoteID),
	}, nil
}

func newRESTShipment(s entity.Shipment) rest.Shipment {
	return rest.Shipment{
		ID:                 s.ID.String(),
		OrderID:            s.OrderID,
		CustomerName:       s.CustomerName,
		DestinationCountry: s.DestinationCountry,
		TrackingCode:       s.TrackingCode,
		CustomerPayment:    money(s.CustomerPayment),
		SelectedQuote:      newRESTQuote(s.SelectedQuote),
		AllQuotes:          newRESTQuotes(s.AllQuotes),
		Profit:             money(s.Profit),
		Savings:            money(s.Savings),
		Status:             s.Status.String(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func newRESTShipments(shipments []entity.Shipment) []rest.Shipment {
	return lox.Map(shipments, newRESTShipment)
}

func newRESTCustomerProfit(c entity.CustomerProfit) rest.CustomerProfit {
	return rest.CustomerProfit{Name: c.Name, Profit: money(c.Profit)}
}

func newRESTCarrierShare(c entity.CarrierShare) rest.CarrierShare {
	return rest.CarrierShare{Carrier: c.Carrier.String(), Count: c.Count, Percentage: c.Percentage}
}

func newRESTStats(st entity.Stats) rest.Stats {
	out := rest.Stats{
		TotalShipments:            st.TotalShipments,
		PendingShipments:          st.PendingShipments,
		TotalSavings:              money(st.TotalSavings),
		TotalProfit:               money(st.TotalProfit),
		MonthSavings:              money(st.MonthSavings),
		MonthProfit:               money(st.MonthProfit),
		CustomerProfits:           lox.Map(st.CustomerProfits, newRESTCustomerProfit),
		CarrierCounts:             lox.Map(st.CarrierCounts, newRESTCarrierShare),
		FavoriteCarrierPercentage: st.FavoriteCarrierPercentage(),
		Recent:                    newRESTShipments(st.Recent),
	}

	if st.BestCustomer != nil {
		out.BestCustomer = lo.ToPtr(newRESTCustomerProfit(*st.BestCustomer))
	}
	if st.WorstCustomer != nil {
		out.WorstCustomer = lo.ToPtr(newRESTCustomerProfit(*st.WorstCustomer))
	}
	if st.FavoriteCarrier != nil {
		out.FavoriteCarrier = lo.ToPtr(newRESTCarrierShare(*st.FavoriteCarrier))
	}

	return out
}

func newRESTTracking(t entity.TrackingUpdate) rest.TrackingUpdate {
	return rest.TrackingUpdate{
		Code:      t.Code,
		Status:    t.Status.String(),
		Location:  t.Location,
		Timestamp: t.Timestamp,
		Mocked:    t.Mocked,
	}
}

func newRESTDashboard(d entity.Dashboard) rest.Dashboard {
	return rest.Dashboard{
		Stats: newRESTStats(d.Stats),
		Recent: lox.Map(d.Recent, func(s entity.DashboardShipment) rest.DashboardShipment {
			out := rest.DashboardShipment{Shipment: newRESTShipment(s.Shipment)}
			if s.Tracking != nil {
				out.Tracking = lo.ToPtr(newRESTTracking(*s.Tracking))
			}
			return out
		}),
	}
}

func newRESTReport(r entity.Report) rest.Report {
	return rest.Report{
		Stats:     newRESTStats(r.Stats),
		Shipments: newRESTShipments(r.Shipments),
	}
}

func newRESTConnectionStatus(c entity.ConnectionStatus) rest.ConnectionStatus {
	return rest.ConnectionStatus{
		Status:    string(c.State),
		Reason:    c.Reason,
		CheckedAt: c.CheckedAt,
	}
}

func newRESTQuotes(quotes []entity.Quote) []rest.Quote {
	return lox.Map(quotes, newRESTQuote)
}
