// Package shipment turns quote decisions into stored shipments and keeps
// derived data in step with every change.
package shipment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/service/analyzer"
	"bikeship/internal/domain/value"
	"bikeship/pkg/contextx"
	"bikeship/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Store interface {
	List(ctx context.Context) ([]entity.Shipment, error)
	Create(ctx context.Context, s entity.Shipment) (entity.Shipment, error)
	Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error)
	Update(ctx context.Context, id value.ShipmentID, patch entity.ShipmentPatch) (entity.Shipment, error)
	Delete(ctx context.Context, id value.ShipmentID) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.ShipmentEvent) error
}

// CacheInvalidator is anything holding data derived from the shipment list.
type CacheInvalidator interface {
	Invalidate()
}

type Service struct {
	store       Store
	publisher   EventPublisher
	invalidates []CacheInvalidator
	now         func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) WithPublisher(p EventPublisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) WithCacheInvalidation(caches ...CacheInvalidator) *Service {
	s.invalidates = append(s.invalidates, caches...)
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]entity.Shipment, error) {
	return s.store.List(ctx) //nolint:wrapcheck
}

func (s *Service) Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error) {
	return s.store.Get(ctx, id) //nolint:wrapcheck
}

// Save validates and analyzes draft and stores the resulting shipment.
// Nothing reaches the store when the draft has no eligible quote or an
// invalid payment.
func (s *Service) Save(ctx context.Context, draft entity.ShipmentDraft) (entity.Shipment, error) {
	payment, err := value.ParseAmount(draft.CustomerPayment)
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.Save: customer payment: %w", err)
	}

	set, err := entity.QuoteSetFrom(draft.Quotes)
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.Save: %w", err)
	}

	quotes := set.Quotes()

	decision, err := analyzer.Analyze(quotes, draft.SelectedQuoteID)
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.Save: %w", err)
	}

	created, err := s.store.Create(ctx, entity.NewShipment(trimForm(draft.ShipmentForm), payment, decision, quotes))
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.Save: %w", err)
	}

	logger(ctx).Info("shipment saved",
		slog.String(logx.FieldShipmentID, created.ID.String()),
		slog.String("portal", created.SelectedQuote.Portal.String()),
		slog.String("savings", created.Savings.String()),
	)

	s.changed(ctx, entity.ShipmentCreated, created.ID, &created)

	return created, nil
}

// Edit applies edit to a stored shipment. When the resulting quote set can
// be analyzed the decision is taken again; otherwise the stored selection is
// kept and profit and savings are recomputed against it.
func (s *Service) Edit(ctx context.Context, id value.ShipmentID, edit entity.ShipmentEdit) (entity.Shipment, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.Edit: %w", err)
	}

	patch := entity.ShipmentPatch{
		OrderID:            trimPtr(edit.OrderID),
		CustomerName:       trimPtr(edit.CustomerName),
		DestinationCountry: trimPtr(edit.DestinationCountry),
		TrackingCode:       trimPtr(edit.TrackingCode),
	}

	payment := current.CustomerPayment
	if edit.CustomerPayment != nil {
		payment, err = value.ParseAmount(*edit.CustomerPayment)
		if err != nil {
			return entity.Shipment{}, fmt.Errorf("shipment.Edit: customer payment: %w", err)
		}
		patch.CustomerPayment = &payment
	}

	quotes := current.AllQuotes
	if edit.Quotes != nil {
		set, err := entity.QuoteSetFrom(edit.Quotes)
		if err != nil {
			return entity.Shipment{}, fmt.Errorf("shipment.Edit: %w", err)
		}
		quotes = set.Quotes()
	}

	selectedID := edit.SelectedQuoteID
	if selectedID == nil {
		selectedID = &current.SelectedQuote.ID
	}

	decision, err := analyzer.Analyze(quotes, selectedID)
	switch {
	case err == nil:
		profit := payment.Sub(mustAmount(decision.Selected))
		patch.SelectedQuote = &decision.Selected
		patch.AllQuotes = quotes
		patch.Profit = &profit
		patch.Savings = &decision.Savings
	case errors.Is(err, analyzer.ErrNoAnalysis):
		profit, savings := recomputeKept(current, payment)
		patch.Profit = &profit
		patch.Savings = &savings
	default:
		return entity.Shipment{}, fmt.Errorf("shipment.Edit: %w", err)
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.Edit: %w", err)
	}

	s.changed(ctx, entity.ShipmentUpdated, id, &updated)

	return updated, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id value.ShipmentID, status value.Status) (entity.Shipment, error) {
	updated, err := s.store.Update(ctx, id, entity.ShipmentPatch{Status: &status})
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("shipment.UpdateStatus: %w", err)
	}

	s.changed(ctx, entity.ShipmentStatusChanged, id, &updated)

	return updated, nil
}

// Delete removes the shipment. Deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id value.ShipmentID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("shipment.Delete: %w", err)
	}

	s.changed(ctx, entity.ShipmentDeleted, id, nil)

	return nil
}

func (s *Service) changed(ctx context.Context, typ entity.ShipmentEventType, id value.ShipmentID, shipment *entity.Shipment) {
	for _, c := range s.invalidates {
		c.Invalidate()
	}

	if s.publisher == nil {
		return
	}

	event := entity.ShipmentEvent{
		Type:       typ,
		ShipmentID: id,
		OccurredAt: s.now(),
		Shipment:   shipment,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger(ctx).Warn("failed to publish shipment event",
			slog.String(logx.FieldShipmentID, id.String()),
			slog.String("event", string(typ)),
			logx.Error(err),
		)
	}
}

// recomputeKept derives profit and savings from the stored selection when
// the quotes cannot be analyzed. Savings are measured against the most
// expensive positive stored price; without one the stored savings stay.
func recomputeKept(current entity.Shipment, payment decimal.Decimal) (profit, savings decimal.Decimal) {
	selectedPrice, _ := current.SelectedQuote.Amount()
	profit = payment.Sub(selectedPrice)
	savings = current.Savings

	var worst decimal.Decimal
	found := false
	for _, q := range current.AllQuotes {
		price, ok := q.Amount()
		if !ok || !price.IsPositive() {
			continue
		}
		if !found || price.GreaterThan(worst) {
			worst, found = price, true
		}
	}

	if found && !worst.LessThan(selectedPrice) {
		savings = worst.Sub(selectedPrice)
	}

	return profit, savings
}

func mustAmount(q entity.Quote) decimal.Decimal {
	amount, _ := q.Amount()
	return amount
}

func trimForm(f entity.ShipmentForm) entity.ShipmentForm {
	return entity.ShipmentForm{
		OrderID:            strings.TrimSpace(f.OrderID),
		CustomerName:       strings.TrimSpace(f.CustomerName),
		DestinationCountry: strings.TrimSpace(f.DestinationCountry),
		TrackingCode:       strings.TrimSpace(f.TrackingCode),
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
