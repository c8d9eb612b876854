package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bikeship/internal/domain/entity"
	"bikeship/pkg/contextx"
)

const trackingConcurrency = 4

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ShipmentLister interface {
	List(ctx context.Context) ([]entity.Shipment, error)
}

// Tracker looks up the latest display-only status of a tracking code. It
// never fails: lookups that cannot reach the provider return a mocked update.
type Tracker interface {
	Track(ctx context.Context, code string) entity.TrackingUpdate
}

type Service struct {
	shipments   ShipmentLister
	tracker     Tracker
	now         func() time.Time
	recentLimit int
}

func NewService(shipments ShipmentLister, tracker Tracker) *Service {
	return &Service{
		shipments:   shipments,
		tracker:     tracker,
		now:         time.Now,
		recentLimit: DefaultRecentLimit,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithRecentLimit(limit int) *Service {
	s.recentLimit = limit
	return s
}

// Dashboard aggregates every shipment and decorates the recent ones that are
// still on their way with a tracking update.
func (s *Service) Dashboard(ctx context.Context) (entity.Dashboard, error) {
	shipments, err := s.shipments.List(ctx)
	if err != nil {
		return entity.Dashboard{}, fmt.Errorf("stats.Dashboard: %w", err)
	}

	st := Aggregate(shipments, s.now(), s.recentLimit)

	return entity.Dashboard{
		Stats:  st,
		Recent: s.decorate(ctx, st.Recent),
	}, nil
}

// Report aggregates the shipments selected by filter.
func (s *Service) Report(ctx context.Context, filter entity.ReportFilter) (entity.Report, error) {
	shipments, err := s.shipments.List(ctx)
	if err != nil {
		return entity.Report{}, fmt.Errorf("stats.Report: %w", err)
	}

	filtered := ApplyFilter(shipments, filter)

	logger(ctx).Debug("report built",
		"total", len(shipments),
		"selected", len(filtered),
	)

	return entity.Report{
		Filter:    filter,
		Stats:     Aggregate(filtered, s.now(), s.recentLimit),
		Shipments: filtered,
	}, nil
}

func (s *Service) decorate(ctx context.Context, recent []entity.Shipment) []entity.DashboardShipment {
	out := make([]entity.DashboardShipment, len(recent))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(trackingConcurrency)

	for i, sh := range recent {
		out[i] = entity.DashboardShipment{Shipment: sh}

		if s.tracker == nil || sh.TrackingCode == "" || !sh.Status.IsOpen() {
			continue
		}

		g.Go(func() error {
			update := s.tracker.Track(gctx, sh.TrackingCode)
			out[i].Tracking = &update
			return nil
		})
	}

	_ = g.Wait()

	return out
}
