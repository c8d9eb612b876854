package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/pkg/errcodes"
	"bikeship/pkg/httpx/reply"
)

type statsService interface {
	Dashboard(ctx context.Context) (entity.Dashboard, error)
	Report(ctx context.Context, filter entity.ReportFilter) (entity.Report, error)
}

type reportRenderer interface {
	PDF(r entity.Report) ([]byte, error)
}

type StatsServer struct {
	statsService statsService
	renderer     reportRenderer
}

func NewStatsServer(statsService statsService, renderer reportRenderer) StatsServer {
	return StatsServer{
		statsService: statsService,
		renderer:     renderer,
	}
}

func (s StatsServer) getV1Dashboard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	dashboard, err := s.statsService.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("statsService.Dashboard: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDashboard(dashboard))

	return nil
}

func (s StatsServer) getV1Report(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filter, err := parseReportFilter(r.URL.Query())
	if err != nil {
		return fmt.Errorf("parseReportFilter: %w", err)
	}

	report, err := s.statsService.Report(ctx, filter)
	if err != nil {
		return fmt.Errorf("statsService.Report: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReport(report))

	return nil
}

func (s StatsServer) getV1ReportPDF(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filter, err := parseReportFilter(r.URL.Query())
	if err != nil {
		return fmt.Errorf("parseReportFilter: %w", err)
	}

	report, err := s.statsService.Report(ctx, filter)
	if err != nil {
		return fmt.Errorf("statsService.Report: %w", err)
	}

	doc, err := s.renderer.PDF(report)
	if err != nil {
		return fmt.Errorf("renderer.PDF: %w", err)
	}

	reply.Binary(ctx, w, "application/pdf", "shipments-report.pdf", doc)

	return nil
}

func parseReportFilter(q url.Values) (entity.ReportFilter, error) {
	top, err := parseCount(q, "top")
	if err != nil {
		return entity.ReportFilter{}, err
	}

	bottom, err := parseCount(q, "bottom")
	if err != nil {
		return entity.ReportFilter{}, err
	}

	return entity.ReportFilter{
		Customer: strings.TrimSpace(q.Get("customer")),
		Search:   strings.TrimSpace(q.Get("search")),
		Top:      top,
		Bottom:   bottom,
	}, nil
}

func parseCount(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewError(errcodes.ValidationError, name+" must be a non-negative integer")
	}

	return n, nil
}
