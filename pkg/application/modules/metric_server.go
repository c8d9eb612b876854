package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bikeship/pkg/metrics"
)

type MetricServer struct {
	Name          string
	Version       string
	ListenAddress string
}

func (m MetricServer) Run(ctx context.Context, g *errgroup.Group) {
	prometheusServer := metrics.NewPrometheusServer(
		m.ListenAddress,
	).WithBuildInfo(m.Name, m.Version)

	g.Go(func() error {
		if err := prometheusServer.Run(ctx); err != nil {
			return fmt.Errorf("prometheusServer.Run: %w", err)
		}

		return nil
	})
}
