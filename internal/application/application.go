// Package application wires the engine together and runs its servers and
// background workers until the context is cancelled.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"bikeship/internal/config"
	"bikeship/internal/domain/service/recommender"
	"bikeship/internal/domain/service/shipment"
	"bikeship/internal/domain/service/stats"
	"bikeship/internal/infrastructure/events"
	"bikeship/internal/infrastructure/notifier"
	"bikeship/internal/infrastructure/persistence"
	"bikeship/internal/infrastructure/report"
	"bikeship/internal/infrastructure/tracking"
	"bikeship/internal/server"
	"bikeship/internal/worker"
	"bikeship/pkg/application/connectors"
	"bikeship/pkg/application/modules"
	"bikeship/pkg/contextx"
	"bikeship/pkg/logx"
	"bikeship/pkg/middlewarex"
)

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type publisher interface {
	shipment.EventPublisher
	Close() error
}

func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	masker := logx.NewSensitiveDataMasker()

	// Local store: always present, the fallback for every operation.
	var kv persistence.KeyValue

	switch cfg.Local.Driver {
	case config.LocalRedis:
		rc := &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		kv = persistence.NewRedisKeyValue(rc.Client(ctx))
		defer rc.Close(ctx)
	default:
		kv = persistence.NewFileKeyValue(cfg.Local.Path)
	}

	local := persistence.NewLocalBackend(kv, cfg.Local.Key)
	gateway := persistence.NewGateway(local).WithRemoteTimeout(cfg.Remote.Timeout)

	// Remote store.
	switch cfg.Remote.Driver {
	case config.RemoteSupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.Key == "" {
			logger(ctx).Warn("supabase is not configured, running on the local store only")
			break
		}
		gateway.WithRemote(persistence.NewSupabaseBackend(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Supabase.Table))
	case config.RemotePostgres:
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		gateway.WithRemote(persistence.NewPostgresBackend(pg.Client(ctx)))
		defer pg.Close(ctx)
	case config.RemoteNone:
	}

	logger(ctx).Info("persistence ready",
		slog.String("remote", gateway.RemoteName()),
		slog.String("local", string(cfg.Local.Driver)),
	)

	// Lifecycle events.
	var pub publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger(ctx).Error("publisher.Close", logx.Error(err))
		}
	}()

	// Health alerts.
	var alert worker.Alerter = notifier.Nop{}
	if cfg.Bot.Token != "" {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}
		alert = bot
	}

	tracker := tracking.NewClient(cfg.Tracking.Key).WithTimeout(cfg.Tracking.Timeout)
	if cfg.Tracking.URL != "" {
		tracker.WithURL(cfg.Tracking.URL)
	}

	suggester := recommender.NewRecommender(gateway).WithCacheTTL(cfg.App.SuggestionCacheTTL)
	shipments := shipment.NewService(gateway).
		WithPublisher(pub).
		WithCacheInvalidation(suggester)
	statistics := stats.NewService(gateway, tracker)

	monitor := worker.NewConnectionMonitor(gateway).
		WithAlerter(alert).
		WithInterval(cfg.Monitor.Interval)

	srv := server.NewServer(
		server.NewQuoteServer(suggester),
		server.NewShipmentServer(shipments),
		server.NewStatsServer(statistics, report.NewGenerator()),
		server.NewConnectionServer(gateway, monitor),
	)

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.App.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.App.LogFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.App.HTTPListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.App.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeListenAddress,
		Ready:         local.Ping,
	}.Run(ctx, g)
	modules.MetricServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.MetricsListenAddress,
	}.Run(ctx, g)
	modules.BackgroundWorker{Name: "connection-monitor"}.Run(ctx, g, monitor.Run)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
