package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// BackgroundWorker runs a long-lived loop until the context is cancelled.
// Cancellation is a normal stop, any other error stops the whole group.
type BackgroundWorker struct {
	Name string
}

func (w BackgroundWorker) Run(
	ctx context.Context,
	g *errgroup.Group,
	run func(context.Context) error,
) {
	g.Go(func() error {
		logger(ctx).Info("worker started", slog.String("worker", w.Name))

		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s.Run: %w", w.Name, err)
		}

		logger(ctx).Info("worker stopped", slog.String("worker", w.Name))

		return nil
	})
}
