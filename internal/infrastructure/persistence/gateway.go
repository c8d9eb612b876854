package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/errcodes"
	"bikeship/pkg/logx"
)

// DefaultRemoteTimeout bounds every remote call before the gateway falls
// back to the local store.
const DefaultRemoteTimeout = 5 * time.Second

// Gateway is the shipment store the rest of the engine talks to. Every call
// tries the remote backend first, when one is configured, and repeats the
// call against the local backend if the remote one fails. Nothing written
// locally is ever copied to the remote backend later.
//
// Concurrent updates of the same shipment are not coordinated: the last
// write wins per field.
type Gateway struct {
	local         Backend
	remote        Backend
	remoteTimeout time.Duration
	now           func() time.Time
	newID         func() value.ShipmentID
}

func NewGateway(local Backend) *Gateway {
	return &Gateway{
		local:         local,
		remoteTimeout: DefaultRemoteTimeout,
		now:           time.Now,
		newID:         value.NewShipmentID,
	}
}

// WithRemote configures the remote backend. A nil backend keeps the gateway
// local-only.
func (g *Gateway) WithRemote(remote Backend) *Gateway {
	g.remote = remote
	return g
}

func (g *Gateway) WithRemoteTimeout(timeout time.Duration) *Gateway {
	if timeout > 0 {
		g.remoteTimeout = timeout
	}
	return g
}

func (g *Gateway) WithClock(now func() time.Time) *Gateway {
	g.now = now
	return g
}

func (g *Gateway) WithIDGenerator(newID func() value.ShipmentID) *Gateway {
	g.newID = newID
	return g
}

// List returns every shipment, newest first. An empty store is an empty
// slice, never an error.
func (g *Gateway) List(ctx context.Context) ([]entity.Shipment, error) {
	shipments, err := call(ctx, g, "list", func(ctx context.Context, b Backend) ([]entity.Shipment, error) {
		return b.List(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("gateway.List: %w", err)
	}

	if shipments == nil {
		shipments = []entity.Shipment{}
	}

	return shipments, nil
}

// Create assigns the id and creation time, defaults the status to Pending
// and stores s. The returned record is what was actually persisted.
func (g *Gateway) Create(ctx context.Context, s entity.Shipment) (entity.Shipment, error) {
	record := s.Clone()
	record.ID = g.newID()
	record.CreatedAt = g.stamp()
	record.UpdatedAt = nil
	if record.Status == "" {
		record.Status = value.StatusPending
	}

	created, err := call(ctx, g, "create", func(ctx context.Context, b Backend) (entity.Shipment, error) {
		return b.Create(ctx, record)
	})
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("gateway.Create: %w", err)
	}

	return created, nil
}

func (g *Gateway) Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error) {
	s, err := call(ctx, g, "get", func(ctx context.Context, b Backend) (entity.Shipment, error) {
		return b.Get(ctx, id)
	})
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("gateway.Get: %w", err)
	}

	return s, nil
}

// Update merges patch into the stored shipment and stamps updatedAt. It
// never creates a record.
func (g *Gateway) Update(ctx context.Context, id value.ShipmentID, patch entity.ShipmentPatch) (entity.Shipment, error) {
	updatedAt := g.stamp()

	s, err := call(ctx, g, "update", func(ctx context.Context, b Backend) (entity.Shipment, error) {
		return b.Update(ctx, id, patch, updatedAt)
	})
	if err != nil {
		return entity.Shipment{}, fmt.Errorf("gateway.Update: %w", err)
	}

	return s, nil
}

// Delete removes the shipment. Deleting an unknown id succeeds.
func (g *Gateway) Delete(ctx context.Context, id value.ShipmentID) error {
	_, err := call(ctx, g, "delete", func(ctx context.Context, b Backend) (struct{}, error) {
		return struct{}{}, b.Delete(ctx, id)
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("gateway.Delete: %w", err)
	}

	return nil
}

// stamp is the current time at the precision timestamptz keeps, so a record
// reads back with the same timestamps it was written with.
func (g *Gateway) stamp() time.Time {
	return g.now().Truncate(time.Microsecond)
}

// ConnectionStatus probes the remote backend once. It reports on the remote
// backend only and has no effect on how calls are routed.
func (g *Gateway) ConnectionStatus(ctx context.Context) entity.ConnectionStatus {
	status := entity.ConnectionStatus{CheckedAt: g.now()}

	if g.remote == nil {
		status.State = entity.ConnectionDisconnected
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, g.remoteTimeout)
	defer cancel()

	if err := g.remote.Ping(ctx); err != nil {
		status.State = entity.ConnectionError
		status.Reason = err.Error()
		return status
	}

	status.State = entity.ConnectionConnected

	return status
}

// RemoteName returns the configured remote backend name, or "" when the
// gateway is local-only.
func (g *Gateway) RemoteName() string {
	if g.remote == nil {
		return ""
	}
	return g.remote.Name()
}

// call runs op against the remote backend and then, if that did not work,
// against the local one. A remote "not found" also falls through: the record
// may have been written locally during an outage. Local errors other than
// "not found" are reported as PersistenceFailure.
func call[T any](ctx context.Context, g *Gateway, op string, fn func(context.Context, Backend) (T, error)) (T, error) {
	if g.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, g.remoteTimeout)
		v, err := fn(rctx, g.remote)
		cancel()

		if err == nil {
			return v, nil
		}

		if isNotFound(err) {
			logger(ctx).Debug("remote miss, checking local store",
				slog.String(logx.FieldBackend, g.remote.Name()),
				slog.String(logx.FieldOperation, op),
			)
		} else {
			remoteFailures.WithLabelValues(g.remote.Name(), op).Inc()
			logger(ctx).Warn("remote backend failed, falling back to local store",
				slog.String(logx.FieldBackend, g.remote.Name()),
				slog.String(logx.FieldOperation, op),
				logx.Error(err),
			)
		}
	}

	v, err := fn(ctx, g.local)
	if err != nil {
		if isNotFound(err) {
			localOperations.WithLabelValues(op, "not_found").Inc()
			return v, err
		}

		localOperations.WithLabelValues(op, "error").Inc()
		logger(ctx).Error("local store failed",
			slog.String(logx.FieldBackend, g.local.Name()),
			slog.String(logx.FieldOperation, op),
			logx.Error(err),
		)

		if domain.HasCode(err, errcodes.PersistenceFailure) {
			return v, err
		}

		return v, domain.WrapError(err, errcodes.PersistenceFailure, op+" failed in local store")
	}

	localOperations.WithLabelValues(op, "ok").Inc()

	return v, nil
}
