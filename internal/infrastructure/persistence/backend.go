// Package persistence stores shipments in a remote backend with a local
// fallback.
package persistence

import (
	"context"
	"time"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/contextx"
	"bikeship/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Backend is one shipment store. Create persists the record as given; the
// gateway assigns ids and timestamps before calling it. Get, Update and
// Delete return an error with code ShipmentNotFound for an unknown id.
// Update never creates a record.
type Backend interface {
	Name() string
	List(ctx context.Context) ([]entity.Shipment, error)
	Create(ctx context.Context, s entity.Shipment) (entity.Shipment, error)
	Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error)
	Update(ctx context.Context, id value.ShipmentID, patch entity.ShipmentPatch, updatedAt time.Time) (entity.Shipment, error)
	Delete(ctx context.Context, id value.ShipmentID) error
	Ping(ctx context.Context) error
}

func errNotFound(id value.ShipmentID) error {
	return domain.NewError(errcodes.ShipmentNotFound, "shipment "+id.String()+" not found")
}

func isNotFound(err error) bool {
	return domain.HasCode(err, errcodes.ShipmentNotFound)
}
