package entity

import (
	"time"

	"bikeship/internal/domain/value"
)

type ShipmentEventType string

const (
	ShipmentCreated       ShipmentEventType = "shipment.created"
	ShipmentUpdated       ShipmentEventType = "shipment.updated"
	ShipmentStatusChanged ShipmentEventType = "shipment.status_changed"
	ShipmentDeleted       ShipmentEventType = "shipment.deleted"
)

// ShipmentEvent describes a completed change to a shipment. Shipment is nil
// for deletions.
type ShipmentEvent struct {
	Type       ShipmentEventType `json:"type"`
	ShipmentID value.ShipmentID  `json:"shipmentId"`
	OccurredAt time.Time         `json:"occurredAt"`
	Shipment   *Shipment         `json:"shipment,omitempty"`
}
