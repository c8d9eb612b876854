package value

import (
	"slices"

	"bikeship/internal/domain"
	"bikeship/pkg/errcodes"
)

type Status string

const (
	StatusPending        Status = "Pending"
	StatusInTransit      Status = "In Transit"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusException      Status = "Exception"
)

//nolint:gochecknoglobals
var statuses = []Status{StatusPending, StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusException}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !slices.Contains(statuses, st) {
		return "", domain.NewError(errcodes.InvalidStatus, "unknown status "+s)
	}

	return st, nil
}

func (s Status) String() string {
	return string(s)
}

// IsOpen reports whether the shipment still counts as pending on the dashboard.
func (s Status) IsOpen() bool {
	return s != StatusDelivered
}
