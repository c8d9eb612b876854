package entity

import (
	"time"

	"bikeship/internal/domain/value"
)

// TrackingUpdate is display-only data returned by the tracking lookup.
type TrackingUpdate struct {
	Code      string       `json:"code"`
	Status    value.Status `json:"status"`
	Location  string       `json:"location"`
	Timestamp time.Time    `json:"timestamp"`
	Mocked    bool         `json:"mocked"`
}
