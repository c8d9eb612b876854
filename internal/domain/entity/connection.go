package entity

import "time"

type ConnectionState string

const (
	ConnectionConnected    ConnectionState = "connected"
	ConnectionDisconnected ConnectionState = "disconnected" // remote backend not configured
	ConnectionError        ConnectionState = "error"        // remote configured but failing
)

type ConnectionStatus struct {
	State     ConnectionState `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	CheckedAt time.Time       `json:"checkedAt"`
}
