package sync

import "time"

// Client-authored action types.
const (
	ActionCheckIn      = "CHECK_IN"
	ActionCheckOut     = "CHECK_OUT"
	ActionLocationPing = "LOCATION_PING"
)

// Action is one client-recorded attendance operation, replayed against the
// same ledger transitions the live endpoints use. ActionID is the client's
// idempotency key.
type Action struct {
	ActionID  string     `json:"action_id"`
	Type      string     `json:"type"`
	WorkerID  int        `json:"worker_id"`
	ProjectID int        `json:"project_id,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	At        *time.Time `json:"at,omitempty"`
}

type BatchRequest struct {
	Actions []Action `json:"actions"`
}

type AppliedAction struct {
	ActionID string `json:"action_id"`
	EntityID int    `json:"entity_id"`
}

type RejectedAction struct {
	ActionID string                 `json:"action_id"`
	Reason   string                 `json:"reason"`
	Detail   map[string]interface{} `json:"detail,omitempty"`
}

type SkippedAction struct {
	ActionID string  `json:"action_id"`
	Status   string  `json:"status"`
	EntityID *int    `json:"entity_id,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

type BatchResult struct {
	Applied  []AppliedAction  `json:"applied"`
	Rejected []RejectedAction `json:"rejected"`
	Skipped  []SkippedAction  `json:"skipped"`
}
