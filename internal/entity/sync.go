package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Outcome classifications recorded for a sync action id.
const (
	OutcomeApplied  = "APPLIED"
	OutcomeRejected = "REJECTED"
)

// SyncOutcome is the durable record of a processed offline action, keyed by
// the client-generated action id. An id present here is never applied twice.
type SyncOutcome struct {
	bun.BaseModel `bun:"table:sync_outcomes"`

	ID        int       `json:"id" bun:"id,pk,autoincrement"`
	ActionID  string    `json:"action_id" bun:"action_id"`
	WorkerID  *int      `json:"worker_id" bun:"worker_id"`
	EntityID  *int      `json:"entity_id" bun:"entity_id"`
	Status    string    `json:"status" bun:"status"`
	Reason    *string   `json:"reason" bun:"reason"`
	CreatedAt time.Time `json:"created_at" bun:"created_at"`
}
