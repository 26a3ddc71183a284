package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// BlacklistEntry bars a worker from checking in to an organization's projects
// until it expires.
type BlacklistEntry struct {
	bun.BaseModel `bun:"table:blacklist_entries"`

	BasicEntity
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	WorkerID       *int      `json:"worker_id" bun:"worker_id"`
	ExpiresAt      time.Time `json:"expires_at" bun:"expires_at"`
}
