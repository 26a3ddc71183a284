package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// TransitionEvent is a compliance-trail row for an attendance transition.
// Written fire-and-forget; losing one never fails the transition.
type TransitionEvent struct {
	bun.BaseModel `bun:"table:transition_events"`

	ID           string                 `json:"id" bun:"id,pk"`
	WorkerID     *int                   `json:"worker_id" bun:"worker_id"`
	ProjectID    *int                   `json:"project_id" bun:"project_id"`
	AttendanceID *int                   `json:"attendance_id" bun:"attendance_id"`
	EventType    string                 `json:"event_type" bun:"event_type"`
	Detail       map[string]interface{} `json:"detail" bun:"detail,type:jsonb"`
	CreatedAt    time.Time              `json:"created_at" bun:"created_at"`
}
