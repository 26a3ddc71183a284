package entity

import (
	"github.com/uptrace/bun"
)

type WageRate struct {
	bun.BaseModel `bun:"table:wage_rates"`

	BasicEntity
	ProjectID  *int     `json:"project_id" bun:"project_id"`
	Skill      *string  `json:"skill" bun:"skill"`
	Category   *string  `json:"category" bun:"category"`
	HourlyRate *float64 `json:"hourly_rate" bun:"hourly_rate"`
}

// Approval workflow statuses for a wage record. The workflow itself lives
// outside this service; the values are only preserved on recompute.
const (
	WagePending  = "PENDING"
	WageApproved = "APPROVED"
	WageRejected = "REJECTED"
)

type WageRecord struct {
	bun.BaseModel `bun:"table:wage_records"`

	BasicEntity
	AttendanceID *int    `json:"attendance_id" bun:"attendance_id"`
	HourlyRate   float64 `json:"hourly_rate" bun:"hourly_rate"`
	WorkedHours  float64 `json:"worked_hours" bun:"worked_hours"`
	Total        float64 `json:"total" bun:"total"`
	Status       string  `json:"status" bun:"status"`
}
