package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// AttendanceStatus values for a worker's day on a project. INACTIVE is the
// absence of a record and never stored.
const (
	AttendanceActive = "ACTIVE"
	AttendancePaused = "PAUSED"
	AttendanceClosed = "CLOSED"
)

// Origin of the attendance record.
const (
	OriginAutomatic = "AUTOMATIC"
	OriginManual    = "MANUAL"
)

type AttendanceRecord struct {
	bun.BaseModel `bun:"table:attendance_records"`

	BasicEntity
	WorkerID        *int       `json:"worker_id" bun:"worker_id"`
	ProjectID       *int       `json:"project_id" bun:"project_id"`
	WorkDay         string     `json:"work_day" bun:"work_day"`
	Status          string     `json:"status" bun:"status"`
	WorkedMinutes   int        `json:"worked_minutes" bun:"worked_minutes"`
	Breach          bool       `json:"breach" bun:"breach"`
	ExitCount       int        `json:"exit_count" bun:"exit_count"`
	MaxAllowedExits int        `json:"max_allowed_exits" bun:"max_allowed_exits"`
	Origin          string     `json:"origin" bun:"origin"`
	LastLatitude    *float64   `json:"last_latitude" bun:"last_latitude"`
	LastLongitude   *float64   `json:"last_longitude" bun:"last_longitude"`
	LastEventAt     *time.Time `json:"last_event_at" bun:"last_event_at"`
	ClosedAt        *time.Time `json:"closed_at" bun:"closed_at"`
}

type AttendanceSession struct {
	bun.BaseModel `bun:"table:attendance_sessions"`

	BasicEntity
	AttendanceID  *int       `json:"attendance_id" bun:"attendance_id"`
	CheckInTime   time.Time  `json:"check_in_time" bun:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time" bun:"check_out_time"`
	WorkedMinutes int        `json:"worked_minutes" bun:"worked_minutes"`
}

// Open reports whether the session has not been checked out yet.
func (s AttendanceSession) Open() bool {
	return s.CheckOutTime == nil
}

// DeriveAttendanceStatus is the single source of truth for a record's status.
// The stored status column is a cache of this value, refreshed in the same
// transaction as the sessions it derives from.
func DeriveAttendanceStatus(sessions []AttendanceSession, closedAt *time.Time) string {
	if closedAt != nil {
		return AttendanceClosed
	}
	for _, s := range sessions {
		if s.Open() {
			return AttendanceActive
		}
	}
	return AttendancePaused
}
