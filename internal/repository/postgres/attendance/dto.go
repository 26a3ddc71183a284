package attendance

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type CheckInRequest struct {
	WorkerID  int        `json:"worker_id" form:"worker_id"`
	ProjectID int        `json:"project_id" form:"project_id"`
	Latitude  float64    `json:"latitude" form:"latitude"`
	Longitude float64    `json:"longitude" form:"longitude"`
	Origin    string     `json:"-"`
	At        *time.Time `json:"-"`
}

type CheckInResponse struct {
	AttendanceID int    `json:"attendance_id"`
	SessionID    int    `json:"session_id"`
	WorkDay      string `json:"work_day"`
	CheckInTime  string `json:"check_in_time"`
	WagePending  bool   `json:"wage_pending"`
}

type CheckOutRequest struct {
	WorkerID  int        `json:"worker_id" form:"worker_id"`
	Latitude  *float64   `json:"latitude" form:"latitude"`
	Longitude *float64   `json:"longitude" form:"longitude"`
	At        *time.Time `json:"-"`
}

type CheckOutResponse struct {
	AttendanceID   int    `json:"attendance_id"`
	SessionID      int    `json:"session_id"`
	TotalWorkHours string `json:"total_work_hours"`
	ExitsUsed      int    `json:"exits_used"`
	ExitsRemaining int    `json:"exits_remaining"`
}

type TrackRequest struct {
	WorkerID  int        `json:"worker_id" form:"worker_id"`
	Latitude  float64    `json:"latitude" form:"latitude"`
	Longitude float64    `json:"longitude" form:"longitude"`
	At        *time.Time `json:"-"`
}

// Track statuses reported back to the device.
const (
	TrackResumed     = "RESUMED"
	TrackPaused      = "PAUSED"
	TrackUnchanged   = "UNCHANGED"
	TrackBreakActive = "BREAK_ACTIVE"
)

type TrackResponse struct {
	AttendanceID          int     `json:"attendance_id"`
	IsInside              bool    `json:"is_inside"`
	Status                string  `json:"status"`
	DistanceMeters        float64 `json:"distance_meters"`
	WorkedSoFar           string  `json:"worked_so_far"`
	ExitsRemaining        int     `json:"exits_remaining"`
	Blacklisted           bool    `json:"blacklisted"`
	BreakEndsAt           string  `json:"break_ends_at,omitempty"`
	BreakRemainingMinutes int     `json:"break_remaining_minutes,omitempty"`
}

// Live statuses for the worker dashboard.
const (
	LiveWorking  = "WORKING"
	LiveOnBreak  = "ON_BREAK"
	LiveInactive = "INACTIVE"
)

type LiveStatusResponse struct {
	Status         string     `json:"status"`
	WorkHoursToday string     `json:"work_hours_today"`
	EstimatedWages float64    `json:"estimated_wages"`
	SessionStart   *time.Time `json:"session_start,omitempty"`
}

type Filter struct {
	Limit     *int
	Offset    *int
	Page      *int
	Search    *string
	ProjectID *int
	Status    *string
	Date      *string
}

type GetListResponse struct {
	ID            int        `json:"id"`
	WorkerID      *int       `json:"worker_id"`
	EmployeeID    *string    `json:"employee_id"`
	Fullname      *string    `json:"full_name"`
	ProjectID     *int       `json:"project_id"`
	Project       *string    `json:"project"`
	WorkDay       *date.Date `json:"work_day"`
	Status        *string    `json:"status"`
	WorkedMinutes *int       `json:"worked_minutes"`
	ExitCount     *int       `json:"exit_count"`
	TotalHours    string     `json:"total_hours"`
}

type GetDetailByIdResponse struct {
	ID            int              `json:"id"`
	WorkerID      *int             `json:"worker_id"`
	EmployeeID    *string          `json:"employee_id"`
	Fullname      *string          `json:"full_name"`
	ProjectID     *int             `json:"project_id"`
	Project       *string          `json:"project"`
	WorkDay       *date.Date       `json:"work_day"`
	Status        *string          `json:"status"`
	Breach        *bool            `json:"breach"`
	ExitCount     *int             `json:"exit_count"`
	Origin        *string          `json:"origin"`
	WorkedMinutes *int             `json:"worked_minutes"`
	TotalHours    string           `json:"total_hours"`
	Sessions      []SessionSummary `json:"sessions"`
}

type SessionSummary struct {
	bun.BaseModel `bun:"table:attendance_sessions,alias:s"`

	ID            int        `json:"id" bun:"id"`
	CheckInTime   time.Time  `json:"check_in_time" bun:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time" bun:"check_out_time"`
	WorkedMinutes int        `json:"worked_minutes" bun:"worked_minutes"`
}
