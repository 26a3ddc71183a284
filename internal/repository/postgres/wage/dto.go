package wage

import (
	"github.com/Azure/go-autorest/autorest/date"
)

type Filter struct {
	Limit     *int
	Offset    *int
	Page      *int
	ProjectID *int
	Status    *string
	Date      *string
}

type GetListResponse struct {
	ID           int        `json:"id"`
	AttendanceID *int       `json:"attendance_id"`
	EmployeeID   *string    `json:"employee_id"`
	Fullname     *string    `json:"full_name"`
	Project      *string    `json:"project"`
	WorkDay      *date.Date `json:"work_day"`
	HourlyRate   float64    `json:"hourly_rate"`
	WorkedHours  float64    `json:"worked_hours"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
}

type RateRequest struct {
	ProjectID  int     `json:"project_id" form:"project_id"`
	Skill      string  `json:"skill" form:"skill"`
	Category   string  `json:"category" form:"category"`
	HourlyRate float64 `json:"hourly_rate" form:"hourly_rate"`
}

type RecomputeResponse struct {
	AttendanceID int     `json:"attendance_id"`
	WorkedHours  float64 `json:"worked_hours"`
	HourlyRate   float64 `json:"hourly_rate"`
	Total        float64 `json:"total"`
	Status       string  `json:"status"`
	RatePending  bool    `json:"rate_pending"`
}
