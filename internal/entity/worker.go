package entity

import (
	"github.com/uptrace/bun"
)

type Worker struct {
	bun.BaseModel `bun:"table:workers"`

	BasicEntity
	EmployeeID    *string  `json:"employee_id" bun:"employee_id"`
	FullName      *string  `json:"full_name" bun:"full_name"`
	Password      *string  `json:"-" bun:"password"`
	Role          *string  `json:"role" bun:"role"`
	Skill         *string  `json:"skill" bun:"skill"`
	Category      *string  `json:"category" bun:"category"`
	Phone         *string  `json:"phone" bun:"phone"`
	HomeLatitude  *float64 `json:"home_latitude" bun:"home_latitude"`
	HomeLongitude *float64 `json:"home_longitude" bun:"home_longitude"`
	TravelRadius  *float64 `json:"travel_radius" bun:"travel_radius"`
}
