package entity

import (
	"github.com/uptrace/bun"
)

type Project struct {
	bun.BaseModel `bun:"table:projects"`

	BasicEntity
	OrganizationID   *int     `json:"organization_id" bun:"organization_id"`
	Name             *string  `json:"name" bun:"name"`
	Latitude         *float64 `json:"latitude" bun:"latitude"`
	Longitude        *float64 `json:"longitude" bun:"longitude"`
	RadiusMeters     *float64 `json:"radius_meters" bun:"radius_meters"`
	ShiftStart       *string  `json:"shift_start" bun:"shift_start"`
	ShiftEnd         *string  `json:"shift_end" bun:"shift_end"`
	MaxAllowedExits  *int     `json:"max_allowed_exits" bun:"max_allowed_exits"`
	CategoryCapacity *int     `json:"category_capacity" bun:"category_capacity"`
	Photo            *string  `json:"photo" bun:"photo"`
}

type ProjectBreak struct {
	bun.BaseModel `bun:"table:project_breaks"`

	BasicEntity
	ProjectID *int    `json:"project_id" bun:"project_id"`
	StartTime *string `json:"start_time" bun:"start_time"`
	EndTime   *string `json:"end_time" bun:"end_time"`
	Reason    *string `json:"reason" bun:"reason"`
}

// Membership statuses for project participation.
const (
	MemberPending  = "PENDING"
	MemberApproved = "APPROVED"
	MemberRejected = "REJECTED"
)

type ProjectMember struct {
	bun.BaseModel `bun:"table:project_members"`

	BasicEntity
	ProjectID *int    `json:"project_id" bun:"project_id"`
	WorkerID  *int    `json:"worker_id" bun:"worker_id"`
	Status    *string `json:"status" bun:"status"`
}
