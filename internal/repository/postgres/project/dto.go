package project

import "mime/multipart"

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type CreateRequest struct {
	OrganizationID   *int     `json:"organization_id" form:"organization_id"`
	Name             *string  `json:"name" form:"name"`
	Latitude         *float64 `json:"latitude" form:"latitude"`
	Longitude        *float64 `json:"longitude" form:"longitude"`
	RadiusMeters     *float64 `json:"radius_meters" form:"radius_meters"`
	ShiftStart       *string  `json:"shift_start" form:"shift_start"`
	ShiftEnd         *string  `json:"shift_end" form:"shift_end"`
	MaxAllowedExits  *int     `json:"max_allowed_exits" form:"max_allowed_exits"`
	CategoryCapacity *int     `json:"category_capacity" form:"category_capacity"`

	Photo     *multipart.FileHeader `json:"-" form:"photo"`
	PhotoPath string                `json:"-" form:"-"`
}

type UpdateRequest struct {
	ID               int      `json:"id" form:"id"`
	Name             *string  `json:"name" form:"name"`
	Latitude         *float64 `json:"latitude" form:"latitude"`
	Longitude        *float64 `json:"longitude" form:"longitude"`
	RadiusMeters     *float64 `json:"radius_meters" form:"radius_meters"`
	ShiftStart       *string  `json:"shift_start" form:"shift_start"`
	ShiftEnd         *string  `json:"shift_end" form:"shift_end"`
	MaxAllowedExits  *int     `json:"max_allowed_exits" form:"max_allowed_exits"`
	CategoryCapacity *int     `json:"category_capacity" form:"category_capacity"`

	Photo     *multipart.FileHeader `json:"-" form:"photo"`
	PhotoPath string                `json:"-" form:"-"`
}

type GetListResponse struct {
	ID               int      `json:"id"`
	OrganizationID   *int     `json:"organization_id"`
	Name             *string  `json:"name"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	RadiusMeters     *float64 `json:"radius_meters"`
	ShiftStart       *string  `json:"shift_start"`
	ShiftEnd         *string  `json:"shift_end"`
	MemberCount      int      `json:"member_count"`
	MaxAllowedExits  *int     `json:"max_allowed_exits"`
	CategoryCapacity *int     `json:"category_capacity"`
}

type BreakRequest struct {
	ProjectID int     `json:"project_id" form:"project_id"`
	StartTime *string `json:"start_time" form:"start_time"`
	EndTime   *string `json:"end_time" form:"end_time"`
	Reason    *string `json:"reason" form:"reason"`
}

type MemberRequest struct {
	ProjectID int    `json:"project_id" form:"project_id"`
	WorkerID  int    `json:"worker_id" form:"worker_id"`
	Status    string `json:"status" form:"status"`
}

// BadgeData feeds the printable site badge.
type BadgeData struct {
	ProjectID    int
	Name         string
	Reference    string
	RadiusMeters float64
}
