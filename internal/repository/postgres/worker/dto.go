package worker

type Filter struct {
	Limit    *int
	Offset   *int
	Page     *int
	Search   *string
	Skill    *string
	Category *string
}

type SignInRequest struct {
	EmployeeID string `json:"employee_id" form:"employee_id"`
	Password   string `json:"password" form:"password"`
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type CreateRequest struct {
	EmployeeID    *string  `json:"employee_id" form:"employee_id"`
	FullName      *string  `json:"full_name" form:"full_name"`
	Password      *string  `json:"password" form:"password"`
	Role          *string  `json:"role" form:"role"`
	Skill         *string  `json:"skill" form:"skill"`
	Category      *string  `json:"category" form:"category"`
	Phone         *string  `json:"phone" form:"phone"`
	HomeLatitude  *float64 `json:"home_latitude" form:"home_latitude"`
	HomeLongitude *float64 `json:"home_longitude" form:"home_longitude"`
	TravelRadius  *float64 `json:"travel_radius" form:"travel_radius"`
}

type UpdateRequest struct {
	ID            int      `json:"id" form:"id"`
	FullName      *string  `json:"full_name" form:"full_name"`
	Password      *string  `json:"password" form:"password"`
	Role          *string  `json:"role" form:"role"`
	Skill         *string  `json:"skill" form:"skill"`
	Category      *string  `json:"category" form:"category"`
	Phone         *string  `json:"phone" form:"phone"`
	HomeLatitude  *float64 `json:"home_latitude" form:"home_latitude"`
	HomeLongitude *float64 `json:"home_longitude" form:"home_longitude"`
	TravelRadius  *float64 `json:"travel_radius" form:"travel_radius"`
}

type GetListResponse struct {
	ID         int     `json:"id"`
	EmployeeID *string `json:"employee_id"`
	FullName   *string `json:"full_name"`
	Role       *string `json:"role"`
	Skill      *string `json:"skill"`
	Category   *string `json:"category"`
	Phone      *string `json:"phone"`
}
