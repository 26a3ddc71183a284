package attendance

import (
	"context"

	"sitetrack/backend/internal/repository/postgres/attendance"
)

type Attendance interface {
	CheckIn(ctx context.Context, request attendance.CheckInRequest) (attendance.CheckInResponse, error)
	CheckOut(ctx context.Context, request attendance.CheckOutRequest) (attendance.CheckOutResponse, error)
	TrackLocation(ctx context.Context, request attendance.TrackRequest) (attendance.TrackResponse, error)
	GetLiveStatus(ctx context.Context, workerID int) (attendance.LiveStatusResponse, error)
	GetList(ctx context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (attendance.GetDetailByIdResponse, error)
}
