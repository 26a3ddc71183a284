package wage

import (
	"context"

	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/repository/postgres/wage"
)

type Wage interface {
	GetList(ctx context.Context, filter wage.Filter) ([]wage.GetListResponse, int, error)
	RecomputeDetail(ctx context.Context, attendanceID int) (wage.RecomputeResponse, error)
	UpsertRate(ctx context.Context, request wage.RateRequest) (entity.WageRate, error)
}
