package authentication

import (
	"context"

	"sitetrack/backend/internal/entity"
)

type Worker interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (entity.Worker, error)
}
