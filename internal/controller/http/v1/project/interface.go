package project

import (
	"context"

	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/repository/postgres/project"
)

type Project interface {
	GetById(ctx context.Context, id int) (entity.Project, error)
	GetList(ctx context.Context, filter project.Filter) ([]project.GetListResponse, int, error)
	Create(ctx context.Context, request project.CreateRequest) (entity.Project, error)
	UpdateColumns(ctx context.Context, request project.UpdateRequest) error
	Delete(ctx context.Context, id int) error
	CreateBreak(ctx context.Context, request project.BreakRequest) (entity.ProjectBreak, error)
	GetBreaks(ctx context.Context, projectID int) ([]entity.ProjectBreak, error)
	DeleteBreak(ctx context.Context, id int) error
	UpsertMember(ctx context.Context, request project.MemberRequest) error
	GetBadgeData(ctx context.Context, id int) (project.BadgeData, error)
}
