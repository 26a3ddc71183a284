package project

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/pkg/repository/postgresql"
	"sitetrack/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r *Repository) GetById(ctx context.Context, id int) (entity.Project, error) {
	var detail entity.Project

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Project{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Project{}, web.NewRequestError(errors.Wrap(err, "selecting project"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r *Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			p.deleted_at IS NULL
		`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND p.name ilike '%s'`, "%"+search+"%")
	}

	orderQuery := "ORDER BY p.created_at desc"

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	var limitQuery, offsetQuery string
	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			p.id,
			p.organization_id,
			p.name,
			p.latitude,
			p.longitude,
			p.radius_meters,
			p.shift_start,
			p.shift_end,
			p.max_allowed_exits,
			p.category_capacity,
			(SELECT count(m.id) FROM project_members m WHERE m.project_id = p.id AND m.status = 'APPROVED' AND m.deleted_at IS NULL)
		FROM projects p
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting project list"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.OrganizationID,
			&detail.Name,
			&detail.Latitude,
			&detail.Longitude,
			&detail.RadiusMeters,
			&detail.ShiftStart,
			&detail.ShiftEnd,
			&detail.MaxAllowedExits,
			&detail.CategoryCapacity,
			&detail.MemberCount,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning project list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(p.id)
		FROM projects p
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning project count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r *Repository) Create(ctx context.Context, request CreateRequest) (entity.Project, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return entity.Project{}, err
	}

	if err := r.ValidateStruct(&request, "Name", "Latitude", "Longitude", "RadiusMeters"); err != nil {
		return entity.Project{}, err
	}

	now := time.Now()
	detail := entity.Project{
		OrganizationID:   request.OrganizationID,
		Name:             request.Name,
		Latitude:         request.Latitude,
		Longitude:        request.Longitude,
		RadiusMeters:     request.RadiusMeters,
		ShiftStart:       request.ShiftStart,
		ShiftEnd:         request.ShiftEnd,
		MaxAllowedExits:  request.MaxAllowedExits,
		CategoryCapacity: request.CategoryCapacity,
	}
	if request.PhotoPath != "" {
		detail.Photo = &request.PhotoPath
	}
	detail.CreatedAt = &now
	detail.CreatedBy = &claims.UserId

	_, err = r.NewInsert().Model(&detail).Returning("id").Exec(ctx)
	if err != nil {
		return entity.Project{}, web.NewRequestError(errors.Wrap(err, "creating project"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r *Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("projects").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", *request.Name)
	}
	if request.Latitude != nil {
		q.Set("latitude = ?", *request.Latitude)
	}
	if request.Longitude != nil {
		q.Set("longitude = ?", *request.Longitude)
	}
	if request.RadiusMeters != nil {
		q.Set("radius_meters = ?", *request.RadiusMeters)
	}
	if request.ShiftStart != nil {
		q.Set("shift_start = ?", *request.ShiftStart)
	}
	if request.ShiftEnd != nil {
		q.Set("shift_end = ?", *request.ShiftEnd)
	}
	if request.MaxAllowedExits != nil {
		q.Set("max_allowed_exits = ?", *request.MaxAllowedExits)
	}
	if request.CategoryCapacity != nil {
		q.Set("category_capacity = ?", *request.CategoryCapacity)
	}
	if request.PhotoPath != "" {
		q.Set("photo = ?", request.PhotoPath)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating project"), http.StatusBadRequest)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "projects", id)
}

func (r *Repository) CreateBreak(ctx context.Context, request BreakRequest) (entity.ProjectBreak, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return entity.ProjectBreak{}, err
	}

	if err := r.ValidateStruct(&request, "ProjectID", "StartTime", "EndTime"); err != nil {
		return entity.ProjectBreak{}, err
	}

	now := time.Now()
	detail := entity.ProjectBreak{
		ProjectID: &request.ProjectID,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Reason:    request.Reason,
	}
	detail.CreatedAt = &now
	detail.CreatedBy = &claims.UserId

	_, err = r.NewInsert().Model(&detail).Returning("id").Exec(ctx)
	if err != nil {
		return entity.ProjectBreak{}, web.NewRequestError(errors.Wrap(err, "creating project break"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r *Repository) GetBreaks(ctx context.Context, projectID int) ([]entity.ProjectBreak, error) {
	var breaks []entity.ProjectBreak
	err := r.NewSelect().Model(&breaks).
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Order("start_time ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting project breaks"), http.StatusInternalServerError)
	}
	return breaks, nil
}

func (r *Repository) DeleteBreak(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "project_breaks", id)
}

// UpsertMember sets a worker's membership status on a project.
func (r *Repository) UpsertMember(ctx context.Context, request MemberRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ProjectID", "WorkerID", "Status"); err != nil {
		return err
	}

	now := time.Now()

	var existing entity.ProjectMember
	err = r.NewSelect().Model(&existing).
		Where("project_id = ? AND worker_id = ? AND deleted_at IS NULL", request.ProjectID, request.WorkerID).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		member := entity.ProjectMember{
			ProjectID: &request.ProjectID,
			WorkerID:  &request.WorkerID,
			Status:    &request.Status,
		}
		member.CreatedAt = &now
		member.CreatedBy = &claims.UserId
		if _, err := r.NewInsert().Model(&member).Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "creating project member"), http.StatusBadRequest)
		}
	case err != nil:
		return web.NewRequestError(errors.Wrap(err, "selecting project member"), http.StatusInternalServerError)
	default:
		q := r.NewUpdate().Table("project_members").Where("deleted_at IS NULL AND id = ?", existing.ID)
		q.Set("status = ?", request.Status)
		q.Set("updated_at = ?", now)
		q.Set("updated_by = ?", claims.UserId)
		if _, err := q.Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "updating project member"), http.StatusBadRequest)
		}
	}

	return nil
}

// GetBadgeData assembles what the printable site badge needs.
func (r *Repository) GetBadgeData(ctx context.Context, id int) (BadgeData, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return BadgeData{}, err
	}

	detail, err := r.GetById(ctx, id)
	if err != nil {
		return BadgeData{}, err
	}

	data := BadgeData{ProjectID: detail.ID}
	if detail.Name != nil {
		data.Name = *detail.Name
	}
	if detail.RadiusMeters != nil {
		data.RadiusMeters = *detail.RadiusMeters
	}
	data.Reference = fmt.Sprintf("sitetrack://project/%d", detail.ID)

	return data, nil
}
