package worker

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
	"golang.org/x/crypto/bcrypt"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r *Repository) GetByEmployeeID(ctx context.Context, employeeID string) (entity.Worker, error) {
	var detail entity.Worker

	err := r.NewSelect().Model(&detail).
		Where("employee_id = ? AND deleted_at IS NULL", employeeID).
		Scan(ctx)
	if err != nil {
		return entity.Worker{}, &web.Error{
			Err:    errors.New("worker not found"),
			Status: http.StatusUnauthorized,
		}
	}

	return detail, nil
}

func (r *Repository) GetById(ctx context.Context, id int) (entity.Worker, error) {
	var detail entity.Worker

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Worker{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Worker{}, web.NewRequestError(errors.Wrap(err, "selecting worker"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r *Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleDashboard)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			w.deleted_at IS NULL
		`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND (w.employee_id ilike '%s' OR w.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.Skill != nil {
		skill := strings.Replace(*filter.Skill, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND w.skill = '%s'`, skill)
	}
	if filter.Category != nil {
		category := strings.Replace(*filter.Category, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND w.category = '%s'`, category)
	}

	orderQuery := "ORDER BY w.created_at desc"

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
			w.id,
			w.employee_id,
			w.full_name,
			w.role,
			w.skill,
			w.category,
			w.phone
		FROM workers w
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting worker list"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.EmployeeID,
			&detail.FullName,
			&detail.Role,
			&detail.Skill,
			&detail.Category,
			&detail.Phone,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning worker list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(w.id)
		FROM workers w
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning worker count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r *Repository) Create(ctx context.Context, request CreateRequest) (entity.Worker, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return entity.Worker{}, err
	}

	if err := r.ValidateStruct(&request, "EmployeeID", "FullName", "Password", "Role"); err != nil {
		return entity.Worker{}, err
	}

	exists, err := r.NewSelect().Model((*entity.Worker)(nil)).
		Where("employee_id = ? AND deleted_at IS NULL", *request.EmployeeID).
		Exists(ctx)
	if err != nil {
		return entity.Worker{}, web.NewRequestError(errors.Wrap(err, "checking employee id"), http.StatusInternalServerError)
	}
	if exists {
		return entity.Worker{}, web.NewRequestError(postgres.ErrAlreadyExists, http.StatusConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return entity.Worker{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashed := string(hash)

	now := time.Now()
	detail := entity.Worker{
		EmployeeID:    request.EmployeeID,
		FullName:      request.FullName,
		Password:      &hashed,
		Role:          request.Role,
		Skill:         request.Skill,
		Category:      request.Category,
		Phone:         request.Phone,
		HomeLatitude:  request.HomeLatitude,
		HomeLongitude: request.HomeLongitude,
		TravelRadius:  request.TravelRadius,
	}
	detail.CreatedAt = &now
	detail.CreatedBy = &claims.UserId

	_, err = r.NewInsert().Model(&detail).Returning("id").Exec(ctx)
	if err != nil {
		return entity.Worker{}, web.NewRequestError(errors.Wrap(err, "creating worker"), http.StatusBadRequest)
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

	q := r.NewUpdate().Table("workers").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.FullName != nil {
		q.Set("full_name = ?", *request.FullName)
	}
	if request.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}
	if request.Role != nil {
		q.Set("role = ?", *request.Role)
	}
	if request.Skill != nil {
		q.Set("skill = ?", *request.Skill)
	}
	if request.Category != nil {
		q.Set("category = ?", *request.Category)
	}
	if request.Phone != nil {
		q.Set("phone = ?", *request.Phone)
	}
	if request.HomeLatitude != nil {
		q.Set("home_latitude = ?", *request.HomeLatitude)
	}
	if request.HomeLongitude != nil {
		q.Set("home_longitude = ?", *request.HomeLongitude)
	}
	if request.TravelRadius != nil {
		q.Set("travel_radius = ?", *request.TravelRadius)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating worker"), http.StatusBadRequest)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "workers", id)
}
