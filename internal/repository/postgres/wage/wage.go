// Package wage derives payable amounts from closed attendance sessions.
package wage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/pkg/repository/postgresql"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// computeWage turns closed-session minutes and an hourly rate into payable
// hours and a total, both rounded to two decimals.
func computeWage(minutes int, rate float64) (hours, total float64) {
	hours = math.Round(float64(minutes)/60*100) / 100
	total = math.Round(hours*rate*100) / 100
	return hours, total
}

// Recompute refreshes the wage record of an attendance record from its
// closed sessions. It is idempotent: the same closed-session set always
// produces the same wage record. A missing rate row is a configuration gap,
// reported via pending, never an error.
func (r *Repository) Recompute(ctx context.Context, attendanceID int) (pending bool, err error) {
	var record entity.AttendanceRecord
	err = r.IDB(ctx).NewSelect().Model(&record).
		Where("id = ? AND deleted_at IS NULL", attendanceID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, web.NewRequestError(errors.New("attendance record not found"), http.StatusNotFound)
	}
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}
	if record.WorkerID == nil || record.ProjectID == nil {
		return false, web.NewRequestError(errors.New("attendance record is incomplete"), http.StatusInternalServerError)
	}

	var worker entity.Worker
	err = r.IDB(ctx).NewSelect().Model(&worker).
		Where("id = ? AND deleted_at IS NULL", *record.WorkerID).
		Scan(ctx)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "selecting worker"), http.StatusInternalServerError)
	}
	if worker.Skill == nil || worker.Category == nil {
		return true, nil
	}

	rate, found, err := r.hourlyRate(ctx, *record.ProjectID, *worker.Skill, *worker.Category)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}

	var minutes int
	err = r.IDB(ctx).NewSelect().
		ColumnExpr("COALESCE(SUM(worked_minutes), 0)").
		Table("attendance_sessions").
		Where("attendance_id = ? AND check_out_time IS NOT NULL AND deleted_at IS NULL", attendanceID).
		Scan(ctx, &minutes)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "summing closed sessions"), http.StatusInternalServerError)
	}

	hours, total := computeWage(minutes, rate)
	now := time.Now()

	var existing entity.WageRecord
	err = r.IDB(ctx).NewSelect().Model(&existing).
		Where("attendance_id = ? AND deleted_at IS NULL", attendanceID).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		wageRecord := entity.WageRecord{
			AttendanceID: &attendanceID,
			HourlyRate:   rate,
			WorkedHours:  hours,
			Total:        total,
			Status:       entity.WagePending,
		}
		wageRecord.CreatedAt = &now
		if _, err := r.IDB(ctx).NewInsert().Model(&wageRecord).Exec(ctx); err != nil {
			return false, web.NewRequestError(errors.Wrap(err, "creating wage record"), http.StatusInternalServerError)
		}
	case err != nil:
		return false, web.NewRequestError(errors.Wrap(err, "selecting wage record"), http.StatusInternalServerError)
	default:
		// Approval status is owned by the review workflow; only the
		// derived figures are refreshed here.
		q := r.IDB(ctx).NewUpdate().Table("wage_records").Where("deleted_at IS NULL AND id = ?", existing.ID)
		q = q.Set("hourly_rate = ?", rate)
		q = q.Set("worked_hours = ?", hours)
		q = q.Set("total = ?", total)
		q = q.Set("updated_at = ?", now)
		if _, err := q.Exec(ctx); err != nil {
			return false, web.NewRequestError(errors.Wrap(err, "updating wage record"), http.StatusInternalServerError)
		}
	}

	return false, nil
}

// RecomputeDetail is the admin entry: recompute and report the result.
func (r *Repository) RecomputeDetail(ctx context.Context, attendanceID int) (RecomputeResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return RecomputeResponse{}, err
	}

	var response RecomputeResponse
	response.AttendanceID = attendanceID

	err = r.RunInTx(ctx, func(ctx context.Context) error {
		pending, err := r.Recompute(ctx, attendanceID)
		if err != nil {
			return err
		}
		response.RatePending = pending
		if pending {
			return nil
		}

		var wageRecord entity.WageRecord
		err = r.IDB(ctx).NewSelect().Model(&wageRecord).
			Where("attendance_id = ? AND deleted_at IS NULL", attendanceID).
			Scan(ctx)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "selecting wage record"), http.StatusInternalServerError)
		}

		response.WorkedHours = wageRecord.WorkedHours
		response.HourlyRate = wageRecord.HourlyRate
		response.Total = wageRecord.Total
		response.Status = wageRecord.Status
		return nil
	})
	if err != nil {
		return RecomputeResponse{}, err
	}

	return response, nil
}

// GetList is the admin wage sheet, also the export source.
func (r *Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleDashboard)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			g.deleted_at IS NULL
		`

	if filter.ProjectID != nil {
		whereQuery += fmt.Sprintf(` AND a.project_id = %d`, *filter.ProjectID)
	}
	if filter.Status != nil {
		status := strings.Replace(*filter.Status, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND g.status = '%s'`, status)
	}
	if filter.Date != nil {
		day, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", day.Format("2006-01-02"))
	}

	orderQuery := "ORDER BY g.created_at desc"

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
			g.id,
			g.attendance_id,
			w.employee_id,
			w.full_name,
			p.name,
			a.work_day,
			g.hourly_rate,
			g.worked_hours,
			g.total,
			g.status
		FROM wage_records g
		LEFT JOIN attendance_records a ON g.attendance_id = a.id
		LEFT JOIN workers w ON a.worker_id = w.id
		LEFT JOIN projects p ON a.project_id = p.id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting wage list"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		var workDayString *string

		if err = rows.Scan(
			&detail.ID,
			&detail.AttendanceID,
			&detail.EmployeeID,
			&detail.Fullname,
			&detail.Project,
			&workDayString,
			&detail.HourlyRate,
			&detail.WorkedHours,
			&detail.Total,
			&detail.Status,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning wage list"), http.StatusBadRequest)
		}

		if workDayString != nil {
			workDay, err := date.ParseDate(*workDayString)
			if err != nil {
				return nil, 0, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
			}
			detail.WorkDay = &workDay
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(g.id)
		FROM wage_records g
		LEFT JOIN attendance_records a ON g.attendance_id = a.id
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning wage count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// UpsertRate maintains the rate table. Rates are looked up, never mutated,
// by the attendance and wage paths.
func (r *Repository) UpsertRate(ctx context.Context, request RateRequest) (entity.WageRate, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return entity.WageRate{}, err
	}

	if err := r.ValidateStruct(&request, "ProjectID", "Skill", "Category", "HourlyRate"); err != nil {
		return entity.WageRate{}, err
	}

	now := time.Now()

	var existing entity.WageRate
	err = r.NewSelect().Model(&existing).
		Where("project_id = ? AND skill = ? AND category = ? AND deleted_at IS NULL", request.ProjectID, request.Skill, request.Category).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		rate := entity.WageRate{
			ProjectID:  &request.ProjectID,
			Skill:      &request.Skill,
			Category:   &request.Category,
			HourlyRate: &request.HourlyRate,
		}
		rate.CreatedAt = &now
		rate.CreatedBy = &claims.UserId
		if _, err := r.NewInsert().Model(&rate).Returning("id").Exec(ctx); err != nil {
			return entity.WageRate{}, web.NewRequestError(errors.Wrap(err, "creating wage rate"), http.StatusBadRequest)
		}
		return rate, nil
	case err != nil:
		return entity.WageRate{}, web.NewRequestError(errors.Wrap(err, "selecting wage rate"), http.StatusInternalServerError)
	default:
		q := r.NewUpdate().Table("wage_rates").Where("deleted_at IS NULL AND id = ?", existing.ID)
		q.Set("hourly_rate = ?", request.HourlyRate)
		q.Set("updated_at = ?", now)
		q.Set("updated_by = ?", claims.UserId)
		if _, err := q.Exec(ctx); err != nil {
			return entity.WageRate{}, web.NewRequestError(errors.Wrap(err, "updating wage rate"), http.StatusBadRequest)
		}
		existing.HourlyRate = &request.HourlyRate
		return existing, nil
	}
}

func (r *Repository) hourlyRate(ctx context.Context, projectID int, skill, category string) (float64, bool, error) {
	var rate entity.WageRate
	err := r.IDB(ctx).NewSelect().Model(&rate).
		Where("project_id = ? AND skill = ? AND category = ? AND deleted_at IS NULL", projectID, skill, category).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, web.NewRequestError(errors.Wrap(err, "selecting wage rate"), http.StatusInternalServerError)
	}
	if rate.HourlyRate == nil {
		return 0, false, nil
	}
	return *rate.HourlyRate, true, nil
}
