package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/pkg/config"
	"sitetrack/backend/internal/pkg/geofence"
	"sitetrack/backend/internal/pkg/repository/postgresql"
	"sitetrack/backend/internal/repository/postgres"
	"sitetrack/backend/internal/service/audit"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// WageEngine keeps the wage record of an attendance record consistent with
// its closed sessions. pending is true when no rate is configured for the
// worker's skill/category: attendance proceeds, the wage is deferred.
type WageEngine interface {
	Recompute(ctx context.Context, attendanceID int) (pending bool, err error)
}

const liveStatusTTL = 30 * time.Second

type Repository struct {
	*postgresql.Database

	policy config.Policy
	cache  *redis.Client
	audit  audit.Recorder
	wages  WageEngine
}

func NewRepository(database *postgresql.Database, policy config.Policy, cache *redis.Client, recorder audit.Recorder, wages WageEngine) *Repository {
	return &Repository{
		Database: database,
		policy:   policy,
		cache:    cache,
		audit:    recorder,
		wages:    wages,
	}
}

// CheckIn opens the worker's day on a project: guards, record creation,
// first session, wage seed. One transaction, record row locked.
func (r *Repository) CheckIn(ctx context.Context, request CheckInRequest) (CheckInResponse, error) {
	if err := r.ValidateStruct(&request, "WorkerID", "ProjectID"); err != nil {
		return CheckInResponse{}, err
	}

	now := effectiveTime(request.At, time.Now())
	workDay := now.Format("2006-01-02")
	if request.Origin == "" {
		request.Origin = entity.OriginAutomatic
	}

	var response CheckInResponse

	err := r.RunInTx(ctx, func(ctx context.Context) error {
		worker, err := r.loadWorker(ctx, request.WorkerID)
		if err != nil {
			return err
		}

		project, err := r.loadProject(ctx, request.ProjectID)
		if err != nil {
			return err
		}

		if project.OrganizationID != nil {
			entry, err := r.activeBlacklist(ctx, *project.OrganizationID, request.WorkerID, now)
			if err != nil {
				return err
			}
			if entry != nil {
				return web.NewRejection(errors.New("worker is blacklisted"), http.StatusUnprocessableEntity, ReasonBlacklisted, map[string]interface{}{
					"remaining_hours": int(math.Ceil(entry.ExpiresAt.Sub(now).Hours())),
				})
			}
		}

		member, err := r.isApprovedMember(ctx, request.WorkerID, request.ProjectID)
		if err != nil {
			return err
		}
		if !member {
			return web.NewRejection(errors.New("worker is not an approved project member"), http.StatusUnprocessableEntity, ReasonNotMember, nil)
		}

		if err := r.checkCategoryCapacity(ctx, project, worker, workDay); err != nil {
			return err
		}

		fence, err := projectFence(project)
		if err != nil {
			return err
		}
		verdict := geofence.Evaluate(fence, request.Latitude, request.Longitude)
		if !verdict.Inside {
			return web.NewRejection(errors.New("coordinate is outside the project geofence"), http.StatusUnprocessableEntity, ReasonGeofenceOut, map[string]interface{}{
				"distance_meters": math.Round(verdict.DistanceMeters),
				"radius_meters":   fence.RadiusMeters,
			})
		}

		if !pastDayStart(r.policy.DayStartThreshold, now) {
			return web.NewRejection(errors.New("check-in before the daily start threshold"), http.StatusUnprocessableEntity, ReasonTooEarly, map[string]interface{}{
				"starts_at": r.policy.DayStartThreshold,
			})
		}

		breaks, err := r.loadBreaks(ctx, request.ProjectID)
		if err != nil {
			return err
		}
		if bs := activeBreak(breaks, now); bs != nil {
			return web.NewRejection(errors.New("a project break window is active"), http.StatusUnprocessableEntity, ReasonBreakActive, map[string]interface{}{
				"ends_at":           bs.EndsAt,
				"remaining_minutes": bs.RemainingMinutes,
			})
		}

		record, err := r.recordForUpdate(ctx, request.WorkerID, request.ProjectID, workDay)
		if err != nil {
			return err
		}

		firstSession := false
		if record == nil {
			maxExits := r.policy.MaxAllowedExits
			if project.MaxAllowedExits != nil && *project.MaxAllowedExits > 0 {
				maxExits = *project.MaxAllowedExits
			}

			record = &entity.AttendanceRecord{
				WorkerID:        &request.WorkerID,
				ProjectID:       &request.ProjectID,
				WorkDay:         workDay,
				Status:          entity.AttendanceActive,
				MaxAllowedExits: maxExits,
				Origin:          request.Origin,
			}
			record.CreatedAt = &now
			record.CreatedBy = &request.WorkerID

			if _, err := r.IDB(ctx).NewInsert().Model(record).Returning("id").Exec(ctx); err != nil {
				return web.NewRequestError(errors.Wrap(err, "creating attendance record"), http.StatusInternalServerError)
			}
			firstSession = true
		} else {
			if record.ClosedAt != nil {
				return web.NewRejection(errors.New("the day is already checked out"), http.StatusUnprocessableEntity, ReasonDayClosed, nil)
			}

			sessions, err := r.sessionsOf(ctx, record.ID)
			if err != nil {
				return err
			}
			if openSession(sessions) != nil {
				return web.NewRejection(errors.New("already checked in"), http.StatusConflict, ReasonAlreadyCheckedIn, nil)
			}
			if stale := staleEventTime(now, sessions); stale != nil {
				return web.NewRejection(errors.New("timestamp precedes the latest session event"), http.StatusUnprocessableEntity, ReasonOutOfOrder, map[string]interface{}{
					"last_event_at": stale.Format(time.RFC3339),
				})
			}
			firstSession = len(sessions) == 0
		}

		session := entity.AttendanceSession{
			AttendanceID: &record.ID,
			CheckInTime:  now,
		}
		session.CreatedAt = &now
		session.CreatedBy = &request.WorkerID
		if _, err := r.IDB(ctx).NewInsert().Model(&session).Returning("id").Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "opening attendance session"), http.StatusInternalServerError)
		}

		if err := r.refreshRecord(ctx, record, now, &request.Latitude, &request.Longitude, false); err != nil {
			return err
		}

		if firstSession {
			pending, err := r.wages.Recompute(ctx, record.ID)
			if err != nil {
				return err
			}
			response.WagePending = pending
		}

		response.AttendanceID = record.ID
		response.SessionID = session.ID
		response.WorkDay = workDay
		response.CheckInTime = now.Format("15:04")

		return nil
	})
	if err != nil {
		return CheckInResponse{}, err
	}

	r.invalidateLive(ctx, request.WorkerID)
	r.audit.Record(ctx, entity.TransitionEvent{
		WorkerID:     &request.WorkerID,
		ProjectID:    &request.ProjectID,
		AttendanceID: &response.AttendanceID,
		EventType:    "CHECK_IN",
		Detail: map[string]interface{}{
			"session_id":   response.SessionID,
			"wage_pending": response.WagePending,
		},
	})

	return response, nil
}

// CheckOut closes the day: the open session if any, final worked minutes,
// terminal CLOSED status.
func (r *Repository) CheckOut(ctx context.Context, request CheckOutRequest) (CheckOutResponse, error) {
	if err := r.ValidateStruct(&request, "WorkerID"); err != nil {
		return CheckOutResponse{}, err
	}

	now := effectiveTime(request.At, time.Now())
	workDay := now.Format("2006-01-02")

	var response CheckOutResponse
	var projectID int

	err := r.RunInTx(ctx, func(ctx context.Context) error {
		record, err := r.todayRecordForUpdate(ctx, request.WorkerID, workDay)
		if err != nil {
			return err
		}
		if record == nil {
			return web.NewRejection(postgres.ErrNoOpenSession, http.StatusUnprocessableEntity, ReasonNoActiveSession, nil)
		}
		if record.ClosedAt != nil {
			return web.NewRejection(errors.New("the day is already checked out"), http.StatusConflict, ReasonDayClosed, nil)
		}
		if record.ProjectID != nil {
			projectID = *record.ProjectID
		}

		sessions, err := r.sessionsOf(ctx, record.ID)
		if err != nil {
			return err
		}
		if stale := staleEventTime(now, sessions); stale != nil {
			return web.NewRejection(errors.New("timestamp precedes the latest session event"), http.StatusUnprocessableEntity, ReasonOutOfOrder, map[string]interface{}{
				"last_event_at": stale.Format(time.RFC3339),
			})
		}

		if open := openSession(sessions); open != nil {
			if err := r.closeSession(ctx, open, now); err != nil {
				return err
			}
			response.SessionID = open.ID
		} else if n := len(sessions); n > 0 {
			response.SessionID = sessions[n-1].ID
		}

		record.ClosedAt = &now
		if err := r.refreshRecord(ctx, record, now, request.Latitude, request.Longitude, record.Breach); err != nil {
			return err
		}

		if _, err := r.wages.Recompute(ctx, record.ID); err != nil {
			return err
		}

		response.AttendanceID = record.ID
		response.TotalWorkHours = formatHours(record.WorkedMinutes)
		response.ExitsUsed = record.ExitCount
		response.ExitsRemaining = exitsRemaining(record.MaxAllowedExits, record.ExitCount)

		return nil
	})
	if err != nil {
		return CheckOutResponse{}, err
	}

	r.invalidateLive(ctx, request.WorkerID)
	r.audit.Record(ctx, entity.TransitionEvent{
		WorkerID:     &request.WorkerID,
		ProjectID:    &projectID,
		AttendanceID: &response.AttendanceID,
		EventType:    "CHECK_OUT",
		Detail: map[string]interface{}{
			"total_work_hours": response.TotalWorkHours,
			"exits_used":       response.ExitsUsed,
		},
	})

	return response, nil
}

// TrackLocation applies a live location ping: breach pause, fence resume,
// break freeze, or a plain position update.
func (r *Repository) TrackLocation(ctx context.Context, request TrackRequest) (TrackResponse, error) {
	if err := r.ValidateStruct(&request, "WorkerID"); err != nil {
		return TrackResponse{}, err
	}

	now := effectiveTime(request.At, time.Now())
	workDay := now.Format("2006-01-02")

	var response TrackResponse
	var rejection error
	var eventType string
	var projectID int

	err := r.RunInTx(ctx, func(ctx context.Context) error {
		record, err := r.todayRecordForUpdate(ctx, request.WorkerID, workDay)
		if err != nil {
			return err
		}
		if record == nil {
			return web.NewRejection(postgres.ErrNoOpenSession, http.StatusUnprocessableEntity, ReasonNoActiveSession, nil)
		}
		if record.ClosedAt != nil {
			return web.NewRejection(errors.New("the day is already checked out"), http.StatusUnprocessableEntity, ReasonDayClosed, nil)
		}
		if record.ProjectID == nil {
			return web.NewRequestError(errors.New("attendance record has no project"), http.StatusInternalServerError)
		}
		projectID = *record.ProjectID

		project, err := r.loadProject(ctx, projectID)
		if err != nil {
			return err
		}

		breaks, err := r.loadBreaks(ctx, projectID)
		if err != nil {
			return err
		}

		fence, err := projectFence(project)
		if err != nil {
			return err
		}
		verdict := geofence.Evaluate(fence, request.Latitude, request.Longitude)

		response.AttendanceID = record.ID
		response.IsInside = verdict.Inside
		response.DistanceMeters = math.Round(verdict.DistanceMeters)
		response.ExitsRemaining = exitsRemaining(record.MaxAllowedExits, record.ExitCount)

		// A break window freezes the state machine in place.
		if bs := activeBreak(breaks, now); bs != nil {
			response.Status = TrackBreakActive
			response.BreakEndsAt = bs.EndsAt
			response.BreakRemainingMinutes = bs.RemainingMinutes
			response.WorkedSoFar = formatHours(record.WorkedMinutes)
			eventType = "PING_BREAK"
			return nil
		}

		sessions, err := r.sessionsOf(ctx, record.ID)
		if err != nil {
			return err
		}
		if stale := staleEventTime(now, sessions); stale != nil {
			return web.NewRejection(errors.New("timestamp precedes the latest session event"), http.StatusUnprocessableEntity, ReasonOutOfOrder, map[string]interface{}{
				"last_event_at": stale.Format(time.RFC3339),
			})
		}
		open := openSession(sessions)

		switch {
		case open != nil && !verdict.Inside:
			// Fence breach: close the session, count the exit, pause.
			if err := r.closeSession(ctx, open, now); err != nil {
				return err
			}
			record.ExitCount++
			if err := r.refreshRecord(ctx, record, now, &request.Latitude, &request.Longitude, true); err != nil {
				return err
			}
			if _, err := r.wages.Recompute(ctx, record.ID); err != nil {
				return err
			}

			response.Status = TrackPaused
			response.WorkedSoFar = formatHours(record.WorkedMinutes)
			response.ExitsRemaining = exitsRemaining(record.MaxAllowedExits, record.ExitCount)
			eventType = "PAUSE"

		case open == nil && verdict.Inside:
			if record.ExitCount > record.MaxAllowedExits && r.policy.EnforceExitBlacklist {
				// Limit exceeded: bar the worker and refuse the resume.
				// The blacklist write bypasses the transaction and the
				// rejection is returned only after it commits, so the bar
				// survives both the live rollback and a sync batch rollback.
				if project.OrganizationID != nil {
					if err := r.addToBlacklist(ctx, *project.OrganizationID, request.WorkerID, now); err != nil {
						return err
					}
				}
				response.Blacklisted = true
				rejection = web.NewRejection(errors.New("exit limit exceeded"), http.StatusUnprocessableEntity, ReasonExitLimit, map[string]interface{}{
					"exits_used":        record.ExitCount,
					"max_allowed_exits": record.MaxAllowedExits,
					"blacklisted":       true,
				})
				eventType = "EXIT_LIMIT"
				return nil
			}

			session := entity.AttendanceSession{
				AttendanceID: &record.ID,
				CheckInTime:  now,
			}
			session.CreatedAt = &now
			session.CreatedBy = &request.WorkerID
			if _, err := r.IDB(ctx).NewInsert().Model(&session).Returning("id").Exec(ctx); err != nil {
				return web.NewRequestError(errors.Wrap(err, "reopening attendance session"), http.StatusInternalServerError)
			}
			if err := r.refreshRecord(ctx, record, now, &request.Latitude, &request.Longitude, false); err != nil {
				return err
			}

			response.Status = TrackResumed
			response.WorkedSoFar = formatHours(record.WorkedMinutes)
			eventType = "RESUME"

		default:
			// Inside while active, or still outside while paused.
			if err := r.refreshRecord(ctx, record, now, &request.Latitude, &request.Longitude, record.Breach); err != nil {
				return err
			}
			response.Status = TrackUnchanged
			response.WorkedSoFar = formatHours(record.WorkedMinutes)
			eventType = "PING"
		}

		return nil
	})
	if err != nil {
		return TrackResponse{}, err
	}

	r.invalidateLive(ctx, request.WorkerID)
	r.audit.Record(ctx, entity.TransitionEvent{
		WorkerID:     &request.WorkerID,
		ProjectID:    &projectID,
		AttendanceID: &response.AttendanceID,
		EventType:    eventType,
		Detail: map[string]interface{}{
			"is_inside":       response.IsInside,
			"status":          response.Status,
			"distance_meters": response.DistanceMeters,
			"exit_remaining":  response.ExitsRemaining,
		},
	})

	if rejection != nil {
		return TrackResponse{}, rejection
	}

	return response, nil
}

// GetLiveStatus reports the worker's current standing, cached briefly in
// redis because dashboards poll it.
func (r *Repository) GetLiveStatus(ctx context.Context, workerID int) (LiveStatusResponse, error) {
	key := liveStatusKey(workerID)
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, key).Result(); err == nil {
			var response LiveStatusResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	now := time.Now()
	workDay := now.Format("2006-01-02")

	var record entity.AttendanceRecord
	err := r.DB.NewSelect().Model(&record).
		Where("worker_id = ? AND work_day = ? AND deleted_at IS NULL", workerID, workDay).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return LiveStatusResponse{Status: LiveInactive, WorkHoursToday: formatHours(0)}, nil
	}
	if err != nil {
		return LiveStatusResponse{}, web.NewRequestError(errors.Wrap(err, "selecting today's attendance"), http.StatusInternalServerError)
	}

	sessions, err := r.sessionsOf(ctx, record.ID)
	if err != nil {
		return LiveStatusResponse{}, err
	}

	minutes := sumClosedMinutes(sessions)
	open := openSession(sessions)
	if open != nil {
		minutes += sessionMinutes(open.CheckInTime, now)
	}

	response := LiveStatusResponse{
		WorkHoursToday: formatHours(minutes),
	}

	switch {
	case record.ClosedAt != nil:
		response.Status = LiveInactive
	case open != nil:
		response.Status = LiveWorking
		response.SessionStart = &open.CheckInTime
	default:
		response.Status = LiveOnBreak
	}

	if record.ProjectID != nil && response.Status == LiveWorking {
		breaks, err := r.loadBreaks(ctx, *record.ProjectID)
		if err == nil && activeBreak(breaks, now) != nil {
			response.Status = LiveOnBreak
		}
	}

	var wageRecord entity.WageRecord
	err = r.DB.NewSelect().Model(&wageRecord).
		Where("attendance_id = ? AND deleted_at IS NULL", record.ID).
		Scan(ctx)
	if err == nil {
		response.EstimatedWages = math.Round(wageRecord.HourlyRate*float64(minutes)/60*100) / 100
	}

	if r.cache != nil {
		if raw, err := json.Marshal(response); err == nil {
			r.cache.Set(ctx, key, raw, liveStatusTTL)
		}
	}

	return response, nil
}

// GetList is the admin day-sheet query.
func (r *Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			a.deleted_at IS NULL
		`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND (w.employee_id ilike '%s' OR w.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.ProjectID != nil {
		whereQuery += fmt.Sprintf(` AND a.project_id = %d`, *filter.ProjectID)
	}
	if filter.Status != nil {
		status := strings.Replace(*filter.Status, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND a.status = '%s'`, status)
	}

	if filter.Date != nil {
		day, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", day.Format("2006-01-02"))
	} else {
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", time.Now().Format("2006-01-02"))
	}

	orderQuery := "ORDER BY a.created_at desc"

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
			a.id,
			a.worker_id,
			w.employee_id,
			w.full_name,
			a.project_id,
			p.name,
			a.work_day,
			a.status,
			a.worked_minutes,
			a.exit_count
		FROM attendance_records a
		LEFT JOIN workers w ON a.worker_id = w.id
		LEFT JOIN projects p ON a.project_id = p.id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance list"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		var workDayString string

		if err = rows.Scan(
			&detail.ID,
			&detail.WorkerID,
			&detail.EmployeeID,
			&detail.Fullname,
			&detail.ProjectID,
			&detail.Project,
			&workDayString,
			&detail.Status,
			&detail.WorkedMinutes,
			&detail.ExitCount,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance list"), http.StatusBadRequest)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
		}
		detail.WorkDay = &workDay

		if detail.WorkedMinutes != nil {
			detail.TotalHours = formatHours(*detail.WorkedMinutes)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM attendance_records a
		LEFT JOIN workers w ON a.worker_id = w.id
		LEFT JOIN projects p ON a.project_id = p.id
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r *Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.worker_id,
			w.employee_id,
			w.full_name,
			a.project_id,
			p.name,
			a.work_day,
			a.status,
			a.breach,
			a.exit_count,
			a.origin,
			a.worked_minutes
		FROM attendance_records a
		LEFT JOIN workers w ON a.worker_id = w.id
		LEFT JOIN projects p ON a.project_id = p.id
		WHERE a.deleted_at IS NULL AND a.id = %d
	`, id)

	var detail GetDetailByIdResponse
	var workDayString string

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.WorkerID,
		&detail.EmployeeID,
		&detail.Fullname,
		&detail.ProjectID,
		&detail.Project,
		&workDayString,
		&detail.Status,
		&detail.Breach,
		&detail.ExitCount,
		&detail.Origin,
		&detail.WorkedMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance detail"), http.StatusInternalServerError)
	}

	workDay, err := date.ParseDate(workDayString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
	}
	detail.WorkDay = &workDay

	if detail.WorkedMinutes != nil {
		detail.TotalHours = formatHours(*detail.WorkedMinutes)
	}

	err = r.DB.NewSelect().Model(&detail.Sessions).
		Where("s.attendance_id = ? AND s.deleted_at IS NULL", id).
		Order("s.check_in_time ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance sessions"), http.StatusInternalServerError)
	}

	return detail, nil
}

// --- internal loaders and writers -----------------------------------------

func (r *Repository) loadWorker(ctx context.Context, id int) (entity.Worker, error) {
	var worker entity.Worker
	err := r.IDB(ctx).NewSelect().Model(&worker).
		Where("id = ? AND deleted_at IS NULL", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Worker{}, web.NewRequestError(errors.New("worker not found"), http.StatusNotFound)
	}
	if err != nil {
		return entity.Worker{}, web.NewRequestError(errors.Wrap(err, "selecting worker"), http.StatusInternalServerError)
	}
	return worker, nil
}

func (r *Repository) loadProject(ctx context.Context, id int) (entity.Project, error) {
	var project entity.Project
	err := r.IDB(ctx).NewSelect().Model(&project).
		Where("id = ? AND deleted_at IS NULL", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Project{}, web.NewRequestError(errors.New("project not found"), http.StatusNotFound)
	}
	if err != nil {
		return entity.Project{}, web.NewRequestError(errors.Wrap(err, "selecting project"), http.StatusInternalServerError)
	}
	return project, nil
}

func (r *Repository) loadBreaks(ctx context.Context, projectID int) ([]entity.ProjectBreak, error) {
	var breaks []entity.ProjectBreak
	err := r.IDB(ctx).NewSelect().Model(&breaks).
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting project breaks"), http.StatusInternalServerError)
	}
	return breaks, nil
}

func (r *Repository) isApprovedMember(ctx context.Context, workerID, projectID int) (bool, error) {
	exists, err := r.IDB(ctx).NewSelect().Model((*entity.ProjectMember)(nil)).
		Where("worker_id = ? AND project_id = ? AND status = ? AND deleted_at IS NULL", workerID, projectID, entity.MemberApproved).
		Exists(ctx)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "checking project membership"), http.StatusInternalServerError)
	}
	return exists, nil
}

func (r *Repository) checkCategoryCapacity(ctx context.Context, project entity.Project, worker entity.Worker, workDay string) error {
	if project.CategoryCapacity == nil || *project.CategoryCapacity <= 0 {
		return nil
	}
	if worker.Category == nil {
		return nil
	}

	count, err := r.IDB(ctx).NewSelect().
		Table("attendance_records").
		Join("JOIN workers AS w ON w.id = attendance_records.worker_id").
		Where("attendance_records.project_id = ? AND attendance_records.work_day = ? AND w.category = ? AND attendance_records.deleted_at IS NULL",
			project.ID, workDay, *worker.Category).
		Count(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "counting category attendance"), http.StatusInternalServerError)
	}

	if count >= *project.CategoryCapacity {
		return web.NewRejection(errors.New("category capacity for the day is exhausted"), http.StatusUnprocessableEntity, ReasonCapacityFull, map[string]interface{}{
			"category": *worker.Category,
			"capacity": *project.CategoryCapacity,
		})
	}

	return nil
}

func (r *Repository) activeBlacklist(ctx context.Context, organizationID, workerID int, now time.Time) (*entity.BlacklistEntry, error) {
	var entry entity.BlacklistEntry
	err := r.IDB(ctx).NewSelect().Model(&entry).
		Where("organization_id = ? AND worker_id = ? AND expires_at > ? AND deleted_at IS NULL", organizationID, workerID, now).
		Order("expires_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting blacklist entry"), http.StatusInternalServerError)
	}
	return &entry, nil
}

// addToBlacklist writes on the root connection, never the transaction carried
// by the context: the entry must outlive the rejection that follows it, and a
// sync batch rolls its joined transaction back on that rejection.
func (r *Repository) addToBlacklist(ctx context.Context, organizationID, workerID int, now time.Time) error {
	entry := entity.BlacklistEntry{
		OrganizationID: &organizationID,
		WorkerID:       &workerID,
		ExpiresAt:      now.AddDate(0, 0, r.policy.BlacklistWindowDays),
	}
	entry.CreatedAt = &now
	entry.CreatedBy = &workerID

	if _, err := r.DB.NewInsert().Model(&entry).Exec(context.WithoutCancel(ctx)); err != nil {
		return web.NewRequestError(errors.Wrap(err, "creating blacklist entry"), http.StatusInternalServerError)
	}
	return nil
}

// recordForUpdate locks today's record for (worker, project) if it exists.
func (r *Repository) recordForUpdate(ctx context.Context, workerID, projectID int, workDay string) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := r.IDB(ctx).NewSelect().Model(&record).
		Where("worker_id = ? AND project_id = ? AND work_day = ? AND deleted_at IS NULL", workerID, projectID, workDay).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}
	return &record, nil
}

// todayRecordForUpdate locks the worker's most recent record for the day,
// whichever project it belongs to.
func (r *Repository) todayRecordForUpdate(ctx context.Context, workerID int, workDay string) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := r.IDB(ctx).NewSelect().Model(&record).
		Where("worker_id = ? AND work_day = ? AND deleted_at IS NULL", workerID, workDay).
		Order("created_at DESC").
		Limit(1).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}
	return &record, nil
}

func (r *Repository) sessionsOf(ctx context.Context, attendanceID int) ([]entity.AttendanceSession, error) {
	var sessions []entity.AttendanceSession
	err := r.IDB(ctx).NewSelect().Model(&sessions).
		Where("attendance_id = ? AND deleted_at IS NULL", attendanceID).
		Order("check_in_time ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance sessions"), http.StatusInternalServerError)
	}
	return sessions, nil
}

// closeSession stamps the check-out and fixes the session's worked minutes.
func (r *Repository) closeSession(ctx context.Context, session *entity.AttendanceSession, now time.Time) error {
	session.CheckOutTime = &now
	session.WorkedMinutes = sessionMinutes(session.CheckInTime, now)

	q := r.IDB(ctx).NewUpdate().Table("attendance_sessions").Where("id = ? AND check_out_time IS NULL", session.ID)
	q = q.Set("check_out_time = ?", now)
	q = q.Set("worked_minutes = ?", session.WorkedMinutes)
	q = q.Set("updated_at = ?", now)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "closing attendance session"), http.StatusInternalServerError)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "rows affected"), http.StatusInternalServerError)
	}
	if rows == 0 {
		// Someone closed it first under a concurrent writer.
		return web.NewRequestError(errors.New("session already closed"), http.StatusConflict)
	}

	return nil
}

// refreshRecord recomputes the cached columns of a record from its sessions
// and writes them with the last seen position.
func (r *Repository) refreshRecord(ctx context.Context, record *entity.AttendanceRecord, now time.Time, lat, lon *float64, breach bool) error {
	sessions, err := r.sessionsOf(ctx, record.ID)
	if err != nil {
		return err
	}

	record.WorkedMinutes = sumClosedMinutes(sessions)
	record.Breach = breach
	record.Status = entity.DeriveAttendanceStatus(sessions, record.ClosedAt)
	record.LastEventAt = &now
	if lat != nil {
		record.LastLatitude = lat
	}
	if lon != nil {
		record.LastLongitude = lon
	}

	q := r.IDB(ctx).NewUpdate().Table("attendance_records").Where("deleted_at IS NULL AND id = ?", record.ID)
	q = q.Set("status = ?", record.Status)
	q = q.Set("worked_minutes = ?", record.WorkedMinutes)
	q = q.Set("breach = ?", record.Breach)
	q = q.Set("exit_count = ?", record.ExitCount)
	q = q.Set("last_event_at = ?", now)
	q = q.Set("updated_at = ?", now)
	if record.ClosedAt != nil {
		q = q.Set("closed_at = ?", *record.ClosedAt)
	}
	if lat != nil {
		q = q.Set("last_latitude = ?", *lat)
	}
	if lon != nil {
		q = q.Set("last_longitude = ?", *lon)
	}

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance record"), http.StatusInternalServerError)
	}

	return nil
}

func projectFence(project entity.Project) (geofence.Circle, error) {
	if project.Latitude == nil || project.Longitude == nil || project.RadiusMeters == nil {
		return geofence.Circle{}, web.NewRequestError(errors.New("project has no geofence configured"), http.StatusInternalServerError)
	}
	return geofence.Circle{
		Latitude:     *project.Latitude,
		Longitude:    *project.Longitude,
		RadiusMeters: *project.RadiusMeters,
	}, nil
}

func liveStatusKey(workerID int) string {
	return fmt.Sprintf("live_status:%d", workerID)
}

func (r *Repository) invalidateLive(ctx context.Context, workerID int) {
	if r.cache == nil {
		return
	}
	r.cache.Del(ctx, liveStatusKey(workerID))
}
