package attendance

import (
	"net/http"
	"reflect"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/repository/postgres/attendance"
	"sitetrack/backend/internal/service"

	"github.com/pkg/errors"
)

type Controller struct {
	attendance Attendance
}

func NewController(attendance Attendance) *Controller {
	return &Controller{attendance}
}

func (uc Controller) CheckIn(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request attendance.CheckInRequest
	if err := c.BindFunc(&request, "ProjectID", "Latitude", "Longitude"); err != nil {
		return c.RespondError(err)
	}
	request.WorkerID = claims.UserId

	response, err := uc.attendance.CheckIn(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CheckOut(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request attendance.CheckOutRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}
	request.WorkerID = claims.UserId

	response, err := uc.attendance.CheckOut(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) TrackLocation(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request attendance.TrackRequest
	if err := c.BindFunc(&request, "Latitude", "Longitude"); err != nil {
		return c.RespondError(err)
	}
	request.WorkerID = claims.UserId

	response, err := uc.attendance.TrackLocation(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetLiveStatus(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	response, err := uc.attendance.GetLiveStatus(c.Ctx, claims.UserId)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	var filter attendance.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if projectID, ok := c.GetQueryFunc(reflect.Int, "project_id").(*int); ok {
		filter.ProjectID = projectID
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// Export streams the day sheet as an xlsx download.
func (uc Controller) Export(c *web.Context) error {
	var filter attendance.Filter

	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}
	if projectID, ok := c.GetQueryFunc(reflect.Int, "project_id").(*int); ok {
		filter.ProjectID = projectID
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, _, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	rows := make([]service.AttendanceRow, 0, len(list))
	for _, item := range list {
		row := service.AttendanceRow{TotalHours: item.TotalHours}
		if item.EmployeeID != nil {
			row.EmployeeID = *item.EmployeeID
		}
		if item.Fullname != nil {
			row.FullName = *item.Fullname
		}
		if item.Project != nil {
			row.ProjectName = *item.Project
		}
		if item.WorkDay != nil {
			row.WorkDay = item.WorkDay.String()
		}
		if item.Status != nil {
			row.Status = *item.Status
		}
		if item.ExitCount != nil {
			row.ExitCount = *item.ExitCount
		}
		rows = append(rows, row)
	}

	f, err := service.AttendanceSheet(rows)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "building attendance sheet"), http.StatusInternalServerError))
	}

	c.Writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Writer.Header().Set("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "writing attendance sheet"), http.StatusInternalServerError))
	}

	return nil
}
