package wage

import (
	"net/http"
	"reflect"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/repository/postgres/wage"
	"sitetrack/backend/internal/service"

	"github.com/pkg/errors"
)

type Controller struct {
	wage Wage
}

func NewController(wage Wage) *Controller {
	return &Controller{wage}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter wage.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
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

	list, count, err := uc.wage.GetList(c.Ctx, filter)
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

func (uc Controller) Recompute(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.wage.RecomputeDetail(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpsertRate(c *web.Context) error {
	var request wage.RateRequest
	if err := c.BindFunc(&request, "ProjectID", "Skill", "Category", "HourlyRate"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.wage.UpsertRate(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// Export streams the wage sheet as an xlsx download.
func (uc Controller) Export(c *web.Context) error {
	var filter wage.Filter

	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}
	if projectID, ok := c.GetQueryFunc(reflect.Int, "project_id").(*int); ok {
		filter.ProjectID = projectID
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, _, err := uc.wage.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	rows := make([]service.WageRow, 0, len(list))
	for _, item := range list {
		row := service.WageRow{
			HourlyRate:  item.HourlyRate,
			WorkedHours: item.WorkedHours,
			Total:       item.Total,
			Status:      item.Status,
		}
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
		rows = append(rows, row)
	}

	f, err := service.WageSheet(rows)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "building wage sheet"), http.StatusInternalServerError))
	}

	c.Writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Writer.Header().Set("Content-Disposition", `attachment; filename="wages.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "writing wage sheet"), http.StatusInternalServerError))
	}

	return nil
}
