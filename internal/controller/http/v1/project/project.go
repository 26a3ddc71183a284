package project

import (
	"net/http"
	"reflect"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/repository/postgres/project"
	"sitetrack/backend/internal/service"

	"github.com/pkg/errors"
)

type Controller struct {
	project Project
}

const projectDir = "projects"

func NewController(project Project) *Controller {
	return &Controller{project}
}

func (uc Controller) GetById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.project.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	var filter project.Filter

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
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.project.GetList(c.Ctx, filter)
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

func (uc Controller) Create(c *web.Context) error {
	var request project.CreateRequest
	if err := c.BindFunc(&request, "Name", "Latitude", "Longitude", "RadiusMeters"); err != nil {
		return c.RespondError(err)
	}

	if request.Photo != nil {
		path, err := service.Upload(request.Photo, projectDir)
		if err != nil {
			return c.RespondError(err)
		}
		request.PhotoPath = path
	}

	response, err := uc.project.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request project.UpdateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}
	request.ID = id

	if request.Photo != nil {
		path, err := service.Upload(request.Photo, projectDir)
		if err != nil {
			return c.RespondError(err)
		}
		request.PhotoPath = path
	}

	if err := uc.project.UpdateColumns(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.project.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CreateBreak(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request project.BreakRequest
	if err := c.BindFunc(&request, "StartTime", "EndTime"); err != nil {
		return c.RespondError(err)
	}
	request.ProjectID = id

	response, err := uc.project.CreateBreak(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetBreaks(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.project.GetBreaks(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   list,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) DeleteBreak(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.project.DeleteBreak(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpsertMember(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request project.MemberRequest
	if err := c.BindFunc(&request, "WorkerID", "Status"); err != nil {
		return c.RespondError(err)
	}
	request.ProjectID = id

	if err := uc.project.UpsertMember(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// Badge streams the printable site badge as a PDF.
func (uc Controller) Badge(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	data, err := uc.project.GetBadgeData(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	pdf, err := service.BadgePDF(service.SiteBadge{
		ProjectName:  data.Name,
		Reference:    data.Reference,
		RadiusMeters: data.RadiusMeters,
	})
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "rendering site badge"), http.StatusInternalServerError))
	}

	c.Writer.Header().Set("Content-Type", "application/pdf")
	c.Writer.Header().Set("Content-Disposition", `attachment; filename="badge.pdf"`)
	if _, err := c.Writer.Write(pdf); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "writing site badge"), http.StatusInternalServerError))
	}

	return nil
}
