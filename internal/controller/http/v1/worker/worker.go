package worker

import (
	"net/http"
	"reflect"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/repository/postgres/worker"
)

type Controller struct {
	worker Worker
}

func NewController(worker Worker) *Controller {
	return &Controller{worker}
}

func (uc Controller) GetById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.worker.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	var filter worker.Filter

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
	if skill, ok := c.GetQueryFunc(reflect.String, "skill").(*string); ok {
		filter.Skill = skill
	}
	if category, ok := c.GetQueryFunc(reflect.String, "category").(*string); ok {
		filter.Category = category
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.worker.GetList(c.Ctx, filter)
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
	var request worker.CreateRequest
	if err := c.BindFunc(&request, "EmployeeID", "FullName", "Password", "Role"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.worker.Create(c.Ctx, request)
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

	var request worker.UpdateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}
	request.ID = id

	if err := uc.worker.UpdateColumns(c.Ctx, request); err != nil {
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

	if err := uc.worker.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
