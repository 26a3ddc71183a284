package sync

import (
	"net/http"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/repository/postgres/sync"

	"github.com/pkg/errors"
)

type Controller struct {
	sync Sync
}

func NewController(s Sync) *Controller {
	return &Controller{s}
}

func (uc Controller) SyncBatch(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request struct {
		Actions []sync.Action `json:"actions" form:"actions"`
	}
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	result := uc.sync.ProcessBatch(c.Ctx, claims.UserId, claims.Role, request.Actions)

	return c.Respond(map[string]interface{}{
		"data":   result,
		"status": true,
	}, http.StatusOK)
}
