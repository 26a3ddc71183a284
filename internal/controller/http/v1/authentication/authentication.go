package authentication

import (
	"net/http"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/repository/postgres/worker"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Controller struct {
	worker Worker
	auth   *auth.Auth
}

func NewController(worker Worker, auth *auth.Auth) *Controller {
	return &Controller{worker: worker, auth: auth}
}

func (uc Controller) SignIn(c *web.Context) error {
	var data worker.SignInRequest

	if err := c.BindFunc(&data, "EmployeeID", "Password"); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.worker.GetByEmployeeID(c.Ctx, data.EmployeeID)
	if err != nil {
		return c.RespondError(err)
	}

	if detail.Password == nil || detail.Role == nil {
		return c.RespondError(web.NewRequestError(errors.New("worker has no credentials"), http.StatusUnauthorized))
	}

	if err = bcrypt.CompareHashAndPassword([]byte(*detail.Password), []byte(data.Password)); err != nil {
		return c.RespondError(web.NewRequestError(errors.New("incorrect employee id or password"), http.StatusUnauthorized))
	}

	accessToken, refreshToken, err := uc.auth.GenerateTokens(detail.ID, *detail.Role)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) RefreshToken(c *web.Context) error {
	var data worker.RefreshTokenRequest

	if err := c.BindFunc(&data, "RefreshToken"); err != nil {
		return c.RespondError(err)
	}

	claims, err := uc.auth.ValidateToken(data.RefreshToken)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	accessToken, refreshToken, err := uc.auth.GenerateTokens(claims.UserId, claims.Role)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating new tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"status": true,
	}, http.StatusOK)
}
