package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/middleware"
	"github.com/iliyamo/pandit-seva/internal/session"
)

// respondError renders err as {code, message, details}.  Anything that is
// not an *apperr.Error becomes TRANSIENT_IO.
func respondError(c echo.Context, err error) error {
	ae := apperr.As(err)
	status := ae.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"code", ae.Code,
			"error", err,
		)
	}
	return c.JSON(status, ae)
}

func badBody() error {
	return apperr.Validation("invalid request body", nil)
}

// storeFrom returns the request's session store, or a fresh anonymous one
// when no session middleware ran.
func storeFrom(c echo.Context, auth session.Authenticator) *session.Store {
	if st := middleware.StoreFrom(c); st != nil {
		return st
	}
	st := session.NewStore(auth, slog.Default())
	c.Set(middleware.CtxSession, st)
	return st
}

// requireUser returns the caller's id or an UNAUTHORIZED error.
func requireUser(c echo.Context) (string, error) {
	id := middleware.UserID(c)
	if id == "" {
		return "", apperr.Unauthorized("sign in required")
	}
	return id, nil
}
