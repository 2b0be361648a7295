package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/gate"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/session"
)

// ProfileUpdater is implemented by service.ProfileService.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, ownerID string, patch model.ProfilePatch) (*model.Profile, error)
}

// ProfileHandler serves the caller's own profile and the view gate.
type ProfileHandler struct {
	Auth     session.Authenticator
	Profiles ProfileUpdater
}

func NewProfileHandler(auth session.Authenticator, profiles ProfileUpdater) *ProfileHandler {
	return &ProfileHandler{Auth: auth, Profiles: profiles}
}

// Me returns the signed-in profile and its role.
func (h *ProfileHandler) Me(c echo.Context) error {
	cur := storeFrom(c, h.Auth).Current()
	if cur == nil {
		return respondError(c, apperr.Unauthorized("sign in required"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":      cur.Profile,
		"role":      cur.Role,
		"dashboard": cur.Role.Dashboard(),
	})
}

// UpdateMe applies a partial profile edit.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var patch model.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, badBody())
	}
	p, err := h.Profiles.UpdateProfile(c.Request().Context(), uid, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Gate evaluates the access requirement of a client view for the caller.
// GET /v1/gate?view=/pandit-dashboard
func (h *ProfileHandler) Gate(c echo.Context) error {
	view := c.QueryParam("view")
	req, ok := gate.ForView(view)
	if !ok {
		return respondError(c, apperr.NotFound("view"))
	}
	st := storeFrom(c, h.Auth)
	if err := st.Ready(c.Request().Context()); err != nil {
		return respondError(c, apperr.Transient("session restore timed out", err))
	}
	d := gate.Evaluate(st.View(), req)
	return c.JSON(http.StatusOK, echo.Map{
		"view":     view,
		"outcome":  d.Outcome.String(),
		"redirect": d.Target,
	})
}
