package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/gate"
	"github.com/iliyamo/pandit-seva/internal/session"
)

// RequireGate enforces req for the route group.  Anonymous callers get 401
// with the sign-in redirect; callers with the wrong role get 403 with
// their own dashboard as the redirect.  Session must run first.
func RequireGate(req gate.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			view := session.View{Resolved: true}
			if st := StoreFrom(c); st != nil {
				if err := st.Ready(c.Request().Context()); err != nil {
					return err
				}
				view = st.View()
			}

			d := gate.Evaluate(view, req)
			switch d.Outcome {
			case gate.Render:
				return next(c)
			case gate.Redirect:
				if d.Target == gate.SignInPath {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "redirect": d.Target})
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "redirect": d.Target})
			}
			// still resolving after Ready returned; should not happen
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session_pending"})
		}
	}
}
