package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/session"
)

// Context keys set by Session.
const (
	CtxSession = "session"
	CtxUserID  = "user_id"
	CtxRole    = "role"
)

// Session restores the caller's session from a Bearer access token and
// stores it in the context under "session".  Once the restore settles,
// "user_id" and "role" are set for authenticated callers.  It never rejects
// a request: anonymous callers proceed and RequireGate decides.
func Session(auth session.Authenticator, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			st := session.NewStore(auth, log)
			c.Set(CtxSession, st)

			st.Restore(ctx, bearerToken(c))
			if err := st.Ready(ctx); err != nil {
				// client went away mid-restore
				return err
			}
			if cur := st.Current(); cur != nil {
				c.Set(CtxUserID, cur.ProfileID())
				c.Set(CtxRole, cur.Role.String())
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// StoreFrom returns the session store installed by Session, or nil.
func StoreFrom(c echo.Context) *session.Store {
	st, _ := c.Get(CtxSession).(*session.Store)
	return st
}
