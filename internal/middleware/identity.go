package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated profile id set by Session, or "" for
// anonymous requests.
func UserID(c echo.Context) string {
	v, _ := c.Get(CtxUserID).(string)
	return v
}

// userID is UserID with "guest" standing in for anonymous callers in
// rate-limit keys and logs.
func userID(c echo.Context) string {
	if v := UserID(c); v != "" {
		return v
	}
	return "guest"
}
