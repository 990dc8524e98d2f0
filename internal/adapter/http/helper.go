package http

import (
	"ops-portal-backend/internal/adapter/middleware"
	"ops-portal-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func actor(c echo.Context) middleware.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// ownEmployee lets employees act on their own id only; super admins act on anyone.
func ownEmployee(c echo.Context, employeeID string) error {
	a := actor(c)
	if a.Role == user.RoleSuperAdmin || a.UserID == employeeID {
		return nil
	}
	return errForbidden
}
