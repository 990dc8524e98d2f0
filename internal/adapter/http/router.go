package http

import (
	"time"

	"ops-portal-backend/internal/adapter/middleware"
	"ops-portal-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Routes bundles what RegisterRoutes mounts.
type Routes struct {
	Health      *Handler
	Timesheets  *TimesheetHandler
	Approvals   *ApprovalHandler
	Tickets     *TicketHandler
	Admin       *AdminHandler
	Preferences *PreferencesHandler

	Log            *zap.Logger
	Tokens         *middleware.TokenManager
	Redis          *redis.Client
	IdempotencyTTL time.Duration
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	e.Validator = NewValidator()
	e.GET("/health", r.Health.Health)

	idem := middleware.Idempotency(r.Redis, r.IdempotencyTTL, r.Log)
	auth := middleware.JWTAuth(r.Tokens)

	ts := e.Group("/timesheets/:employee_id/weeks/:week_start", auth)
	ts.GET("", r.Timesheets.GetWeek)
	ts.PUT("/draft", r.Timesheets.SaveDraft)
	ts.POST("/submit", r.Timesheets.Submit, idem)
	ts.PATCH("/cells", r.Timesheets.EditCell)
	ts.POST("/copy-forward", r.Timesheets.CopyForward)
	ts.DELETE("/rows/:project_id/:uda_id", r.Timesheets.DeleteRow)

	ap := e.Group("/approvals", auth, middleware.RoleAuth(user.RoleManager, user.RoleSuperAdmin))
	ap.GET("/timesheet", r.Approvals.GetTimesheet)
	ap.GET("/candidates", r.Approvals.Candidates)
	ap.POST("/approve", r.Approvals.Approve, idem)
	ap.POST("/request-revision", r.Approvals.RequestRevision, idem)
	ap.POST("/bulk", r.Approvals.Bulk, idem)

	queue := middleware.RoleAuth(user.RoleITAdmin, user.RoleSuperAdmin)
	tk := e.Group("/tickets", auth, queue)
	tk.GET("/it", r.Tickets.ListIT)
	tk.GET("/:ticket_id/history", r.Tickets.History)
	tk.POST("/:ticket_id/assign", r.Tickets.Assign, idem)
	tk.POST("/:ticket_id/reassign", r.Tickets.Reassign, idem)
	e.GET("/it-specialists", r.Tickets.Specialists, auth, queue)

	e.GET("/preferences/:view", r.Preferences.Get, auth)
	e.PUT("/preferences/:view", r.Preferences.Put, auth)
	e.GET("/notifications", r.Preferences.Notifications, auth)

	adm := e.Group("/admin", auth, middleware.RoleAuth(user.RoleSuperAdmin))
	adm.GET("/users", r.Admin.ListUsers)
	adm.POST("/users", r.Admin.CreateUser)
	adm.PATCH("/users/:user_id", r.Admin.UpdateUser)
	adm.GET("/categories", r.Admin.ListCategories)
	adm.POST("/categories", r.Admin.CreateCategory)
	adm.PATCH("/categories/:config_id", r.Admin.UpdateCategory)
	adm.PUT("/categories/:config_id/approvers/:level", r.Admin.UpdateApprovers)
	adm.GET("/categories/:config_id/flow", r.Admin.FlowLabel)
}
