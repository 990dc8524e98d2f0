package uow

import (
	"context"

	"ops-portal-backend/internal/domain/allocation"
	"ops-portal-backend/internal/domain/category"
	"ops-portal-backend/internal/domain/notification"
	"ops-portal-backend/internal/domain/ticket"
	"ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/user"
)

// domain/uow/uow.go
type Repos struct {
	Timesheets    timesheet.Repository
	Allocations   allocation.Repository
	Tickets       ticket.Repository
	Users         user.Repository
	Categories    category.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the week header first, then pass it in (nil when the week was never saved)
	WithinWeekTx(ctx context.Context, employeeID, weekStart string, fn func(r Repos, h *timesheet.WeekHeader) error) error
	// lock the ticket row first
	WithinTicketTx(ctx context.Context, ticketID string, fn func(r Repos, t *ticket.Ticket) error) error
}
