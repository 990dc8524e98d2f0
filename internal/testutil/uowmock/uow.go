package uowmock

import (
	"context"
	"errors"

	"ops-portal-backend/internal/domain/ticket"
	"ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinWeekTxFn   func(ctx context.Context, employeeID, weekStart string, fn func(r uow.Repos, h *timesheet.WeekHeader) error) error
	WithinTicketTxFn func(ctx context.Context, ticketID string, fn func(r uow.Repos, t *ticket.Ticket) error) error
}

func New() *UoW { return &UoW{} }

// PassThrough runs every callback against repos, loading the locked rows
// through the same repositories.
func PassThrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinWeekTxFn: func(ctx context.Context, employeeID, weekStart string, fn func(uow.Repos, *timesheet.WeekHeader) error) error {
			h, err := repos.Timesheets.GetWeekHeaderForUpdate(ctx, employeeID, weekStart)
			if err != nil {
				h = nil
			}
			return fn(repos, h)
		},
		WithinTicketTxFn: func(ctx context.Context, ticketID string, fn func(uow.Repos, *ticket.Ticket) error) error {
			t, err := repos.Tickets.GetByTicketIDForUpdate(ctx, ticketID)
			if err != nil {
				return err
			}
			return fn(repos, t)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinWeekTx(ctx context.Context, employeeID, weekStart string, fn func(r uow.Repos, h *timesheet.WeekHeader) error) error {
	if m.WithinWeekTxFn != nil {
		return m.WithinWeekTxFn(ctx, employeeID, weekStart, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinTicketTx(ctx context.Context, ticketID string, fn func(r uow.Repos, t *ticket.Ticket) error) error {
	if m.WithinTicketTxFn != nil {
		return m.WithinTicketTxFn(ctx, ticketID, fn)
	}
	return errUnimplemented
}
