package mysql

import (
	"context"
	"errors"

	ticketDomain "ops-portal-backend/internal/domain/ticket"
	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds every repository to db, which may be a transaction.
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Timesheets:    &TimesheetRepository{db: db},
		Allocations:   &AllocationRepository{db: db},
		Tickets:       &TicketRepository{db: db},
		Users:         &UserRepository{db: db},
		Categories:    &CategoryRepository{db: db},
		Notifications: &NotificationRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinWeekTx(ctx context.Context, employeeID, weekStart string, fn func(r uow.Repos, h *tsDomain.WeekHeader) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the week header up-front so writers of the same week serialize
		h, err := r.Timesheets.GetWeekHeaderForUpdate(ctx, employeeID, weekStart)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// nothing to lock yet: a concurrent first write wins on the unique
			// header index and this one reports a stale week
			err := fn(r, nil)
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return tsDomain.ErrStaleWeek
			}
			return err
		}
		if err != nil {
			return err
		}
		return fn(r, h)
	})
}

func (u *GormUoW) WithinTicketTx(ctx context.Context, ticketID string, fn func(r uow.Repos, t *ticketDomain.Ticket) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		t, err := r.Tickets.GetByTicketIDForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		return fn(r, t)
	})
}
