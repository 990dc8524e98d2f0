package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ops-portal-backend/internal/domain/notification"
	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	notifier notification.Notifier
	log      *zap.Logger
	now      func() time.Time
	loc      *time.Location
}

type Option func(*Usecase)

// WithClock replaces time.Now, which decides the "today" gate.
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// WithLocation sets the zone "today" is evaluated in.
func WithLocation(loc *time.Location) Option { return func(u *Usecase) { u.loc = loc } }

func NewUsecase(tx uow.UnitOfWork, n notification.Notifier, log *zap.Logger, opts ...Option) *Usecase {
	u := &Usecase{uow: tx, notifier: n, log: log, now: time.Now, loc: time.UTC}
	for _, o := range opts {
		o(u)
	}
	return u
}

func checkVersion(h *tsDomain.WeekHeader, expected *int) error {
	if expected == nil {
		return nil
	}
	current := 0
	if h != nil {
		current = h.Version
	}
	if current != *expected {
		return tsDomain.ErrStaleWeek
	}
	return nil
}

// GetTimesheetForWeek returns nil when the employee never saved the week.
func (u *Usecase) GetTimesheetForWeek(ctx context.Context, employeeID, weekStart string) (*WeekView, error) {
	if _, err := tsDomain.ParseWeekStart(weekStart); err != nil {
		return nil, err
	}
	var view *WeekView
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		h, err := r.Timesheets.GetWeekHeader(ctx, employeeID, weekStart)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err != nil {
			h = nil
		}
		entries, err := r.Timesheets.ListEntries(ctx, employeeID, weekStart)
		if err != nil {
			return err
		}
		if h == nil && len(entries) == 0 {
			return nil
		}
		w := tsDomain.BuildWeek(h, entries)
		wc, err := u.loadContext(ctx, r, employeeID, weekStart, rowProjects(w.Rows))
		if err != nil {
			return err
		}
		view = wc.view(w)
		return nil
	})
	if err != nil {
		u.log.Error("get timesheet", zap.String("employee_id", employeeID), zap.String("week_start", weekStart), zap.Error(err))
		return nil, err
	}
	return view, nil
}

func (u *Usecase) SaveDraft(ctx context.Context, in SaveInput) (*WeekView, error) {
	return u.save(ctx, in, modeDraft)
}

// Submit writes the rows, then requires the whole week to pass the submit
// rules. A violation rolls everything back.
func (u *Usecase) Submit(ctx context.Context, in SaveInput) (*WeekView, error) {
	return u.save(ctx, in, modeSubmit)
}

func (u *Usecase) save(ctx context.Context, in SaveInput, m mode) (*WeekView, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	var (
		view    *WeekView
		pending []notification.Notification
	)
	err := u.uow.WithinWeekTx(ctx, in.EmployeeID, in.WeekStart, func(r uow.Repos, h *tsDomain.WeekHeader) error {
		if err := checkVersion(h, in.ExpectedVersion); err != nil {
			return err
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		stored := tsDomain.BuildWeek(h, entries)
		wc, err := u.loadContext(ctx, r, in.EmployeeID, in.WeekStart, append(rowProjects(stored.Rows), rowProjects(in.Rows)...))
		if err != nil {
			return err
		}
		after, err := u.persist(ctx, r, h, in, entries, wc, m)
		if err != nil {
			return err
		}
		if m == modeSubmit {
			pending = u.submittedNotices(after, wc)
		}
		view = wc.view(after)
		return nil
	})
	if err != nil {
		u.logWriteError(m.String(), in.EmployeeID, in.WeekStart, err)
		return nil, err
	}
	for _, n := range pending {
		u.notifier.Notify(ctx, n)
	}
	return view, nil
}

// EditCell changes one day of one row and saves the week as a draft.
func (u *Usecase) EditCell(ctx context.Context, in EditCellInput) (*WeekView, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	var view *WeekView
	err := u.uow.WithinWeekTx(ctx, in.EmployeeID, in.WeekStart, func(r uow.Repos, h *tsDomain.WeekHeader) error {
		if err := checkVersion(h, in.ExpectedVersion); err != nil {
			return err
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		stored := tsDomain.BuildWeek(h, entries)
		key := tsDomain.RowKey{ProjectID: in.ProjectID, CategoryID: in.CategoryID}
		row := tsDomain.EntryRow{
			ProjectID:     in.ProjectID,
			CategoryID:    in.CategoryID,
			CategoryName:  in.CategoryName,
			Type:          in.Type,
			BillableGroup: in.BillableGroup,
		}
		if prev := stored.Find(key); prev != nil {
			row = *prev
		}
		if err := row.SetHours(in.DayIndex, in.Hours); err != nil {
			return err
		}
		if in.Comment != nil {
			if err := row.SetComment(in.DayIndex, *in.Comment); err != nil {
				return err
			}
		}
		wc, err := u.loadContext(ctx, r, in.EmployeeID, in.WeekStart, append(rowProjects(stored.Rows), in.ProjectID))
		if err != nil {
			return err
		}
		save := SaveInput{EmployeeID: in.EmployeeID, EmployeeName: in.EmployeeName, WeekStart: in.WeekStart, Rows: []tsDomain.EntryRow{row}}
		after, err := u.persist(ctx, r, h, save, entries, wc, modeDraft)
		if err != nil {
			return err
		}
		view = wc.view(after)
		return nil
	})
	if err != nil {
		u.logWriteError("edit cell", in.EmployeeID, in.WeekStart, err)
		return nil, err
	}
	return view, nil
}

// DeleteRow removes every day of one row. Rows with an approved day and
// approved weeks are refused.
func (u *Usecase) DeleteRow(ctx context.Context, in DeleteRowInput) (*DeleteRowResult, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	var res *DeleteRowResult
	err := u.uow.WithinWeekTx(ctx, in.EmployeeID, in.WeekStart, func(r uow.Repos, h *tsDomain.WeekHeader) error {
		if err := checkVersion(h, in.ExpectedVersion); err != nil {
			return err
		}
		if h != nil && h.Status == tsDomain.WeekApproved {
			return tsDomain.ErrWeekApproved
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		for i := range entries {
			e := &entries[i]
			if e.ProjectID == in.ProjectID && e.UDAID == in.CategoryID && e.IsApproved() {
				return tsDomain.ErrRowHasApprovedDays
			}
		}
		n, err := r.Timesheets.DeleteRow(ctx, in.EmployeeID, in.WeekStart, in.ProjectID, in.CategoryID)
		if err != nil {
			return err
		}
		if n == 0 {
			return tsDomain.ErrRowNotFound
		}
		version := 0
		if h != nil {
			h.Version++
			if err := r.Timesheets.SaveWeekHeader(ctx, h); err != nil {
				return err
			}
			version = h.Version
		}
		res = &DeleteRowResult{DeletedCount: n, Version: version}
		return nil
	})
	if err != nil {
		u.logWriteError("delete row", in.EmployeeID, in.WeekStart, err)
		return nil, err
	}
	u.log.Info("timesheet row deleted",
		zap.String("employee_id", in.EmployeeID),
		zap.String("week_start", in.WeekStart),
		zap.String("project_id", in.ProjectID),
		zap.Int64("deleted", res.DeletedCount))
	return res, nil
}

// CopyForward copies the source day to later open days and saves the week as
// a draft. An empty source leaves the week untouched.
func (u *Usecase) CopyForward(ctx context.Context, in CopyForwardInput) (*WeekView, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	if in.SourceDay < 0 || in.SourceDay >= tsDomain.DaysPerWeek {
		return nil, tsDomain.ErrDayIndex
	}
	var view *WeekView
	err := u.uow.WithinWeekTx(ctx, in.EmployeeID, in.WeekStart, func(r uow.Repos, h *tsDomain.WeekHeader) error {
		if err := checkVersion(h, in.ExpectedVersion); err != nil {
			return err
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		stored := tsDomain.BuildWeek(h, entries)
		wc, err := u.loadContext(ctx, r, in.EmployeeID, in.WeekStart, rowProjects(stored.Rows))
		if err != nil {
			return err
		}
		editable := wc.editable(in.ProjectID)
		opts := tsDomain.CopyOptions{
			Dates:      wc.dates,
			Calendar:   wc.calendar,
			ProjectEnd: wc.projectEnd(in.ProjectID),
			Locked:     func(day int) bool { return !editable[day] },
		}

		// work on a copy so the stored week stays the comparison base
		working := tsDomain.BuildWeek(h, entries)
		var touched []tsDomain.EntryRow
		if in.CategoryID != "" {
			row := working.Find(tsDomain.RowKey{ProjectID: in.ProjectID, CategoryID: in.CategoryID})
			if row == nil {
				return tsDomain.ErrRowNotFound
			}
			if len(tsDomain.CopyForward(row, in.SourceDay, opts)) > 0 {
				touched = append(touched, *row)
			}
		} else {
			written := tsDomain.CopyForwardProject(working, in.ProjectID, in.SourceDay, opts)
			for i := range working.Rows {
				if _, ok := written[working.Rows[i].Key()]; ok {
					touched = append(touched, working.Rows[i])
				}
			}
		}
		if len(touched) == 0 {
			view = wc.view(stored)
			return nil
		}
		save := SaveInput{EmployeeID: in.EmployeeID, EmployeeName: stored.EmployeeName, WeekStart: in.WeekStart, Rows: touched}
		after, err := u.persist(ctx, r, h, save, entries, wc, modeDraft)
		if err != nil {
			return err
		}
		view = wc.view(after)
		return nil
	})
	if err != nil {
		u.logWriteError("copy forward", in.EmployeeID, in.WeekStart, err)
		return nil, err
	}
	return view, nil
}

func (u *Usecase) logWriteError(op, employeeID, weekStart string, err error) {
	fields := []zap.Field{zap.String("op", op), zap.String("employee_id", employeeID), zap.String("week_start", weekStart), zap.Error(err)}
	if isClientError(err) {
		u.log.Warn("timesheet write rejected", fields...)
		return
	}
	u.log.Error("timesheet write failed", fields...)
}

func isClientError(err error) bool {
	var cells tsDomain.CellErrors
	var short *tsDomain.ShortfallError
	if errors.As(err, &cells) || errors.As(err, &short) {
		return true
	}
	for _, target := range []error{
		tsDomain.ErrNotMonday, tsDomain.ErrInvalidDate, tsDomain.ErrDayIndex, tsDomain.ErrDayApproved,
		tsDomain.ErrDayLocked, tsDomain.ErrInvalidDuration, tsDomain.ErrEmptyTimesheet,
		tsDomain.ErrNothingToSubmit, tsDomain.ErrWeekApproved, tsDomain.ErrRowHasApprovedDays,
		tsDomain.ErrRowNotFound, tsDomain.ErrNoAllocation, tsDomain.ErrStaleWeek,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func rowProjects(rows []tsDomain.EntryRow) []string {
	out := make([]string, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ProjectID)
	}
	return out
}

func (u *Usecase) submittedNotices(w *tsDomain.Week, wc *weekContext) []notification.Notification {
	managers := map[string]bool{}
	var out []notification.Notification
	for i := range w.Rows {
		row := &w.Rows[i]
		if row.NonApprovedMinutes() == 0 {
			continue
		}
		p, ok := wc.projects[row.ProjectID]
		if !ok || p.ManagerID == "" || managers[p.ManagerID] {
			continue
		}
		managers[p.ManagerID] = true
		out = append(out, notification.Notification{
			UserID:      p.ManagerID,
			Role:        "manager",
			Type:        notification.TypeTimesheetSubmitted,
			Title:       "Timesheet submitted",
			Description: fmt.Sprintf("%s submitted the week of %s", displayName(w), w.WeekStartDate),
		})
	}
	return out
}

func displayName(w *tsDomain.Week) string {
	if w.EmployeeName != "" {
		return w.EmployeeName
	}
	return w.EmployeeID
}
