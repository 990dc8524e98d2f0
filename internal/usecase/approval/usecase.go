package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ops-portal-backend/internal/domain/allocation"
	"ops-portal-backend/internal/domain/notification"
	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	uow         uow.UnitOfWork
	notifier    notification.Notifier
	log         *zap.Logger
	now         func() time.Time
	concurrency int
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// WithConcurrency bounds how many employees a bulk action processes at once.
// 1 (the default) processes them one after another.
func WithConcurrency(n int) Option {
	return func(u *Usecase) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

func NewUsecase(tx uow.UnitOfWork, n notification.Notifier, log *zap.Logger, opts ...Option) *Usecase {
	u := &Usecase{uow: tx, notifier: n, log: log, now: time.Now, concurrency: 1}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) checkManager(ctx context.Context, r uow.Repos, managerID, projectID string) (*allocation.Project, error) {
	p, err := r.Allocations.GetProject(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, allocation.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.ManagerID != managerID {
		return nil, ErrNotProjectManager
	}
	return p, nil
}

// reviewable weeks are the ones an employee has submitted at least once.
func reviewable(h *tsDomain.WeekHeader) bool {
	return h != nil && h.Status != tsDomain.WeekNone && h.Status != tsDomain.WeekDraft
}

// GetApproverTimesheet returns the project's rows of a submitted week, or nil.
func (u *Usecase) GetApproverTimesheet(ctx context.Context, in WeekRef) (*tsDomain.Week, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	var out *tsDomain.Week
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := u.checkManager(ctx, r, in.ManagerID, in.ProjectID); err != nil {
			return err
		}
		h, err := r.Timesheets.GetWeekHeader(ctx, in.EmployeeID, in.WeekStart)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !reviewable(h) {
			return nil
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		w := tsDomain.BuildWeek(h, entries).Restrict(in.ProjectID)
		if len(w.Rows) > 0 {
			out = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) ApproveWeek(ctx context.Context, in WeekRef) (*Result, error) {
	return u.Approve(ctx, ApproveInput{WeekRef: in})
}

func (u *Usecase) BulkApproveSelectedDays(ctx context.Context, in WeekRef, dayIndices []int) (*Result, error) {
	if len(dayIndices) == 0 {
		return nil, ErrSelectionRequired
	}
	return u.Approve(ctx, ApproveInput{WeekRef: in, Scope: Scope{DayIndices: dayIndices}})
}

func (u *Usecase) ApproveEntries(ctx context.Context, in WeekRef, entryIDs []string) (*Result, error) {
	if len(entryIDs) == 0 {
		return nil, ErrSelectionRequired
	}
	return u.Approve(ctx, ApproveInput{WeekRef: in, Scope: Scope{EntryIDs: entryIDs}})
}

// inScope reports whether a pending cell is part of the scope.
func (s Scope) inScope(e *tsDomain.Entry) bool {
	if len(s.EntryIDs) > 0 {
		for _, id := range s.EntryIDs {
			if id == e.EntryID {
				return true
			}
		}
		return false
	}
	if len(s.DayIndices) > 0 {
		for _, d := range s.DayIndices {
			if d == e.DayIndex {
				return true
			}
		}
		return false
	}
	return true
}

func (s Scope) validate() error {
	for _, d := range s.DayIndices {
		if d < 0 || d >= tsDomain.DaysPerWeek {
			return tsDomain.ErrDayIndex
		}
	}
	return nil
}

func pendingCell(e *tsDomain.Entry) bool {
	return e.ApprovalStatus == tsDomain.StatusPending && e.Minutes > 0
}

// Approve moves the pending cells in scope to approved. Matching nothing is an error.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*Result, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	if err := in.Scope.validate(); err != nil {
		return nil, err
	}
	var res *Result
	err := u.uow.WithinWeekTx(ctx, in.EmployeeID, in.WeekStart, func(r uow.Repos, h *tsDomain.WeekHeader) error {
		if _, err := u.checkManager(ctx, r, in.ManagerID, in.ProjectID); err != nil {
			return err
		}
		if !reviewable(h) {
			return ErrNoPendingEntries
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		count := 0
		for i := range entries {
			e := &entries[i]
			if e.ProjectID != in.ProjectID || !pendingCell(e) || !in.Scope.inScope(e) {
				continue
			}
			e.ApprovalStatus = tsDomain.StatusApproved
			e.RejectedReason = nil
			e.ReviewedBy = &in.ManagerID
			e.ReviewedAt = &now
			if err := r.Timesheets.SaveEntry(ctx, e); err != nil {
				return err
			}
			count++
		}
		if count == 0 {
			return ErrNoPendingEntries
		}
		if allApproved(entries) {
			h.Status = tsDomain.WeekApproved
		}
		h.Version++
		if err := r.Timesheets.SaveWeekHeader(ctx, h); err != nil {
			return err
		}
		res = &Result{Week: tsDomain.BuildWeek(h, entries).Restrict(in.ProjectID), Transitioned: count}
		return nil
	})
	if err != nil {
		u.logReviewError("approve", in.WeekRef, err)
		return nil, err
	}
	u.notifier.Notify(ctx, notification.Notification{
		UserID:      in.EmployeeID,
		Role:        "employee",
		Type:        notification.TypeTimesheetApproved,
		Title:       "Timesheet approved",
		Description: fmt.Sprintf("%d day(s) approved for the week of %s", res.Transitioned, in.WeekStart),
	})
	return res, nil
}

func allApproved(entries []tsDomain.Entry) bool {
	for i := range entries {
		if entries[i].Minutes > 0 && !entries[i].IsApproved() {
			return false
		}
	}
	return true
}

// RequestRevision sends the selected pending cells back with a reason each.
func (u *Usecase) RequestRevision(ctx context.Context, in RevisionInput) (*Result, error) {
	if _, err := tsDomain.ParseWeekStart(in.WeekStart); err != nil {
		return nil, err
	}
	if len(in.Reverts) == 0 {
		return nil, ErrSelectionRequired
	}
	for _, rv := range in.Reverts {
		if strings.TrimSpace(rv.Reason) == "" {
			return nil, ErrReasonRequired
		}
		if rv.EntryID == "" && (rv.DayIndex < 0 || rv.DayIndex >= tsDomain.DaysPerWeek) {
			return nil, tsDomain.ErrDayIndex
		}
	}
	var res *Result
	err := u.uow.WithinWeekTx(ctx, in.EmployeeID, in.WeekStart, func(r uow.Repos, h *tsDomain.WeekHeader) error {
		if _, err := u.checkManager(ctx, r, in.ManagerID, in.ProjectID); err != nil {
			return err
		}
		if !reviewable(h) {
			return ErrNoPendingEntries
		}
		entries, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		count := 0
		for i := range entries {
			e := &entries[i]
			if e.ProjectID != in.ProjectID || !pendingCell(e) {
				continue
			}
			reason, ok := matchRevert(in.Reverts, e)
			if !ok {
				continue
			}
			e.ApprovalStatus = tsDomain.StatusRevisionRequested
			e.RejectedReason = &reason
			e.ReviewedBy = &in.ManagerID
			e.ReviewedAt = &now
			if err := r.Timesheets.SaveEntry(ctx, e); err != nil {
				return err
			}
			count++
		}
		if count == 0 {
			return ErrNoPendingEntries
		}
		h.Status = tsDomain.WeekRejected
		h.Version++
		if err := r.Timesheets.SaveWeekHeader(ctx, h); err != nil {
			return err
		}
		res = &Result{Week: tsDomain.BuildWeek(h, entries).Restrict(in.ProjectID), Transitioned: count}
		return nil
	})
	if err != nil {
		u.logReviewError("request revision", in.WeekRef, err)
		return nil, err
	}
	u.notifier.Notify(ctx, notification.Notification{
		UserID:      in.EmployeeID,
		Role:        "employee",
		Type:        notification.TypeTimesheetRevision,
		Title:       "Timesheet revision requested",
		Description: fmt.Sprintf("%d day(s) need changes for the week of %s: %s", res.Transitioned, in.WeekStart, strings.TrimSpace(in.Reverts[0].Reason)),
	})
	return res, nil
}

func matchRevert(reverts []Revert, e *tsDomain.Entry) (string, bool) {
	for _, rv := range reverts {
		if rv.EntryID != "" {
			if rv.EntryID == e.EntryID {
				return strings.TrimSpace(rv.Reason), true
			}
			continue
		}
		if rv.DayIndex == e.DayIndex && (rv.UDAID == "" || rv.UDAID == e.UDAID) {
			return strings.TrimSpace(rv.Reason), true
		}
	}
	return "", false
}

func (u *Usecase) logReviewError(op string, ref WeekRef, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("manager_id", ref.ManagerID),
		zap.String("project_id", ref.ProjectID),
		zap.String("employee_id", ref.EmployeeID),
		zap.String("week_start", ref.WeekStart),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, ErrNoPendingEntries), errors.Is(err, ErrNotProjectManager),
		errors.Is(err, allocation.ErrProjectNotFound), errors.Is(err, tsDomain.ErrDayIndex):
		u.log.Warn("timesheet review rejected", fields...)
	default:
		u.log.Error("timesheet review failed", fields...)
	}
}
