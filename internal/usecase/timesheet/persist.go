package timesheet

import (
	"context"

	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"
	"ops-portal-backend/pkg/id"
)

type mode int

const (
	modeDraft mode = iota
	modeSubmit
)

func (m mode) String() string {
	if m == modeSubmit {
		return "submit"
	}
	return "save draft"
}

type cellKey struct {
	project, uda string
	day          int
}

// persist writes the listed rows under the locked header and returns the week as stored afterwards.
func (u *Usecase) persist(ctx context.Context, r uow.Repos, h *tsDomain.WeekHeader, in SaveInput, entries []tsDomain.Entry, wc *weekContext, m mode) (*tsDomain.Week, error) {
	stored := tsDomain.BuildWeek(h, entries)
	if err := tsDomain.ValidateCells(in.Rows); err != nil {
		return nil, err
	}
	if err := wc.checkRows(stored, in.Rows); err != nil {
		return nil, err
	}
	prepared := tsDomain.PrepareDraft(stored, in.Rows)
	wc.stamp(prepared.Rows)

	if h == nil {
		h = &tsDomain.WeekHeader{
			EmployeeID:   in.EmployeeID,
			EmployeeName: in.EmployeeName,
			WeekStart:    in.WeekStart,
			WeekEnd:      wc.dates[tsDomain.DaysPerWeek-1],
		}
	}
	if in.EmployeeName != "" {
		h.EmployeeName = in.EmployeeName
	}

	if err := u.writeRows(ctx, r, h, entries, in.Rows, prepared, wc); err != nil {
		return nil, err
	}

	current, err := r.Timesheets.ListEntries(ctx, in.EmployeeID, in.WeekStart)
	if err != nil {
		return nil, err
	}
	after := tsDomain.BuildWeek(h, current)

	switch m {
	case modeSubmit:
		if len(current) == 0 {
			return nil, tsDomain.ErrEmptyTimesheet
		}
		nonApproved := 0
		for i := range after.Rows {
			nonApproved += after.Rows[i].NonApprovedMinutes()
		}
		if nonApproved == 0 {
			return nil, tsDomain.ErrNothingToSubmit
		}
		if err := tsDomain.ValidateMinimumHours(after); err != nil {
			return nil, err
		}
		for i := range current {
			e := &current[i]
			if e.IsApproved() || (e.ApprovalStatus == tsDomain.StatusPending && e.RejectedReason == nil) {
				continue
			}
			e.ApprovalStatus = tsDomain.StatusPending
			e.RejectedReason = nil
			e.ReviewedBy = nil
			e.ReviewedAt = nil
			if err := r.Timesheets.SaveEntry(ctx, e); err != nil {
				return nil, err
			}
		}
		now := u.now().UTC()
		h.Status = tsDomain.WeekSubmitted
		h.SubmittedAt = &now
	default:
		if !after.HasApprovedDay() {
			h.Status = tsDomain.WeekDraft
		}
	}

	h.Version++
	if err := r.Timesheets.SaveWeekHeader(ctx, h); err != nil {
		return nil, err
	}
	return tsDomain.BuildWeek(h, current), nil
}

// writeRows makes stored cells match prepared for every listed row. Approved
// cells are never touched; cells cleared to zero are deleted.
func (u *Usecase) writeRows(ctx context.Context, r uow.Repos, h *tsDomain.WeekHeader, entries []tsDomain.Entry, listed []tsDomain.EntryRow, prepared *tsDomain.Week, wc *weekContext) error {
	byCell := make(map[cellKey]*tsDomain.Entry, len(entries))
	for i := range entries {
		e := &entries[i]
		byCell[cellKey{e.ProjectID, e.UDAID, e.DayIndex}] = e
	}

	seen := map[tsDomain.RowKey]bool{}
	for i := range listed {
		key := listed[i].Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		target := prepared.Find(key)

		for d := 0; d < tsDomain.DaysPerWeek; d++ {
			existing := byCell[cellKey{key.ProjectID, key.CategoryID, d}]
			if existing != nil && existing.IsApproved() {
				continue
			}
			minutes, comment := 0, ""
			if target != nil {
				minutes = target.Minutes(d)
				comment = target.Comments[d]
			}
			if minutes == 0 {
				if existing != nil {
					if err := r.Timesheets.DeleteEntry(ctx, existing.ID); err != nil {
						return err
					}
				}
				continue
			}
			if existing == nil {
				e := newEntry(h, target, d, wc.dates[d])
				e.Minutes = minutes
				e.Comment = comment
				if err := r.Timesheets.CreateEntry(ctx, e); err != nil {
					return err
				}
				continue
			}
			if existing.Minutes == minutes && existing.Comment == comment &&
				existing.ProjectCode == target.ProjectCode && existing.UDAName == target.CategoryName {
				continue
			}
			existing.Minutes = minutes
			existing.Comment = comment
			existing.ProjectCode = target.ProjectCode
			existing.ProjectName = target.ProjectName
			existing.UDAName = target.CategoryName
			existing.Type = target.Type
			existing.BillableGroup = target.BillableGroup
			existing.EmployeeName = h.EmployeeName
			if err := r.Timesheets.SaveEntry(ctx, existing); err != nil {
				return err
			}
		}
	}
	return nil
}

func newEntry(h *tsDomain.WeekHeader, row *tsDomain.EntryRow, day int, date string) *tsDomain.Entry {
	return &tsDomain.Entry{
		EntryID:        id.NewID32(),
		EmployeeID:     h.EmployeeID,
		EmployeeName:   h.EmployeeName,
		WeekStart:      h.WeekStart,
		ProjectID:      row.ProjectID,
		ProjectCode:    row.ProjectCode,
		ProjectName:    row.ProjectName,
		UDAID:          row.CategoryID,
		UDAName:        row.CategoryName,
		Type:           row.Type,
		BillableGroup:  row.BillableGroup,
		DayIndex:       day,
		WorkDate:       date,
		ApprovalStatus: tsDomain.StatusPending,
	}
}
