package timesheet

import (
	"context"
	"sort"

	"ops-portal-backend/internal/domain/allocation"
	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"
)

// weekContext is the calendar, project and allocation data one employee week is gated by.
type weekContext struct {
	weekStart string
	dates     [tsDomain.DaysPerWeek]string
	today     string
	calendar  tsDomain.Calendar
	projects  map[string]allocation.Project
	allocs    map[string][]allocation.Allocation
}

func (u *Usecase) loadContext(ctx context.Context, r uow.Repos, employeeID, weekStart string, projectIDs []string) (*weekContext, error) {
	dates, err := tsDomain.WeekDates(weekStart)
	if err != nil {
		return nil, err
	}
	wc := &weekContext{
		weekStart: weekStart,
		dates:     dates,
		today:     u.now().In(u.loc).Format(tsDomain.DateLayout),
		calendar:  tsDomain.Calendar{Holidays: map[string]string{}},
		projects:  map[string]allocation.Project{},
		allocs:    map[string][]allocation.Allocation{},
	}

	holidays, err := r.Allocations.ListHolidays(ctx, dates[0], dates[tsDomain.DaysPerWeek-1])
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		wc.calendar.Holidays[h.Date] = h.Name
	}

	allocs, err := r.Allocations.ListAllocations(ctx, employeeID, dates[0], dates[tsDomain.DaysPerWeek-1])
	if err != nil {
		return nil, err
	}
	ids := map[string]bool{}
	for _, p := range projectIDs {
		ids[p] = true
	}
	for _, a := range allocs {
		wc.allocs[a.ProjectID] = append(wc.allocs[a.ProjectID], a)
		ids[a.ProjectID] = true
	}

	list := make([]string, 0, len(ids))
	for p := range ids {
		list = append(list, p)
	}
	sort.Strings(list)
	projects, err := r.Allocations.ListProjects(ctx, list)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		wc.projects[p.ProjectID] = p
	}
	return wc, nil
}

func (wc *weekContext) allocated(projectID string) bool { return len(wc.allocs[projectID]) > 0 }

// gates returns one gate per allocation of the project, so gaps between
// allocations stay closed.
func (wc *weekContext) gates(projectID string) []tsDomain.DayGate {
	end := wc.projectEnd(projectID)
	allocs := wc.allocs[projectID]
	out := make([]tsDomain.DayGate, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, tsDomain.DayGate{
			Today:           wc.today,
			ProjectEnd:      end,
			AllocationStart: a.StartDate,
			AllocationEnd:   a.End(),
		})
	}
	return out
}

// editable opens a day when at least one allocation of the project covers it.
// Unallocated projects are closed on every day.
func (wc *weekContext) editable(projectID string) [tsDomain.DaysPerWeek]bool {
	var out [tsDomain.DaysPerWeek]bool
	for _, g := range wc.gates(projectID) {
		days := g.EditableDays(wc.dates)
		for d := range out {
			out[d] = out[d] || days[d]
		}
	}
	return out
}

func (wc *weekContext) projectEnd(projectID string) string {
	p, ok := wc.projects[projectID]
	if !ok {
		return ""
	}
	return p.End()
}

// stamp overwrites the project labels of rows with the stored project record.
func (wc *weekContext) stamp(rows []tsDomain.EntryRow) {
	for i := range rows {
		if p, ok := wc.projects[rows[i].ProjectID]; ok {
			rows[i].ProjectCode = p.Code
			rows[i].ProjectName = p.Name
		}
	}
}

// checkRows rejects changed hours on projects without an allocation and on
// closed days. Clearing a cell is always allowed; approved days are ignored.
func (wc *weekContext) checkRows(stored *tsDomain.Week, rows []tsDomain.EntryRow) error {
	errs := tsDomain.CellErrors{}
	for i := range rows {
		row := &rows[i]
		prev := stored.Find(row.Key())
		editable := wc.editable(row.ProjectID)
		for d := 0; d < tsDomain.DaysPerWeek; d++ {
			if prev != nil && prev.IsApproved(d) {
				continue
			}
			m := row.Minutes(d)
			old := 0
			if prev != nil {
				old = prev.Minutes(d)
			}
			if m == 0 || m == old {
				continue
			}
			if !wc.allocated(row.ProjectID) {
				return &allocationError{projectID: row.ProjectID}
			}
			if !editable[d] {
				errs[tsDomain.CellPath(i, d)] = tsDomain.ErrDayLocked.Error()
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type allocationError struct{ projectID string }

func (e *allocationError) Error() string {
	return tsDomain.ErrNoAllocation.Error() + ": " + e.projectID
}

func (e *allocationError) Unwrap() error { return tsDomain.ErrNoAllocation }

func (wc *weekContext) view(w *tsDomain.Week) *WeekView {
	v := &WeekView{
		EmployeeID:    w.EmployeeID,
		EmployeeName:  w.EmployeeName,
		WeekStartDate: wc.weekStart,
		WeekEndDate:   wc.dates[tsDomain.DaysPerWeek-1],
		Status:        w.Status,
		Version:       w.Version,
		Rows:          make([]RowView, 0, len(w.Rows)),
		Totals:        w.DayTotals(),
		Allocations:   []AllocationView{},
	}
	for d, date := range wc.dates {
		name, holiday := wc.calendar.Holiday(date)
		v.Days[d] = DayInfo{
			Index:   d,
			Name:    tsDomain.DayName(d),
			Date:    date,
			Weekend: tsDomain.IsWeekend(d),
			Future:  date > wc.today,
		}
		if holiday {
			v.Days[d].Holiday = name
		}
	}
	for _, row := range w.Rows {
		rv := RowView{EntryRow: row, Editable: wc.editable(row.ProjectID), ProjectEndDate: wc.projectEnd(row.ProjectID)}
		for d := 0; d < tsDomain.DaysPerWeek; d++ {
			if row.IsApproved(d) {
				rv.Editable[d] = false
			}
		}
		v.Rows = append(v.Rows, rv)
	}

	projectIDs := make([]string, 0, len(wc.allocs))
	for p := range wc.allocs {
		projectIDs = append(projectIDs, p)
	}
	sort.Strings(projectIDs)
	for _, pid := range projectIDs {
		p := wc.projects[pid]
		for _, a := range wc.allocs[pid] {
			v.Allocations = append(v.Allocations, AllocationView{
				ProjectID:   pid,
				ProjectCode: p.Code,
				ProjectName: p.Name,
				StartDate:   a.StartDate,
				EndDate:     a.End(),
				Utilization: a.Utilization,
			})
		}
	}
	return v
}
