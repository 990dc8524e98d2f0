package timesheet

import (
	"sort"
	"strings"

	"ops-portal-backend/pkg/hhmm"
)

// EntryMeta is the per-day approval record of a row.
type EntryMeta struct {
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
	RejectedReason *string        `json:"rejectedReason"`
	Date           string         `json:"date"`
	EntryID        string         `json:"entryId"`
}

// RowKey identifies a row within one employee week.
type RowKey struct {
	ProjectID  string
	CategoryID string
}

// EntryRow is one project/category line of a week. The fixed-size arrays keep
// hours, comments and meta aligned on the same weekday index.
type EntryRow struct {
	ProjectID     string                  `json:"projectId"`
	ProjectCode   string                  `json:"projectCode"`
	ProjectName   string                  `json:"projectName"`
	CategoryID    string                  `json:"categoryId"`
	CategoryName  string                  `json:"categoryName"`
	Type          string                  `json:"type"`
	BillableGroup string                  `json:"billableGroup"`
	Hours         [DaysPerWeek]string     `json:"hours"`
	Comments      [DaysPerWeek]string     `json:"comments"`
	EntryMeta     [DaysPerWeek]*EntryMeta `json:"entryMeta"`
}

func (r *EntryRow) Key() RowKey { return RowKey{ProjectID: r.ProjectID, CategoryID: r.CategoryID} }

func validDay(day int) bool { return day >= 0 && day < DaysPerWeek }

func (r *EntryRow) IsApproved(day int) bool {
	if !validDay(day) {
		return false
	}
	m := r.EntryMeta[day]
	return m != nil && m.ApprovalStatus == StatusApproved
}

func (r *EntryRow) HasApprovedDay() bool {
	for d := 0; d < DaysPerWeek; d++ {
		if r.IsApproved(d) {
			return true
		}
	}
	return false
}

// Minutes returns the parsed value of a day; unparsable values count as zero.
func (r *EntryRow) Minutes(day int) int {
	if !validDay(day) {
		return 0
	}
	m, err := hhmm.Parse(r.Hours[day])
	if err != nil {
		return 0
	}
	return m
}

func (r *EntryRow) NonApprovedMinutes() int {
	total := 0
	for d := 0; d < DaysPerWeek; d++ {
		if !r.IsApproved(d) {
			total += r.Minutes(d)
		}
	}
	return total
}

// SetHours edits one day. Approved days and malformed values are rejected
// without touching the row.
func (r *EntryRow) SetHours(day int, value string) error {
	if !validDay(day) {
		return ErrDayIndex
	}
	if r.IsApproved(day) {
		return ErrDayApproved
	}
	m, err := hhmm.Parse(value)
	if err != nil {
		return ErrInvalidDuration
	}
	r.Hours[day] = hhmm.Format(m)
	if m == 0 {
		r.EntryMeta[day] = nil
	}
	return nil
}

func (r *EntryRow) SetComment(day int, comment string) error {
	if !validDay(day) {
		return ErrDayIndex
	}
	if r.IsApproved(day) {
		return ErrDayApproved
	}
	r.Comments[day] = strings.TrimSpace(comment)
	return nil
}

// Week is the aggregate exchanged with clients.
type Week struct {
	EmployeeID    string     `json:"employeeId"`
	EmployeeName  string     `json:"employeeName"`
	WeekStartDate string     `json:"weekStartDate"`
	WeekEndDate   string     `json:"weekEndDate"`
	Rows          []EntryRow `json:"rows"`
	Status        WeekStatus `json:"status"`
	Version       int        `json:"version"`
}

func (w *Week) Find(key RowKey) *EntryRow {
	for i := range w.Rows {
		if w.Rows[i].Key() == key {
			return &w.Rows[i]
		}
	}
	return nil
}

func (w *Week) HasApprovedDay() bool {
	for i := range w.Rows {
		if w.Rows[i].HasApprovedDay() {
			return true
		}
	}
	return false
}

// DayTotal splits a day's minutes by approval state.
type DayTotal struct {
	NonApproved int `json:"nonApproved"`
	Approved    int `json:"approved"`
}

func (w *Week) DayTotals() [DaysPerWeek]DayTotal {
	var out [DaysPerWeek]DayTotal
	for i := range w.Rows {
		row := &w.Rows[i]
		for d := 0; d < DaysPerWeek; d++ {
			if row.IsApproved(d) {
				out[d].Approved += row.Minutes(d)
			} else {
				out[d].NonApproved += row.Minutes(d)
			}
		}
	}
	return out
}

// BuildWeek folds stored day-cells into rows ordered by project code then category name.
func BuildWeek(header *WeekHeader, entries []Entry) *Week {
	w := &Week{Rows: []EntryRow{}}
	if header != nil {
		w.EmployeeID = header.EmployeeID
		w.EmployeeName = header.EmployeeName
		w.WeekStartDate = header.WeekStart
		w.WeekEndDate = header.WeekEnd
		w.Status = header.Status
		w.Version = header.Version
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ProjectCode != b.ProjectCode {
			return a.ProjectCode < b.ProjectCode
		}
		if a.UDAName != b.UDAName {
			return a.UDAName < b.UDAName
		}
		return a.DayIndex < b.DayIndex
	})

	for _, e := range sorted {
		if !validDay(e.DayIndex) {
			continue
		}
		if w.EmployeeID == "" {
			w.EmployeeID = e.EmployeeID
			w.EmployeeName = e.EmployeeName
			w.WeekStartDate = e.WeekStart
		}
		key := RowKey{ProjectID: e.ProjectID, CategoryID: e.UDAID}
		row := w.Find(key)
		if row == nil {
			w.Rows = append(w.Rows, EntryRow{
				ProjectID:     e.ProjectID,
				ProjectCode:   e.ProjectCode,
				ProjectName:   e.ProjectName,
				CategoryID:    e.UDAID,
				CategoryName:  e.UDAName,
				Type:          e.Type,
				BillableGroup: e.BillableGroup,
			})
			row = &w.Rows[len(w.Rows)-1]
		}
		if e.Minutes <= 0 {
			continue
		}
		row.Hours[e.DayIndex] = hhmm.Format(e.Minutes)
		row.Comments[e.DayIndex] = e.Comment
		row.EntryMeta[e.DayIndex] = &EntryMeta{
			ApprovalStatus: e.ApprovalStatus,
			RejectedReason: e.RejectedReason,
			Date:           e.WorkDate,
			EntryID:        e.EntryID,
		}
	}
	if w.WeekEndDate == "" && w.WeekStartDate != "" {
		if end, err := WeekEnd(w.WeekStartDate); err == nil {
			w.WeekEndDate = end
		}
	}
	return w
}

// Restrict returns a copy holding only the rows of one project.
func (w *Week) Restrict(projectID string) *Week {
	out := *w
	out.Rows = []EntryRow{}
	for _, r := range w.Rows {
		if r.ProjectID == projectID {
			out.Rows = append(out.Rows, r)
		}
	}
	return &out
}
