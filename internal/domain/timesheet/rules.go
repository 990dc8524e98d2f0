package timesheet

import (
	"fmt"
	"sort"
	"strings"

	"ops-portal-backend/pkg/hhmm"
)

// DayShortfall is one day under the daily minimum.
type DayShortfall struct {
	DayIndex     int    `json:"dayIndex"`
	Day          string `json:"day"`
	TotalMinutes int    `json:"totalMinutes"`
	Total        string `json:"total"`
}

type ShortfallError struct {
	Days []DayShortfall
}

func (e *ShortfallError) Error() string {
	parts := make([]string, 0, len(e.Days))
	for _, d := range e.Days {
		total := d.Total
		if total == "" {
			total = "00:00"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", d.Day, total))
	}
	return "each day with hours must total at least 8 hours: " + strings.Join(parts, ", ")
}

// CellErrors maps a cell path such as rows[0].hours[2] to its problem.
type CellErrors map[string]string

func (e CellErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid cells: " + strings.Join(parts, "; ")
}

func CellPath(row, day int) string { return fmt.Sprintf("rows[%d].hours[%d]", row, day) }

// ValidateCells checks every hours value parses as HH:mm.
func ValidateCells(rows []EntryRow) error {
	errs := CellErrors{}
	for i := range rows {
		for d := 0; d < DaysPerWeek; d++ {
			if !hhmm.Valid(rows[i].Hours[d]) {
				errs[CellPath(i, d)] = ErrInvalidDuration.Error()
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateMinimumHours enforces the daily minimum over non-approved hours only.
// Days without non-approved hours are exempt, whatever is already approved.
func ValidateMinimumHours(w *Week) error {
	totals := w.DayTotals()
	var short []DayShortfall
	for d, t := range totals {
		if t.NonApproved > 0 && t.NonApproved < MinDailyMinutes {
			short = append(short, DayShortfall{
				DayIndex:     d,
				Day:          DayName(d),
				TotalMinutes: t.NonApproved,
				Total:        hhmm.Format(t.NonApproved),
			})
		}
	}
	if len(short) > 0 {
		return &ShortfallError{Days: short}
	}
	return nil
}

// PrepareDraft builds what may be written for incoming rows. Days approved in
// stored are blanked so they are never overwritten, and rows left with no
// non-approved hours are dropped.
func PrepareDraft(stored *Week, incoming []EntryRow) *Week {
	out := &Week{Rows: []EntryRow{}}
	if stored != nil {
		out.EmployeeID = stored.EmployeeID
		out.EmployeeName = stored.EmployeeName
		out.WeekStartDate = stored.WeekStartDate
		out.WeekEndDate = stored.WeekEndDate
		out.Status = stored.Status
		out.Version = stored.Version
	}
	for _, in := range incoming {
		row := in
		row.EntryMeta = [DaysPerWeek]*EntryMeta{}
		var prev *EntryRow
		if stored != nil {
			prev = stored.Find(row.Key())
		}
		for d := 0; d < DaysPerWeek; d++ {
			if prev != nil && prev.IsApproved(d) {
				row.Hours[d] = ""
				row.Comments[d] = ""
				continue
			}
			if m, err := hhmm.Parse(row.Hours[d]); err == nil {
				row.Hours[d] = hhmm.Format(m)
			}
			if prev != nil && row.Minutes(d) > 0 {
				row.EntryMeta[d] = prev.EntryMeta[d]
			}
		}
		if row.NonApprovedMinutes() == 0 {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
