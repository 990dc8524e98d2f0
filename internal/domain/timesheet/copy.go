package timesheet

// CopyOptions describe the week a copy runs in.
type CopyOptions struct {
	Dates      [DaysPerWeek]string
	Calendar   Calendar
	ProjectEnd string
	// Locked optionally blocks further days (e.g. future or outside allocation).
	Locked func(day int) bool
}

func (o CopyOptions) skip(row *EntryRow, day int) bool {
	if IsWeekend(day) {
		return true
	}
	if _, ok := o.Calendar.Holiday(o.Dates[day]); ok {
		return true
	}
	if row.IsApproved(day) {
		return true
	}
	if o.ProjectEnd != "" && o.Dates[day] > o.ProjectEnd {
		return true
	}
	return o.Locked != nil && o.Locked(day)
}

// CopyForward copies row's source day to every later eligible day and reports
// the days written. An empty source is a no-op.
func CopyForward(row *EntryRow, source int, opts CopyOptions) []int {
	if !validDay(source) || row.Minutes(source) == 0 {
		return nil
	}
	value := row.Hours[source]
	var written []int
	for d := source + 1; d < DaysPerWeek; d++ {
		if opts.skip(row, d) {
			continue
		}
		row.Hours[d] = value
		written = append(written, d)
	}
	return written
}

// CopyForwardProject applies CopyForward to every row of a project, each row
// copying its own source value.
func CopyForwardProject(w *Week, projectID string, source int, opts CopyOptions) map[RowKey][]int {
	out := map[RowKey][]int{}
	for i := range w.Rows {
		row := &w.Rows[i]
		if row.ProjectID != projectID {
			continue
		}
		if days := CopyForward(row, source, opts); len(days) > 0 {
			out[row.Key()] = days
		}
	}
	return out
}
