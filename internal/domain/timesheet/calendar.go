package timesheet

import "time"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func DayName(day int) string {
	if !validDay(day) {
		return ""
	}
	return dayNames[day]
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseWeekStart parses s and requires it to be a Monday.
func ParseWeekStart(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, ErrNotMonday
	}
	return t, nil
}

// MondayOf returns the ISO week start containing t.
func MondayOf(t time.Time) string {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format(DateLayout)
}

func WeekEnd(weekStart string) (string, error) {
	t, err := ParseWeekStart(weekStart)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, DaysPerWeek-1).Format(DateLayout), nil
}

// WeekDates lists the seven dates of the week starting at weekStart.
func WeekDates(weekStart string) ([DaysPerWeek]string, error) {
	var out [DaysPerWeek]string
	t, err := ParseWeekStart(weekStart)
	if err != nil {
		return out, err
	}
	for d := 0; d < DaysPerWeek; d++ {
		out[d] = t.AddDate(0, 0, d).Format(DateLayout)
	}
	return out, nil
}

func IsWeekend(day int) bool { return day == 5 || day == 6 }

// Calendar carries the non-working days shown alongside a week.
type Calendar struct {
	Holidays map[string]string // date -> name
}

func (c Calendar) Holiday(date string) (string, bool) {
	name, ok := c.Holidays[date]
	return name, ok
}

// DayGate decides whether a day accepts edits for one project row.
// Empty bounds are open.
type DayGate struct {
	Today           string
	ProjectEnd      string
	AllocationStart string
	AllocationEnd   string
}

// Editable compares ISO dates lexically.
func (g DayGate) Editable(date string) bool {
	if g.ProjectEnd != "" && date > g.ProjectEnd {
		return false
	}
	if g.AllocationStart != "" && date < g.AllocationStart {
		return false
	}
	if g.AllocationEnd != "" && date > g.AllocationEnd {
		return false
	}
	if g.Today != "" && date > g.Today {
		return false
	}
	return true
}

// EditableDays evaluates the gate for each date of a week.
func (g DayGate) EditableDays(dates [DaysPerWeek]string) [DaysPerWeek]bool {
	var out [DaysPerWeek]bool
	for d, date := range dates {
		out[d] = g.Editable(date)
	}
	return out
}
