package timesheet

import (
	"errors"
	"time"
)

// DaysPerWeek is the row width; index 0 is Monday.
const DaysPerWeek = 7

// MinDailyMinutes is the minimum a day with non-approved hours must total on submit.
const MinDailyMinutes = 8 * 60

type ApprovalStatus string

const (
	StatusPending           ApprovalStatus = "pending"
	StatusApproved          ApprovalStatus = "approved"
	StatusRevisionRequested ApprovalStatus = "revision_requested"
)

type WeekStatus string

const (
	WeekNone      WeekStatus = ""
	WeekDraft     WeekStatus = "draft"
	WeekSubmitted WeekStatus = "submitted"
	WeekApproved  WeekStatus = "approved"
	WeekRejected  WeekStatus = "rejected"
)

var (
	ErrNotFound           = errors.New("timesheet not found")
	ErrNotMonday          = errors.New("week_start must be a Monday")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrDayIndex           = errors.New("day index must be between 0 and 6")
	ErrDayApproved        = errors.New("day is already approved")
	ErrDayLocked          = errors.New("day is not open for entry")
	ErrInvalidDuration    = errors.New("hours must be HH:mm")
	ErrEmptyTimesheet     = errors.New("timesheet is empty")
	ErrNothingToSubmit    = errors.New("no unapproved hours to submit")
	ErrWeekApproved       = errors.New("week is already approved")
	ErrRowHasApprovedDays = errors.New("row has approved days and cannot be deleted")
	ErrRowNotFound        = errors.New("row not found")
	ErrNoAllocation       = errors.New("employee is not allocated to the project for this week")
	ErrStaleWeek          = errors.New("week was modified by another request, reload and retry")
)

// Entry is one persisted day-cell: (employee, week, project, uda, day).
type Entry struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID        string         `gorm:"column:entry_id;size:32;uniqueIndex" json:"entryId"`
	EmployeeID     string         `gorm:"column:employee_id;size:64;not null;uniqueIndex:ux_entries_cell,priority:1;index:idx_entries_week" json:"employeeId"`
	EmployeeName   string         `gorm:"column:employee_name;size:255" json:"employeeName"`
	WeekStart      string         `gorm:"column:week_start;size:10;not null;uniqueIndex:ux_entries_cell,priority:2;index:idx_entries_week;index:idx_entries_project_week,priority:2" json:"weekStartDate"`
	ProjectID      string         `gorm:"column:project_id;size:64;not null;uniqueIndex:ux_entries_cell,priority:3;index:idx_entries_project_week,priority:1" json:"projectId"`
	ProjectCode    string         `gorm:"column:project_code;size:64" json:"projectCode"`
	ProjectName    string         `gorm:"column:project_name;size:255" json:"projectName"`
	UDAID          string         `gorm:"column:uda_id;size:64;not null;uniqueIndex:ux_entries_cell,priority:4" json:"udaId"`
	UDAName        string         `gorm:"column:uda_name;size:255" json:"udaName"`
	Type           string         `gorm:"column:type;size:64" json:"type"`
	BillableGroup  string         `gorm:"column:billable_group;size:32" json:"billableGroup"`
	DayIndex       int            `gorm:"column:day_index;not null;uniqueIndex:ux_entries_cell,priority:5" json:"dayIndex"`
	WorkDate       string         `gorm:"column:work_date;size:10;not null" json:"date"`
	Minutes        int            `gorm:"column:minutes;not null" json:"minutes"`
	Comment        string         `gorm:"column:comment;type:text" json:"comment"`
	ApprovalStatus ApprovalStatus `gorm:"column:approval_status;size:32;not null;default:'pending'" json:"approvalStatus"`
	RejectedReason *string        `gorm:"column:rejected_reason;type:text" json:"rejectedReason"`
	ReviewedBy     *string        `gorm:"column:reviewed_by;size:64" json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time     `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Entry) TableName() string { return "timesheet_entries" }

func (e *Entry) IsApproved() bool { return e.ApprovalStatus == StatusApproved }

// WeekHeader is the coarse per employee+week summary. Day-cells are authoritative.
type WeekHeader struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EmployeeID   string     `gorm:"column:employee_id;size:64;not null;uniqueIndex:ux_weeks_employee_week,priority:1" json:"employeeId"`
	EmployeeName string     `gorm:"column:employee_name;size:255" json:"employeeName"`
	WeekStart    string     `gorm:"column:week_start;size:10;not null;uniqueIndex:ux_weeks_employee_week,priority:2" json:"weekStartDate"`
	WeekEnd      string     `gorm:"column:week_end;size:10;not null" json:"weekEndDate"`
	Status       WeekStatus `gorm:"column:status;size:16" json:"status"`
	Version      int        `gorm:"column:version;not null;default:0" json:"version"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submittedAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (WeekHeader) TableName() string { return "timesheet_weeks" }
