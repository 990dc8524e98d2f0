package timesheet

import (
	tsDomain "ops-portal-backend/internal/domain/timesheet"
)

// SaveInput carries a draft or submit payload. Rows not listed are left as stored.
type SaveInput struct {
	EmployeeID   string              `json:"employeeId"`
	EmployeeName string              `json:"employeeName"`
	WeekStart    string              `json:"weekStartDate"`
	Rows         []tsDomain.EntryRow `json:"rows"`
	// ExpectedVersion, when set, must match the stored week version.
	ExpectedVersion *int `json:"expectedVersion,omitempty"`
}

type EditCellInput struct {
	EmployeeID      string  `json:"employeeId"`
	EmployeeName    string  `json:"employeeName"`
	WeekStart       string  `json:"weekStartDate"`
	ProjectID       string  `json:"projectId"`
	CategoryID      string  `json:"categoryId"`
	CategoryName    string  `json:"categoryName"`
	Type            string  `json:"type"`
	BillableGroup   string  `json:"billableGroup"`
	DayIndex        int     `json:"dayIndex"`
	Hours           string  `json:"hours"`
	Comment         *string `json:"comment,omitempty"`
	ExpectedVersion *int    `json:"expectedVersion,omitempty"`
}

type DeleteRowInput struct {
	EmployeeID      string `json:"employeeId"`
	WeekStart       string `json:"weekStartDate"`
	ProjectID       string `json:"projectId"`
	CategoryID      string `json:"udaId"`
	ExpectedVersion *int   `json:"expectedVersion,omitempty"`
}

type DeleteRowResult struct {
	DeletedCount int64 `json:"deletedCount"`
	Version      int   `json:"version"`
}

// CopyForwardInput copies one row, or every row of ProjectID when CategoryID is empty.
type CopyForwardInput struct {
	EmployeeID      string `json:"employeeId"`
	WeekStart       string `json:"weekStartDate"`
	ProjectID       string `json:"projectId"`
	CategoryID      string `json:"categoryId"`
	SourceDay       int    `json:"sourceDay"`
	ExpectedVersion *int   `json:"expectedVersion,omitempty"`
}

type DayInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Weekend bool   `json:"weekend"`
	Holiday string `json:"holiday,omitempty"`
	Future  bool   `json:"future"`
}

type RowView struct {
	tsDomain.EntryRow
	Editable       [tsDomain.DaysPerWeek]bool `json:"editable"`
	ProjectEndDate string                     `json:"projectEndDate,omitempty"`
}

type AllocationView struct {
	ProjectID   string `json:"projectId"`
	ProjectCode string `json:"projectCode"`
	ProjectName string `json:"projectName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Utilization int    `json:"utilization"`
}

// WeekView is a stored week plus everything the grid needs to render it.
type WeekView struct {
	EmployeeID    string                                  `json:"employeeId"`
	EmployeeName  string                                  `json:"employeeName"`
	WeekStartDate string                                  `json:"weekStartDate"`
	WeekEndDate   string                                  `json:"weekEndDate"`
	Status        tsDomain.WeekStatus                     `json:"status"`
	Version       int                                     `json:"version"`
	Days          [tsDomain.DaysPerWeek]DayInfo           `json:"days"`
	Rows          []RowView                               `json:"rows"`
	Totals        [tsDomain.DaysPerWeek]tsDomain.DayTotal `json:"totals"`
	Allocations   []AllocationView                        `json:"allocations"`
}
