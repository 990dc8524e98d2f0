package timesheet

import "context"

type Repository interface {
	// Week header; returns gorm.ErrRecordNotFound when absent.
	GetWeekHeader(ctx context.Context, employeeID, weekStart string) (*WeekHeader, error)
	// Same as GetWeekHeader but takes a row lock inside a transaction.
	GetWeekHeaderForUpdate(ctx context.Context, employeeID, weekStart string) (*WeekHeader, error)
	ListWeekHeaders(ctx context.Context, weekStart string, employeeIDs []string) ([]WeekHeader, error)
	SaveWeekHeader(ctx context.Context, h *WeekHeader) error

	// Day-cells
	ListEntries(ctx context.Context, employeeID, weekStart string) ([]Entry, error)
	ListProjectEntries(ctx context.Context, projectID, weekStart string) ([]Entry, error)
	CreateEntry(ctx context.Context, e *Entry) error
	SaveEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, id uint64) error
	DeleteRow(ctx context.Context, employeeID, weekStart, projectID, udaID string) (int64, error)
}
