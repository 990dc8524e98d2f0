package timesheetmock

import (
	"context"

	domain "ops-portal-backend/internal/domain/timesheet"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Reads with no func set return context.Canceled; writes are no-ops.
type Repo struct {
	GetWeekHeaderFn          func(ctx context.Context, employeeID, weekStart string) (*domain.WeekHeader, error)
	GetWeekHeaderForUpdateFn func(ctx context.Context, employeeID, weekStart string) (*domain.WeekHeader, error)
	ListWeekHeadersFn        func(ctx context.Context, weekStart string, employeeIDs []string) ([]domain.WeekHeader, error)
	SaveWeekHeaderFn         func(ctx context.Context, h *domain.WeekHeader) error
	ListEntriesFn            func(ctx context.Context, employeeID, weekStart string) ([]domain.Entry, error)
	ListProjectEntriesFn     func(ctx context.Context, projectID, weekStart string) ([]domain.Entry, error)
	CreateEntryFn            func(ctx context.Context, e *domain.Entry) error
	SaveEntryFn              func(ctx context.Context, e *domain.Entry) error
	DeleteEntryFn            func(ctx context.Context, id uint64) error
	DeleteRowFn              func(ctx context.Context, employeeID, weekStart, projectID, udaID string) (int64, error)
}

func (m *Repo) GetWeekHeader(ctx context.Context, employeeID, weekStart string) (*domain.WeekHeader, error) {
	if m.GetWeekHeaderFn != nil {
		return m.GetWeekHeaderFn(ctx, employeeID, weekStart)
	}
	return nil, context.Canceled
}

func (m *Repo) GetWeekHeaderForUpdate(ctx context.Context, employeeID, weekStart string) (*domain.WeekHeader, error) {
	if m.GetWeekHeaderForUpdateFn != nil {
		return m.GetWeekHeaderForUpdateFn(ctx, employeeID, weekStart)
	}
	return nil, context.Canceled
}

func (m *Repo) ListWeekHeaders(ctx context.Context, weekStart string, employeeIDs []string) ([]domain.WeekHeader, error) {
	if m.ListWeekHeadersFn != nil {
		return m.ListWeekHeadersFn(ctx, weekStart, employeeIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveWeekHeader(ctx context.Context, h *domain.WeekHeader) error {
	if m.SaveWeekHeaderFn != nil {
		return m.SaveWeekHeaderFn(ctx, h)
	}
	return nil
}

func (m *Repo) ListEntries(ctx context.Context, employeeID, weekStart string) ([]domain.Entry, error) {
	if m.ListEntriesFn != nil {
		return m.ListEntriesFn(ctx, employeeID, weekStart)
	}
	return nil, context.Canceled
}

func (m *Repo) ListProjectEntries(ctx context.Context, projectID, weekStart string) ([]domain.Entry, error) {
	if m.ListProjectEntriesFn != nil {
		return m.ListProjectEntriesFn(ctx, projectID, weekStart)
	}
	return nil, context.Canceled
}

func (m *Repo) CreateEntry(ctx context.Context, e *domain.Entry) error {
	if m.CreateEntryFn != nil {
		return m.CreateEntryFn(ctx, e)
	}
	return nil
}

func (m *Repo) SaveEntry(ctx context.Context, e *domain.Entry) error {
	if m.SaveEntryFn != nil {
		return m.SaveEntryFn(ctx, e)
	}
	return nil
}

func (m *Repo) DeleteEntry(ctx context.Context, id uint64) error {
	if m.DeleteEntryFn != nil {
		return m.DeleteEntryFn(ctx, id)
	}
	return nil
}

func (m *Repo) DeleteRow(ctx context.Context, employeeID, weekStart, projectID, udaID string) (int64, error) {
	if m.DeleteRowFn != nil {
		return m.DeleteRowFn(ctx, employeeID, weekStart, projectID, udaID)
	}
	return 0, nil
}
