package allocationmock

import (
	"context"

	domain "ops-portal-backend/internal/domain/allocation"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetProjectFn      func(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjectsFn    func(ctx context.Context, projectIDs []string) ([]domain.Project, error)
	ListAllocationsFn func(ctx context.Context, employeeID, from, to string) ([]domain.Allocation, error)
	ListHolidaysFn    func(ctx context.Context, from, to string) ([]domain.Holiday, error)
}

func (m *Repo) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if m.GetProjectFn != nil {
		return m.GetProjectFn(ctx, projectID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListProjects(ctx context.Context, projectIDs []string) ([]domain.Project, error) {
	if m.ListProjectsFn != nil {
		return m.ListProjectsFn(ctx, projectIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) ListAllocations(ctx context.Context, employeeID, from, to string) ([]domain.Allocation, error) {
	if m.ListAllocationsFn != nil {
		return m.ListAllocationsFn(ctx, employeeID, from, to)
	}
	return nil, context.Canceled
}

// ListHolidays defaults to an empty calendar.
func (m *Repo) ListHolidays(ctx context.Context, from, to string) ([]domain.Holiday, error) {
	if m.ListHolidaysFn != nil {
		return m.ListHolidaysFn(ctx, from, to)
	}
	return nil, nil
}
