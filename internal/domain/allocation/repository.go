package allocation

import "context"

type Repository interface {
	// GetProject returns gorm.ErrRecordNotFound when absent.
	GetProject(ctx context.Context, projectID string) (*Project, error)
	ListProjects(ctx context.Context, projectIDs []string) ([]Project, error)
	// ListAllocations returns the employee's allocations overlapping [from, to].
	ListAllocations(ctx context.Context, employeeID, from, to string) ([]Allocation, error)
	ListHolidays(ctx context.Context, from, to string) ([]Holiday, error)
}
