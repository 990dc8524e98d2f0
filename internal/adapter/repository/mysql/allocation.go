package mysql

import (
	"context"

	allocDomain "ops-portal-backend/internal/domain/allocation"

	"gorm.io/gorm"
)

type AllocationRepository struct{ db *gorm.DB }

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) GetProject(ctx context.Context, projectID string) (*allocDomain.Project, error) {
	var out allocDomain.Project
	res := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&out)
	return &out, res.Error
}

func (r *AllocationRepository) ListProjects(ctx context.Context, projectIDs []string) ([]allocDomain.Project, error) {
	var out []allocDomain.Project
	if len(projectIDs) == 0 {
		return out, nil
	}
	res := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).Order("code ASC").Find(&out)
	return out, res.Error
}

// Dates are ISO strings, so range checks compare lexically.
func (r *AllocationRepository) ListAllocations(ctx context.Context, employeeID, from, to string) ([]allocDomain.Allocation, error) {
	var out []allocDomain.Allocation
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)", employeeID, to, from).
		Order("project_id ASC, start_date ASC").
		Find(&out)
	return out, res.Error
}

func (r *AllocationRepository) ListHolidays(ctx context.Context, from, to string) ([]allocDomain.Holiday, error) {
	var out []allocDomain.Holiday
	res := r.db.WithContext(ctx).Where("date BETWEEN ? AND ?", from, to).Order("date ASC").Find(&out)
	return out, res.Error
}
