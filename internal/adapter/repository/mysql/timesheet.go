package mysql

import (
	"context"

	tsDomain "ops-portal-backend/internal/domain/timesheet"

	"gorm.io/gorm"
)

type TimesheetRepository struct{ db *gorm.DB }

func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository { return &TimesheetRepository{db: db} }

func (r *TimesheetRepository) GetWeekHeader(ctx context.Context, employeeID, weekStart string) (*tsDomain.WeekHeader, error) {
	var out tsDomain.WeekHeader
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND week_start = ?", employeeID, weekStart).
		First(&out)
	return &out, res.Error
}

func (r *TimesheetRepository) GetWeekHeaderForUpdate(ctx context.Context, employeeID, weekStart string) (*tsDomain.WeekHeader, error) {
	var out tsDomain.WeekHeader
	res := forUpdate(r.db.WithContext(ctx)).
		Where("employee_id = ? AND week_start = ?", employeeID, weekStart).
		First(&out)
	return &out, res.Error
}

func (r *TimesheetRepository) ListWeekHeaders(ctx context.Context, weekStart string, employeeIDs []string) ([]tsDomain.WeekHeader, error) {
	var out []tsDomain.WeekHeader
	q := r.db.WithContext(ctx).Where("week_start = ?", weekStart)
	if len(employeeIDs) > 0 {
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	res := q.Order("employee_id ASC").Find(&out)
	return out, res.Error
}

func (r *TimesheetRepository) SaveWeekHeader(ctx context.Context, h *tsDomain.WeekHeader) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *TimesheetRepository) ListEntries(ctx context.Context, employeeID, weekStart string) ([]tsDomain.Entry, error) {
	var out []tsDomain.Entry
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND week_start = ?", employeeID, weekStart).
		Order("project_code ASC, uda_name ASC, day_index ASC").
		Find(&out)
	return out, res.Error
}

func (r *TimesheetRepository) ListProjectEntries(ctx context.Context, projectID, weekStart string) ([]tsDomain.Entry, error) {
	var out []tsDomain.Entry
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND week_start = ?", projectID, weekStart).
		Order("employee_id ASC, uda_name ASC, day_index ASC").
		Find(&out)
	return out, res.Error
}

func (r *TimesheetRepository) CreateEntry(ctx context.Context, e *tsDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TimesheetRepository) SaveEntry(ctx context.Context, e *tsDomain.Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *TimesheetRepository) DeleteEntry(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&tsDomain.Entry{}, id).Error
}

// DeleteRow removes every cell of one project/category line and reports how many went.
func (r *TimesheetRepository) DeleteRow(ctx context.Context, employeeID, weekStart, projectID, udaID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND week_start = ? AND project_id = ? AND uda_id = ?", employeeID, weekStart, projectID, udaID).
		Delete(&tsDomain.Entry{})
	return res.RowsAffected, res.Error
}
