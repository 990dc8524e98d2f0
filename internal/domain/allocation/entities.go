package allocation

import (
	"errors"
	"time"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

// Project is the billing unit an employee logs hours against.
type Project struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ProjectID string    `gorm:"column:project_id;size:64;not null;uniqueIndex" json:"projectId"`
	Code      string    `gorm:"column:code;size:64;not null" json:"projectCode"`
	Name      string    `gorm:"column:name;size:255;not null" json:"projectName"`
	ManagerID string    `gorm:"column:manager_id;size:64;index" json:"managerId"`
	EndDate   *string   `gorm:"column:end_date;size:10" json:"endDate"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// End returns the end date or "" when the project is open-ended.
func (p *Project) End() string {
	if p == nil || p.EndDate == nil {
		return ""
	}
	return *p.EndDate
}

// Allocation (FL) places an employee on a project for a date window.
type Allocation struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EmployeeID  string    `gorm:"column:employee_id;size:64;not null;index:idx_alloc_employee" json:"employeeId"`
	ProjectID   string    `gorm:"column:project_id;size:64;not null;index" json:"projectId"`
	StartDate   string    `gorm:"column:start_date;size:10;not null" json:"startDate"`
	EndDate     *string   `gorm:"column:end_date;size:10" json:"endDate"`
	Utilization int       `gorm:"column:utilization;not null" json:"utilization"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Allocation) TableName() string { return "allocations" }

func (a *Allocation) End() string {
	if a.EndDate == nil {
		return ""
	}
	return *a.EndDate
}

// Overlaps reports whether the allocation window touches [from, to].
func (a *Allocation) Overlaps(from, to string) bool {
	if a.StartDate > to {
		return false
	}
	end := a.End()
	return end == "" || end >= from
}

type Holiday struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Date string `gorm:"column:date;size:10;not null;uniqueIndex" json:"date"`
	Name string `gorm:"column:name;size:255;not null" json:"name"`
}

func (Holiday) TableName() string { return "holidays" }
