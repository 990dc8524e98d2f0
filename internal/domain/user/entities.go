package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidRole    = errors.New("unknown role")
	ErrDuplicateEmail = errors.New("email already in use")
)

type Role string

const (
	RoleEmployee     Role = "employee"
	RoleManager      Role = "manager"
	RoleITAdmin      Role = "it_admin"
	RoleITSpecialist Role = "it_specialist"
	RoleSuperAdmin   Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleITAdmin, RoleITSpecialist, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID     string    `gorm:"column:user_id;size:64;not null;uniqueIndex" json:"id"`
	Name       string    `gorm:"column:name;size:255;not null" json:"name"`
	Email      string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Role       Role      `gorm:"column:role;size:32;not null;index" json:"role"`
	Department string    `gorm:"column:department;size:128" json:"department"`
	IsActive   bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
