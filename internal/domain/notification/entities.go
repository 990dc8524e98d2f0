package notification

import (
	"context"
	"time"
)

type Type string

const (
	TypeTimesheetSubmitted Type = "timesheet_submitted"
	TypeTimesheetApproved  Type = "timesheet_approved"
	TypeTimesheetRevision  Type = "timesheet_revision"
	TypeTicketAssigned     Type = "ticket_assigned"
)

type Notification struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID      string    `gorm:"column:user_id;size:64;not null;index" json:"userId"`
	Role        string    `gorm:"column:role;size:32" json:"role"`
	Type        Type      `gorm:"column:type;size:32;not null" json:"type"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Read        bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error)
}

// Notifier delivers fire-and-forget notifications. Failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
