package ticket

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("ticket not found")
	ErrNotVisible      = errors.New("ticket is not in the IT queue")
	ErrAlreadyAssigned = errors.New("ticket is already assigned, use reassign")
	ErrNotAssigned     = errors.New("ticket has no assignee to replace")
	ErrSameAssignee    = errors.New("ticket is already assigned to this specialist")
	ErrNotITSpecialist = errors.New("assignee is not an active IT specialist")
)

// Statuses seen in the helpdesk lifecycle. Legacy records use mixed casing.
const (
	StatusOpen      = "open"
	StatusPending   = "pending"
	StatusReopened  = "Reopened"
	StatusInQueue   = "In Queue"
	StatusRouted    = "Routed"
	StatusApproved  = "Approved"
	StatusAssigned  = "Assigned"
	StatusProgress  = "In Progress"
	StatusResolved  = "Resolved"
	StatusClosed    = "Closed"
	StatusCancelled = "Cancelled"
)

const (
	ModuleIT = "IT"
	RoutedIT = "IT"
)

// Assignment is embedded in the ticket row.
type Assignment struct {
	AssignedToID   string     `gorm:"column:to_id;size:64;index" json:"assignedToId"`
	AssignedToName string     `gorm:"column:to_name;size:255" json:"assignedToName"`
	AssignedBy     string     `gorm:"column:by_id;size:64" json:"assignedBy"`
	AssignedByName string     `gorm:"column:by_name;size:255" json:"assignedByName"`
	AssignedAt     *time.Time `gorm:"column:at" json:"assignedAt"`
	Notes          string     `gorm:"column:notes;type:text" json:"notes"`
}

type Ticket struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TicketID          string     `gorm:"column:ticket_id;size:32;not null;uniqueIndex" json:"id"`
	TicketNumber      string     `gorm:"column:ticket_number;size:32;not null;uniqueIndex" json:"ticketNumber"`
	Subject           string     `gorm:"column:subject;size:255;not null" json:"subject"`
	UserID            string     `gorm:"column:user_id;size:64;index" json:"userId"`
	UserName          string     `gorm:"column:user_name;size:255" json:"userName"`
	Module            string     `gorm:"column:module;size:32" json:"module"`
	HighLevelCategory string     `gorm:"column:high_level_category;size:128" json:"highLevelCategory"`
	SubCategory       string     `gorm:"column:sub_category;size:128" json:"subCategory"`
	RequiresApproval  bool       `gorm:"column:requires_approval" json:"requiresApproval"`
	ApprovalCompleted bool       `gorm:"column:approval_completed" json:"approvalCompleted"`
	RoutedTo          string     `gorm:"column:routed_to;size:32" json:"routedTo"`
	Status            string     `gorm:"column:status;size:32;index" json:"status"`
	Urgency           string     `gorm:"column:urgency;size:16" json:"urgency"`
	Assignment        Assignment `gorm:"embedded;embeddedPrefix:assignment_" json:"assignment"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Ticket) TableName() string { return "helpdesk_tickets" }

func (t *Ticket) IsAssigned() bool { return t.Assignment.AssignedToID != "" }

type Action string

const (
	ActionAssigned   Action = "assigned"
	ActionReassigned Action = "reassigned"
)

// History is the audit trail of assignment changes.
type History struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TicketID  string    `gorm:"column:ticket_id;size:32;not null;index" json:"ticketId"`
	Action    Action    `gorm:"column:action;size:32;not null" json:"action"`
	FromID    string    `gorm:"column:from_id;size:64" json:"fromId,omitempty"`
	FromName  string    `gorm:"column:from_name;size:255" json:"fromName,omitempty"`
	ToID      string    `gorm:"column:to_id;size:64" json:"toId"`
	ToName    string    `gorm:"column:to_name;size:255" json:"toName"`
	ActorID   string    `gorm:"column:actor_id;size:64" json:"actorId"`
	ActorName string    `gorm:"column:actor_name;size:255" json:"actorName"`
	Notes     string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (History) TableName() string { return "ticket_history" }
