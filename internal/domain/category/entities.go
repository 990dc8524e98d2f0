package category

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrLevel         = errors.New("approval level must be l1, l2 or l3")
	ErrNoActiveLevel = errors.New("category requires approval but has no active approval level")
	ErrDuplicate     = errors.New("category already exists")
)

type Approver struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

type ApprovalLevel struct {
	Enabled   bool       `json:"enabled"`
	Approvers []Approver `json:"approvers"`
}

// IsApprovalLevelActive is the only test for whether a level takes part in a flow.
// An enabled level without approvers counts as disabled.
func IsApprovalLevelActive(level ApprovalLevel) bool {
	return level.Enabled && len(level.Approvers) > 0
}

type ApprovalConfig struct {
	L1 ApprovalLevel `json:"l1"`
	L2 ApprovalLevel `json:"l2"`
	L3 ApprovalLevel `json:"l3"`
}

// Level names are l1, l2 and l3.
func (c *ApprovalConfig) Level(name string) (*ApprovalLevel, error) {
	switch strings.ToLower(name) {
	case "l1":
		return &c.L1, nil
	case "l2":
		return &c.L2, nil
	case "l3":
		return &c.L3, nil
	}
	return nil, ErrLevel
}

// ActiveLevels lists the labels of the levels in flow order.
func (c ApprovalConfig) ActiveLevels() []string {
	var out []string
	for i, l := range []ApprovalLevel{c.L1, c.L2, c.L3} {
		if IsApprovalLevelActive(l) {
			out = append(out, "L"+string(rune('1'+i)))
		}
	}
	return out
}

// SubCategoryConfig routes tickets of one sub category through approvers to a queue.
type SubCategoryConfig struct {
	ID                uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ConfigID          string         `gorm:"column:config_id;size:32;not null;uniqueIndex" json:"id"`
	HighLevelCategory string         `gorm:"column:high_level_category;size:128;not null;uniqueIndex:ux_subcat,priority:1" json:"highLevelCategory"`
	SubCategory       string         `gorm:"column:sub_category;size:128;not null;uniqueIndex:ux_subcat,priority:2" json:"subCategory"`
	RequiresApproval  bool           `gorm:"column:requires_approval;not null" json:"requiresApproval"`
	ApprovalConfig    ApprovalConfig `gorm:"column:approval_config;type:text;serializer:json" json:"approvalConfig"`
	ProcessingQueue   string         `gorm:"column:processing_queue;size:128" json:"processingQueue"`
	SpecialistQueue   string         `gorm:"column:specialist_queue;size:128" json:"specialistQueue"`
	IsActive          bool           `gorm:"column:is_active;not null" json:"isActive"`
	Order             int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (SubCategoryConfig) TableName() string { return "subcategory_configs" }

// Check rejects configs that need approval but could never get it.
func (c *SubCategoryConfig) Check() error {
	if c.RequiresApproval && len(c.ApprovalConfig.ActiveLevels()) == 0 {
		return ErrNoActiveLevel
	}
	return nil
}

// FlowLabel renders the routing, e.g. "L1 → L2 → IT Queue".
func FlowLabel(c SubCategoryConfig) string {
	queue := c.ProcessingQueue
	if queue == "" {
		queue = "Processing Queue"
	}
	levels := c.ApprovalConfig.ActiveLevels()
	if !c.RequiresApproval || len(levels) == 0 {
		return "Direct to " + queue
	}
	return strings.Join(append(levels, queue), " → ")
}
