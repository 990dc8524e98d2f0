package admin

import (
	"ops-portal-backend/internal/domain/category"
	"ops-portal-backend/internal/domain/user"
)

type CreateUserInput struct {
	UserID     string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       user.Role `json:"role"`
	Department string    `json:"department"`
}

// UpdateUserInput changes only the fields that are set.
type UpdateUserInput struct {
	UserID     string     `json:"-"`
	Name       *string    `json:"name"`
	Role       *user.Role `json:"role"`
	Department *string    `json:"department"`
	IsActive   *bool      `json:"isActive"`
}

type CategoryInput struct {
	HighLevelCategory string                  `json:"highLevelCategory"`
	SubCategory       string                  `json:"subCategory"`
	RequiresApproval  bool                    `json:"requiresApproval"`
	ApprovalConfig    category.ApprovalConfig `json:"approvalConfig"`
	ProcessingQueue   string                  `json:"processingQueue"`
	SpecialistQueue   string                  `json:"specialistQueue"`
	// nil means active
	IsActive *bool `json:"isActive"`
	Order    int   `json:"order"`
}

type UpdateCategoryInput struct {
	ConfigID         string  `json:"-"`
	SubCategory      *string `json:"subCategory"`
	RequiresApproval *bool   `json:"requiresApproval"`
	ProcessingQueue  *string `json:"processingQueue"`
	SpecialistQueue  *string `json:"specialistQueue"`
	IsActive         *bool   `json:"isActive"`
	Order            *int    `json:"order"`
}

type UpdateApproversInput struct {
	ConfigID  string              `json:"-"`
	Level     string              `json:"-"`
	Enabled   bool                `json:"enabled"`
	Approvers []category.Approver `json:"approvers"`
}

// CategoryView is a config plus its rendered routing.
type CategoryView struct {
	category.SubCategoryConfig
	FlowLabel string `json:"flowLabel"`
}

func newCategoryView(c category.SubCategoryConfig) CategoryView {
	return CategoryView{SubCategoryConfig: c, FlowLabel: category.FlowLabel(c)}
}
