package admin

import (
	"context"
	"errors"
	"strings"

	"ops-portal-backend/internal/domain/category"
	"ops-portal-backend/internal/domain/uow"
	"ops-portal-backend/internal/domain/user"
	"ops-portal-backend/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrCategoryName  = errors.New("high level category and sub category are required")
)

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

func (u *Usecase) CreateUser(ctx context.Context, in CreateUserInput) (*user.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case name == "":
		return nil, ErrNameRequired
	case email == "":
		return nil, ErrEmailRequired
	case !in.Role.Valid():
		return nil, user.ErrInvalidRole
	}

	out := &user.User{
		UserID:     strings.TrimSpace(in.UserID),
		Name:       name,
		Email:      email,
		Role:       in.Role,
		Department: strings.TrimSpace(in.Department),
		IsActive:   true,
	}
	if out.UserID == "" {
		out.UserID = id.NewID32()
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Users.GetByEmail(ctx, email)
		if err == nil {
			return user.ErrDuplicateEmail
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.Users.Create(ctx, out)
	})
	if err != nil {
		u.log.Warn("create user", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	u.log.Info("user created", zap.String("user_id", out.UserID), zap.String("role", string(out.Role)))
	return out, nil
}

func (u *Usecase) UpdateUser(ctx context.Context, in UpdateUserInput) (*user.User, error) {
	if in.Role != nil && !in.Role.Valid() {
		return nil, user.ErrInvalidRole
	}
	var out *user.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByUserID(ctx, in.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrNotFound
		}
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return ErrNameRequired
			}
			usr.Name = name
		}
		if in.Role != nil {
			usr.Role = *in.Role
		}
		if in.Department != nil {
			usr.Department = strings.TrimSpace(*in.Department)
		}
		if in.IsActive != nil {
			usr.IsActive = *in.IsActive
		}
		if err := r.Users.Save(ctx, usr); err != nil {
			return err
		}
		out = usr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers filters by role when set; inactive users are included.
func (u *Usecase) ListUsers(ctx context.Context, role user.Role) ([]user.User, error) {
	if role != "" && !role.Valid() {
		return nil, user.ErrInvalidRole
	}
	var out []user.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Users.List(ctx, role, false)
		return err
	})
	return out, err
}

func cleanApprovers(in []category.Approver) []category.Approver {
	out := []category.Approver{}
	seen := map[string]bool{}
	for _, a := range in {
		a.UserID = strings.TrimSpace(a.UserID)
		a.Name = strings.TrimSpace(a.Name)
		a.Email = strings.ToLower(strings.TrimSpace(a.Email))
		if a.UserID == "" || seen[a.UserID] {
			continue
		}
		seen[a.UserID] = true
		out = append(out, a)
	}
	return out
}

func cleanConfig(c category.ApprovalConfig) category.ApprovalConfig {
	c.L1.Approvers = cleanApprovers(c.L1.Approvers)
	c.L2.Approvers = cleanApprovers(c.L2.Approvers)
	c.L3.Approvers = cleanApprovers(c.L3.Approvers)
	return c
}

func duplicate(ctx context.Context, r uow.Repos, high, sub, exceptID string) error {
	existing, err := r.Categories.List(ctx, category.Filter{HighLevelCategory: high})
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c.ConfigID != exceptID && strings.EqualFold(c.SubCategory, sub) {
			return category.ErrDuplicate
		}
	}
	return nil
}

func (u *Usecase) CreateCategory(ctx context.Context, in CategoryInput) (*CategoryView, error) {
	c := category.SubCategoryConfig{
		ConfigID:          id.NewID32(),
		HighLevelCategory: strings.TrimSpace(in.HighLevelCategory),
		SubCategory:       strings.TrimSpace(in.SubCategory),
		RequiresApproval:  in.RequiresApproval,
		ApprovalConfig:    cleanConfig(in.ApprovalConfig),
		ProcessingQueue:   strings.TrimSpace(in.ProcessingQueue),
		SpecialistQueue:   strings.TrimSpace(in.SpecialistQueue),
		IsActive:          in.IsActive == nil || *in.IsActive,
		Order:             in.Order,
	}
	if c.HighLevelCategory == "" || c.SubCategory == "" {
		return nil, ErrCategoryName
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := duplicate(ctx, r, c.HighLevelCategory, c.SubCategory, ""); err != nil {
			return err
		}
		return r.Categories.Create(ctx, &c)
	})
	if err != nil {
		u.log.Warn("create category", zap.String("sub_category", c.SubCategory), zap.Error(err))
		return nil, err
	}
	v := newCategoryView(c)
	return &v, nil
}

// mutateCategory loads, changes, checks and saves one config.
func (u *Usecase) mutateCategory(ctx context.Context, configID string, fn func(r uow.Repos, c *category.SubCategoryConfig) error) (*CategoryView, error) {
	var out *CategoryView
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Categories.GetByConfigID(ctx, configID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := fn(r, c); err != nil {
			return err
		}
		if err := c.Check(); err != nil {
			return err
		}
		if err := r.Categories.Save(ctx, c); err != nil {
			return err
		}
		v := newCategoryView(*c)
		out = &v
		return nil
	})
	if err != nil {
		u.log.Warn("update category", zap.String("config_id", configID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (u *Usecase) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*CategoryView, error) {
	return u.mutateCategory(ctx, in.ConfigID, func(r uow.Repos, c *category.SubCategoryConfig) error {
		if in.SubCategory != nil {
			sub := strings.TrimSpace(*in.SubCategory)
			if sub == "" {
				return ErrCategoryName
			}
			if err := duplicate(ctx, r, c.HighLevelCategory, sub, c.ConfigID); err != nil {
				return err
			}
			c.SubCategory = sub
		}
		if in.RequiresApproval != nil {
			c.RequiresApproval = *in.RequiresApproval
		}
		if in.ProcessingQueue != nil {
			c.ProcessingQueue = strings.TrimSpace(*in.ProcessingQueue)
		}
		if in.SpecialistQueue != nil {
			c.SpecialistQueue = strings.TrimSpace(*in.SpecialistQueue)
		}
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
		if in.Order != nil {
			c.Order = *in.Order
		}
		return nil
	})
}

// UpdateApprovers replaces one level. An enabled level without approvers is
// stored as sent but stays inactive.
func (u *Usecase) UpdateApprovers(ctx context.Context, in UpdateApproversInput) (*CategoryView, error) {
	return u.mutateCategory(ctx, in.ConfigID, func(_ uow.Repos, c *category.SubCategoryConfig) error {
		level, err := c.ApprovalConfig.Level(in.Level)
		if err != nil {
			return err
		}
		level.Enabled = in.Enabled
		level.Approvers = cleanApprovers(in.Approvers)
		return nil
	})
}

func (u *Usecase) ListCategories(ctx context.Context, f category.Filter) ([]CategoryView, error) {
	var cs []category.SubCategoryConfig
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		cs, err = r.Categories.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]CategoryView, 0, len(cs))
	for _, c := range cs {
		out = append(out, newCategoryView(c))
	}
	return out, nil
}

func (u *Usecase) FlowLabel(ctx context.Context, configID string) (string, error) {
	var label string
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Categories.GetByConfigID(ctx, configID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category.ErrNotFound
		}
		if err != nil {
			return err
		}
		label = category.FlowLabel(*c)
		return nil
	})
	return label, err
}
