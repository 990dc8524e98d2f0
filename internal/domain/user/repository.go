package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	// GetByUserID returns gorm.ErrRecordNotFound when absent.
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// List filters by role when non-empty.
	List(ctx context.Context, role Role, activeOnly bool) ([]User, error)
}
