package category

import "context"

type Filter struct {
	HighLevelCategory string
	ActiveOnly        bool
}

type Repository interface {
	Create(ctx context.Context, c *SubCategoryConfig) error
	Save(ctx context.Context, c *SubCategoryConfig) error
	// GetByConfigID returns gorm.ErrRecordNotFound when absent.
	GetByConfigID(ctx context.Context, configID string) (*SubCategoryConfig, error)
	List(ctx context.Context, f Filter) ([]SubCategoryConfig, error)
}
