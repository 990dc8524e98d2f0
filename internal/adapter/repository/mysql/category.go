package mysql

import (
	"context"

	catDomain "ops-portal-backend/internal/domain/category"

	"gorm.io/gorm"
)

type CategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) Create(ctx context.Context, c *catDomain.SubCategoryConfig) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) Save(ctx context.Context, c *catDomain.SubCategoryConfig) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) GetByConfigID(ctx context.Context, configID string) (*catDomain.SubCategoryConfig, error) {
	var out catDomain.SubCategoryConfig
	res := r.db.WithContext(ctx).Where("config_id = ?", configID).First(&out)
	return &out, res.Error
}

func (r *CategoryRepository) List(ctx context.Context, f catDomain.Filter) ([]catDomain.SubCategoryConfig, error) {
	var out []catDomain.SubCategoryConfig
	q := r.db.WithContext(ctx)
	if f.HighLevelCategory != "" {
		q = q.Where("high_level_category = ?", f.HighLevelCategory)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	res := q.Order("sort_order ASC, sub_category ASC").Find(&out)
	return out, res.Error
}
