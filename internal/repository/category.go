package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shop-service/internal/model"
	"shop-service/prometheus"
)

// CategoryRepository adds the parent/child lookups of the category tree.
type CategoryRepository struct {
	*Repository[model.Category]
}

// HeadsScope selects categories without a parent.
func HeadsScope(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NULL")
}

// Heads returns all head categories in insertion order.
func (r *CategoryRepository) Heads(ctx context.Context) ([]model.Category, error) {
	return r.FindAll(ctx, HeadsScope)
}

// ChildrenOf returns the direct children of every id in parentIDs, ordered by id.
func (r *CategoryRepository) ChildrenOf(ctx context.Context, parentIDs ...uint) ([]model.Category, error) {
	if len(parentIDs) == 0 {
		return []model.Category{}, nil
	}
	defer prometheus.TrackDBOperation("categories.children")(time.Now())

	return r.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("parent_id IN ?", parentIDs)
	})
}
