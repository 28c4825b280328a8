package repository

import (
	"context"

	"gorm.io/gorm"

	"shop-service/internal/model"
)

// ProductRepository adds the listing filters used by the catalogue.
type ProductRepository struct {
	*Repository[model.Product]
}

// WithImages preloads product images ordered by id.
func WithImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

// OnSaleScope selects products that carry a previous price.
func OnSaleScope(db *gorm.DB) *gorm.DB {
	return db.Where("price_old IS NOT NULL")
}

// InCategoryScope selects products of one category.
func InCategoryScope(categoryID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID)
	}
}

// PageOnSale returns one page of on-sale products and the on-sale total.
func (r *ProductRepository) PageOnSale(ctx context.Context, offset, limit int) ([]model.Product, int64, error) {
	return r.Paginate(ctx, OnSaleScope, offset, limit, WithImages)
}

// PageByCategory returns one page of a category's products and its total.
func (r *ProductRepository) PageByCategory(ctx context.Context, categoryID uint, offset, limit int) ([]model.Product, int64, error) {
	return r.Paginate(ctx, InCategoryScope(categoryID), offset, limit, WithImages)
}
