package repository

import (
	"context"

	"gorm.io/gorm"

	"shop-service/internal/model"
)

// snapshotColumns is the product projection attached to order items.
var snapshotColumns = []string{
	"id", "title_eng", "title_ua", "description_eng", "description_ua", "size",
	"article", "quantity", "price", "price_old", "category_id", "status",
}

// OrderRepository adds the order reads that join line items.
type OrderRepository struct {
	*Repository[model.Order]
}

// WithItems preloads line items and their product snapshot.
func WithItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select(snapshotColumns)
		})
}

// ListByUser returns the user's orders with items, oldest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	return r.FindAll(ctx, WithItems, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}
