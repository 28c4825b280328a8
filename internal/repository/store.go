package repository

import (
	"context"

	"gorm.io/gorm"

	"shop-service/internal/model"
	"shop-service/pkg/database"
)

// Store bundles the repositories sharing one database handle.
type Store struct {
	db            *gorm.DB
	Users         *Repository[model.User]
	Categories    *CategoryRepository
	Products      *ProductRepository
	ProductImages *Repository[model.ProductImage]
	Orders        *OrderRepository
	OrderItems    *Repository[model.OrderProduct]
	Reviews       *ReviewRepository
}

// NewStore creates the repositories over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         New[model.User](db, "users"),
		Categories:    &CategoryRepository{Repository: New[model.Category](db, "categories")},
		Products:      &ProductRepository{Repository: New[model.Product](db, "products")},
		ProductImages: New[model.ProductImage](db, "product_images"),
		Orders:        &OrderRepository{Repository: New[model.Order](db, "orders")},
		OrderItems:    New[model.OrderProduct](db, "order_products"),
		Reviews:       &ReviewRepository{Repository: New[model.Review](db, "reviews"), db: db},
	}
}

// Tx runs fn with a Store bound to one transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return translate("store.tx", err)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}
