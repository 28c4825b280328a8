package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shop-service/internal/model"
	"shop-service/prometheus"
)

// ReviewRepository adds the per-product review aggregate.
type ReviewRepository struct {
	*Repository[model.Review]
	db *gorm.DB
}

// ByProduct returns a product's reviews, oldest first.
func (r *ReviewRepository) ByProduct(ctx context.Context, productID uint) ([]model.Review, error) {
	return r.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ?", productID)
	})
}

// StatsFor computes review count and rate sum for every product in one
// grouped query. Products without reviews are absent from the map.
func (r *ReviewRepository) StatsFor(ctx context.Context, productIDs ...uint) (map[uint]model.ReviewStats, error) {
	out := make(map[uint]model.ReviewStats, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	defer prometheus.TrackDBOperation("reviews.stats")(time.Now())

	var rows []model.ReviewStats
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("product_id, COUNT(*) AS review_count, COALESCE(SUM(rate), 0) AS rate_sum").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("reviews.stats", err)
	}
	for _, row := range rows {
		out[row.ProductID] = row
	}
	return out, nil
}
