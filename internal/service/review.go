package service

import (
	"context"
	"fmt"

	"shop-service/internal/access"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
)

var reviewColumns = validation.Columns{
	"text": {Name: "text", Kind: validation.KindString},
	"rate": {Name: "rate", Kind: validation.KindInt},
}

// ReviewService manages product reviews
type ReviewService struct {
	store *repository.Store
}

func NewReviewService(store *repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

func (s *ReviewService) List(ctx context.Context) ([]model.Review, error) {
	return s.store.Reviews.FindAll(ctx)
}

func (s *ReviewService) GetByID(ctx context.Context, id uint) (*model.Review, error) {
	review, ok, err := s.store.Reviews.FindByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("review_not_found")
	}
	return &review, nil
}

// ListByProduct returns a product's reviews; an unknown product is not found.
func (s *ReviewService) ListByProduct(ctx context.Context, productID uint) ([]model.Review, error) {
	if err := RequirePresent(ctx, s.store.Products, "id", productID, "Product not found"); err != nil {
		return nil, err
	}
	return s.store.Reviews.ByProduct(ctx, productID)
}

// Create records a review by the authenticated principal. Any role may
// review; only authentication is required.
func (s *ReviewService) Create(ctx context.Context, p *access.Principal, in validation.Fields) (*model.Review, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if err := validation.Review(validation.Create).Check(in); err != nil {
		return nil, err
	}
	productID := in.UintPtr("productId")
	if err := RequirePresent(ctx, s.store.Products, "id", *productID, "Product not found"); err != nil {
		return nil, err
	}

	review := model.Review{
		UserID:    p.UserID,
		ProductID: *productID,
		Text:      in.String("text"),
		Rate:      in.Int("rate"),
	}
	if err := s.store.Reviews.Create(ctx, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) Update(ctx context.Context, id uint, in validation.Fields) (*model.Review, error) {
	if err := validation.Review(validation.Update).Check(in); err != nil {
		return nil, err
	}
	if err := RequirePresent(ctx, s.store.Reviews, "id", id, "Review not found"); err != nil {
		return nil, err
	}
	if err := s.store.Reviews.Update(ctx, id, reviewColumns.Extract(in)); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.store.Reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("Review with ID %d not found or already deleted.", id))
	}
	return nil
}
