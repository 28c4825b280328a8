package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
	"shop-service/pkg/logger"
	"shop-service/pkg/storage"
)

// ProductImageDir is the blob directory of product images
const ProductImageDir = "product-images"

const productsNotFound = "products_not_found"

var productColumns = validation.Columns{
	"titleENG":       {Name: "title_eng", Kind: validation.KindString},
	"titleUA":        {Name: "title_ua", Kind: validation.KindString},
	"descriptionENG": {Name: "description_eng", Kind: validation.KindString},
	"descriptionUA":  {Name: "description_ua", Kind: validation.KindString},
	"size":           {Name: "size", Kind: validation.KindString},
	"article":        {Name: "article", Kind: validation.KindInt},
	"quantity":       {Name: "quantity", Kind: validation.KindNullableInt},
	"price":          {Name: "price", Kind: validation.KindDecimal},
	"price_old":      {Name: "price_old", Kind: validation.KindNullableDecimal},
	"categoryId":     {Name: "category_id", Kind: validation.KindNullableUint},
	"status":         {Name: "status", Kind: validation.KindString},
}

// ProductService maintains the catalogue and its paged listings
type ProductService struct {
	store *repository.Store
	blobs storage.BlobStore
}

func NewProductService(store *repository.Store, blobs storage.BlobStore) *ProductService {
	return &ProductService{store: store, blobs: blobs}
}

// List returns every product with images and rating.
func (s *ProductService) List(ctx context.Context) ([]model.RatedProduct, error) {
	products, err := s.store.Products.FindAll(ctx, repository.WithImages)
	if err != nil {
		return nil, err
	}
	return s.rate(ctx, products)
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*model.RatedProduct, error) {
	product, ok, err := s.store.Products.FindByKey(ctx, id, repository.WithImages)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("product_not_found")
	}
	rated, err := s.rate(ctx, []model.Product{product})
	if err != nil {
		return nil, err
	}
	return &rated[0], nil
}

// ListOnSale pages through products that carry a previous price.
func (s *ProductService) ListOnSale(ctx context.Context, req PageRequest) (Page[model.RatedProduct], error) {
	products, total, err := s.store.Products.PageOnSale(ctx, req.Offset(), req.PageSize)
	if err != nil {
		return Page[model.RatedProduct]{}, err
	}
	return s.ratedPage(ctx, products, req, total)
}

// ListByCategory pages through the products of one category.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uint, req PageRequest) (Page[model.RatedProduct], error) {
	products, total, err := s.store.Products.PageByCategory(ctx, categoryID, req.Offset(), req.PageSize)
	if err != nil {
		return Page[model.RatedProduct]{}, err
	}
	return s.ratedPage(ctx, products, req, total)
}

func (s *ProductService) ratedPage(ctx context.Context, products []model.Product, req PageRequest, total int64) (Page[model.RatedProduct], error) {
	rated, err := s.rate(ctx, products)
	if err != nil {
		return Page[model.RatedProduct]{}, err
	}
	return newPage(rated, req, total, productsNotFound)
}

// rate attaches reviewCount and averageRating using one grouped query.
func (s *ProductService) rate(ctx context.Context, products []model.Product) ([]model.RatedProduct, error) {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	stats, err := s.store.Reviews.StatsFor(ctx, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]model.RatedProduct, len(products))
	for i, p := range products {
		st := stats[p.ID]
		out[i] = model.RatedProduct{Product: p, ReviewCount: st.ReviewCount, AverageRating: st.AverageRating()}
	}
	return out, nil
}

// Create stores the uploaded images and inserts the product with them.
func (s *ProductService) Create(ctx context.Context, in validation.Fields, images []storage.Object) (*model.Product, error) {
	if err := validation.Product(validation.Create).Check(in); err != nil {
		return nil, err
	}
	article := in.Int("article")
	if err := RequireAbsent(ctx, s.store.Products, "article", article, "Product with this article already exists"); err != nil {
		return nil, err
	}
	categoryID := in.UintPtr("categoryId")
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	product := model.Product{
		TitleENG:       in.String("titleENG"),
		TitleUA:        in.String("titleUA"),
		DescriptionENG: in.String("descriptionENG"),
		DescriptionUA:  in.String("descriptionUA"),
		Size:           in.String("size"),
		Article:        article,
		Quantity:       in.IntPtr("quantity"),
		Price:          in.Decimal("price"),
		PriceOld:       in.NullDecimal("price_old"),
		CategoryID:     categoryID,
		Status:         model.ProductStatus(in.String("status")),
	}
	paths, err := s.upload(ctx, images)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		product.Images = append(product.Images, model.ProductImage{Path: p})
	}

	if err := s.store.Products.Create(ctx, &product); err != nil {
		s.discard(ctx, paths)
		return nil, err
	}
	return &product, nil
}

// Update writes the supplied fields and appends any uploaded images.
func (s *ProductService) Update(ctx context.Context, id uint, in validation.Fields, images []storage.Object) (*model.RatedProduct, error) {
	if err := validation.Product(validation.Update).Check(in); err != nil {
		return nil, err
	}
	current, ok, err := s.store.Products.FindByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	if in.Has("article") && in.Int("article") != current.Article {
		if err := RequireAbsent(ctx, s.store.Products, "article", in.Int("article"), "Product with this article already exists"); err != nil {
			return nil, err
		}
	}
	if err := s.requireCategory(ctx, in.UintPtr("categoryId")); err != nil {
		return nil, err
	}

	paths, err := s.upload(ctx, images)
	if err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.Products.Update(ctx, id, productColumns.Extract(in)); err != nil {
			return err
		}
		for _, p := range paths {
			if err := tx.ProductImages.Create(ctx, &model.ProductImage{ProductID: id, Path: p}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, paths)
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the product, its image rows and its stored images.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, ok, err := s.store.Products.FindByKey(ctx, id, repository.WithImages)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(fmt.Sprintf("Product with ID %d not found or already deleted.", id))
	}

	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if _, err := tx.ProductImages.DeleteWhere(ctx, "product_id", id); err != nil {
			return err
		}
		deleted, err := tx.Products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound(fmt.Sprintf("Product with ID %d not found or already deleted.", id))
		}
		return nil
	})
	if err != nil {
		return err
	}

	paths := make([]string, len(product.Images))
	for i, img := range product.Images {
		paths[i] = img.Path
	}
	s.discard(ctx, paths)
	return nil
}

func (s *ProductService) requireCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	return RequirePresent(ctx, s.store.Categories, "id", *categoryID, "Category not found")
}

func (s *ProductService) upload(ctx context.Context, images []storage.Object) ([]string, error) {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		path, err := s.blobs.Put(ctx, ProductImageDir, img)
		if err != nil {
			s.discard(ctx, paths)
			return nil, apperr.Internal("product.image", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// discard removes stored blobs. Failures are logged and leave orphaned files.
func (s *ProductService) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.blobs.Delete(ctx, p); err != nil {
			logger.FromContext(ctx).Warn("Failed to delete product image", zap.String("path", p), zap.Error(err))
		}
	}
}
