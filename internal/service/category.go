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

// CategoryImageDir is the blob directory of category images
const CategoryImageDir = "category-image"

var categoryColumns = validation.Columns{
	"titleENG":  {Name: "title_eng", Kind: validation.KindString},
	"titleUA":   {Name: "title_ua", Kind: validation.KindString},
	"imagePath": {Name: "image_path", Kind: validation.KindNullableString},
	"parentId":  {Name: "parent_id", Kind: validation.KindNullableUint},
}

// CategoryService reads and maintains the two-level category tree
type CategoryService struct {
	store *repository.Store
	blobs storage.BlobStore
}

func NewCategoryService(store *repository.Store, blobs storage.BlobStore) *CategoryService {
	return &CategoryService{store: store, blobs: blobs}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories.FindAll(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	category, ok, err := s.store.Categories.FindByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("category_not_found")
	}
	return &category, nil
}

// ListHeads returns the categories without a parent.
func (s *CategoryService) ListHeads(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories.Heads(ctx)
}

// ListHeadsWithChildren returns every head with its direct children, in
// storage insertion order.
func (s *CategoryService) ListHeadsWithChildren(ctx context.Context) ([]model.CategoryNode, error) {
	heads, err := s.store.Categories.Heads(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(heads))
	for i, h := range heads {
		ids[i] = h.ID
	}
	children, err := s.store.Categories.ChildrenOf(ctx, ids...)
	if err != nil {
		return nil, err
	}

	byParent := make(map[uint][]model.Category, len(heads))
	for _, c := range children {
		byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
	}
	nodes := make([]model.CategoryNode, 0, len(heads))
	for _, h := range heads {
		nodes = append(nodes, node(h, byParent[h.ID]))
	}
	return nodes, nil
}

// GetNestedByHeadID returns one category with its direct children. Zero
// children is a valid result.
func (s *CategoryService) GetNestedByHeadID(ctx context.Context, id uint) (*model.CategoryNode, error) {
	head, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.store.Categories.ChildrenOf(ctx, head.ID)
	if err != nil {
		return nil, err
	}
	n := node(*head, children)
	return &n, nil
}

func node(head model.Category, children []model.Category) model.CategoryNode {
	if children == nil {
		children = []model.Category{}
	}
	return model.CategoryNode{Category: head, SubCategories: children}
}

// Create stores the optional image and inserts the category.
func (s *CategoryService) Create(ctx context.Context, in validation.Fields, image *storage.Object) (*model.Category, error) {
	if err := validation.Category(validation.Create).Check(in); err != nil {
		return nil, err
	}
	parentID := in.UintPtr("parentId")
	if parentID != nil {
		if err := RequirePresent(ctx, s.store.Categories, "id", *parentID, "Parent category not found"); err != nil {
			return nil, err
		}
	}

	category := model.Category{
		TitleENG:  in.String("titleENG"),
		TitleUA:   in.String("titleUA"),
		ImagePath: in.StringPtr("imagePath"),
		ParentID:  parentID,
	}
	if image != nil {
		path, err := s.blobs.Put(ctx, CategoryImageDir, *image)
		if err != nil {
			return nil, apperr.Internal("category.image", err)
		}
		category.ImagePath = &path
	}

	if err := s.store.Categories.Create(ctx, &category); err != nil {
		if image != nil {
			s.discard(ctx, category.ImagePath, true)
		}
		return nil, err
	}
	return &category, nil
}

// Update writes the supplied fields and replaces the image when one is sent.
func (s *CategoryService) Update(ctx context.Context, id uint, in validation.Fields, image *storage.Object) (*model.Category, error) {
	if err := validation.Category(validation.Update).Check(in); err != nil {
		return nil, err
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if parentID := in.UintPtr("parentId"); parentID != nil {
		if *parentID == id {
			return nil, apperr.ValidationFailed([]apperr.Violation{{Field: "parentId", Message: "Category cannot be its own parent"}})
		}
		if err := RequirePresent(ctx, s.store.Categories, "id", *parentID, "Parent category not found"); err != nil {
			return nil, err
		}
	}

	fields := categoryColumns.Extract(in)
	var uploaded *string
	if image != nil {
		path, err := s.blobs.Put(ctx, CategoryImageDir, *image)
		if err != nil {
			return nil, apperr.Internal("category.image", err)
		}
		uploaded = &path
		fields["image_path"] = path
	}

	if err := s.store.Categories.Update(ctx, id, fields); err != nil {
		s.discard(ctx, uploaded, true)
		return nil, err
	}
	if uploaded != nil {
		s.discard(ctx, current.ImagePath, false)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a category that has no subcategories.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	current, ok, err := s.store.Categories.FindByKey(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(fmt.Sprintf("Category with ID %d not found or already deleted.", id))
	}
	if err := RequireAbsent(ctx, s.store.Categories, "parent_id", id, "Category has subcategories"); err != nil {
		return err
	}

	deleted, err := s.store.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("Category with ID %d not found or already deleted.", id))
	}
	s.discard(ctx, current.ImagePath, false)
	return nil
}

// discard removes a category image. A path the service did not just upload
// is only removed when the blob store wrote it under CategoryImageDir and no
// category references it any more.
func (s *CategoryService) discard(ctx context.Context, path *string, uploaded bool) {
	if path == nil || *path == "" {
		return
	}
	log := logger.FromContext(ctx)
	if !uploaded {
		if !s.blobs.Owns(*path, CategoryImageDir) {
			return
		}
		referenced, err := s.store.Categories.Exists(ctx, "image_path", *path)
		if err != nil {
			log.Warn("Category image reference check failed", zap.String("path", *path), zap.Error(err))
			return
		}
		if referenced {
			return
		}
	}
	if err := s.blobs.Delete(ctx, *path); err != nil {
		log.Warn("Failed to delete category image", zap.String("path", *path), zap.Error(err))
	}
}
