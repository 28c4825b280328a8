package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
	"shop-service/pkg/logger"
	"shop-service/pkg/storage"
)

func TestListHeadsWithChildren(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store, newTestBlobs(t))
	ctx := context.Background()

	men := seedCategory(t, store, "Men", nil)
	women := seedCategory(t, store, "Women", nil)
	seedCategory(t, store, "Shirts", &men.ID)
	seedCategory(t, store, "Dresses", &women.ID)
	seedCategory(t, store, "Trousers", &men.ID)

	nodes, err := categories.ListHeadsWithChildren(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Men", nodes[0].TitleENG)
	require.Len(t, nodes[0].SubCategories, 2)
	assert.Equal(t, "Shirts", nodes[0].SubCategories[0].TitleENG)
	assert.Equal(t, "Trousers", nodes[0].SubCategories[1].TitleENG)
	require.Len(t, nodes[1].SubCategories, 1)

	heads, err := categories.ListHeads(ctx)
	require.NoError(t, err)
	assert.Len(t, heads, 2)
}

func TestGetNestedByHeadID(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store, newTestBlobs(t))
	ctx := context.Background()

	lonely := seedCategory(t, store, "Accessories", nil)
	node, err := categories.GetNestedByHeadID(ctx, lonely.ID)
	require.NoError(t, err)
	assert.NotNil(t, node.SubCategories)
	assert.Empty(t, node.SubCategories)

	_, err = categories.GetNestedByHeadID(ctx, 999)
	assert.Equal(t, apperr.ENotFound, apperr.ErrorCode(err))
}

func TestCategoryCreateWithImage(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store, newTestBlobs(t))
	ctx := context.Background()

	head, err := categories.Create(ctx, validation.Fields{"titleENG": "Shoes", "titleUA": "Взуття"},
		&storage.Object{Name: "shoes.png", Body: strings.NewReader("img")})
	require.NoError(t, err)
	require.NotNil(t, head.ImagePath)
	assert.True(t, strings.HasPrefix(*head.ImagePath, "/"+CategoryImageDir+"/"))

	child, err := categories.Create(ctx, validation.Fields{"titleENG": "Boots", "titleUA": "Чоботи", "parentId": num(int(head.ID))}, nil)
	require.NoError(t, err)
	assert.Equal(t, head.ID, *child.ParentID)

	_, err = categories.Create(ctx, validation.Fields{"titleENG": "Lost", "titleUA": "Lost", "parentId": num(404)}, nil)
	assert.Equal(t, apperr.ENotFound, apperr.ErrorCode(err))
}

func TestCategoryUpdate(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store, newTestBlobs(t))
	ctx := context.Background()
	c := seedCategory(t, store, "Hats", nil)

	updated, err := categories.Update(ctx, c.ID, validation.Fields{"titleENG": "Caps"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Caps", updated.TitleENG)
	assert.Equal(t, "Hats", updated.TitleUA)

	_, err = categories.Update(ctx, c.ID, validation.Fields{"parentId": num(int(c.ID))}, nil)
	assert.Equal(t, apperr.EInvalid, apperr.ErrorCode(err))
}

func TestCategoryDelete(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store, newTestBlobs(t))
	ctx := context.Background()
	head := seedCategory(t, store, "Men", nil)
	child := seedCategory(t, store, "Shirts", &head.ID)

	err := categories.Delete(ctx, head.ID)
	assert.Equal(t, apperr.EConflict, apperr.ErrorCode(err))

	require.NoError(t, categories.Delete(ctx, child.ID))
	require.NoError(t, categories.Delete(ctx, head.ID))

	err = categories.Delete(ctx, head.ID)
	assert.Equal(t, apperr.ENotFound, apperr.ErrorCode(err))
}

func TestCategoryDeleteKeepsForeignImages(t *testing.T) {
	store := newTestStore(t)
	base := t.TempDir()
	blobs, err := storage.NewFileStore(base, "")
	require.NoError(t, err)
	categories := NewCategoryService(store, blobs)
	ctx := context.Background()
	onDisk := func(stored string) string {
		return filepath.Join(base, filepath.FromSlash(strings.TrimPrefix(stored, "/")))
	}

	owner, err := categories.Create(ctx, validation.Fields{"titleENG": "Shoes", "titleUA": "Взуття"},
		&storage.Object{Name: "shoes.png", Body: strings.NewReader("img")})
	require.NoError(t, err)
	productImage, err := blobs.Put(ctx, ProductImageDir, storage.Object{Name: "boot.png", Body: strings.NewReader("p")})
	require.NoError(t, err)

	borrower, err := categories.Create(ctx, validation.Fields{"titleENG": "Boots", "titleUA": "Чоботи", "imagePath": *owner.ImagePath}, nil)
	require.NoError(t, err)
	require.NoError(t, categories.Delete(ctx, borrower.ID))
	assert.FileExists(t, onDisk(*owner.ImagePath))

	thief, err := categories.Create(ctx, validation.Fields{"titleENG": "Socks", "titleUA": "Шкарпетки", "imagePath": productImage}, nil)
	require.NoError(t, err)
	require.NoError(t, categories.Delete(ctx, thief.ID))
	assert.FileExists(t, onDisk(productImage))

	require.NoError(t, categories.Delete(ctx, owner.ID))
	_, err = os.Stat(onDisk(*owner.ImagePath))
	assert.True(t, os.IsNotExist(err))
}

type brokenDeletes struct {
	storage.BlobStore
}

func (brokenDeletes) Delete(context.Context, string) error {
	return errors.New("bucket unavailable")
}

func TestCategoryImageDeleteFailureIsLogged(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store, brokenDeletes{newTestBlobs(t)})
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	c, err := categories.Create(ctx, validation.Fields{"titleENG": "Hats", "titleUA": "Капелюхи"},
		&storage.Object{Name: "hat.png", Body: strings.NewReader("img")})
	require.NoError(t, err)
	require.NoError(t, categories.Delete(ctx, c.ID))

	entries := logs.FilterMessage("Failed to delete category image").All()
	require.Len(t, entries, 1)
	assert.Equal(t, *c.ImagePath, entries[0].ContextMap()["path"])
}
