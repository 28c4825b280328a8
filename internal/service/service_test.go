package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/pkg/storage"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

// newTestStore opens a private in-memory database with every model migrated.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.Models()...))
	return repository.NewStore(db)
}

func newTestBlobs(t *testing.T) storage.BlobStore {
	t.Helper()
	blobs, err := storage.NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	return blobs
}

func num(v int) json.Number {
	return json.Number(strconv.Itoa(v))
}

func seedUser(t *testing.T, store *repository.Store, email string, role model.Role) model.User {
	t.Helper()
	hash, err := hashPassword("secret1!")
	require.NoError(t, err)
	u := model.User{Email: email, Password: hash, Name: "Olena", Lastname: "Koval", Phone: "+380501112233", Role: role}
	require.NoError(t, store.Users.Create(context.Background(), &u))
	return u
}

func seedCategory(t *testing.T, store *repository.Store, title string, parent *uint) model.Category {
	t.Helper()
	c := model.Category{TitleENG: title, TitleUA: title, ParentID: parent}
	require.NoError(t, store.Categories.Create(context.Background(), &c))
	return c
}

func seedProduct(t *testing.T, store *repository.Store, article int, price string, onSale bool, categoryID *uint) model.Product {
	t.Helper()
	p := model.Product{
		TitleENG:       "Linen shirt",
		TitleUA:        "Лляна сорочка",
		DescriptionENG: "Light summer shirt",
		DescriptionUA:  "Легка літня сорочка",
		Size:           "M",
		Article:        article,
		Price:          decimal.RequireFromString(price),
		CategoryID:     categoryID,
		Status:         model.ProductInStock,
	}
	if onSale {
		p.PriceOld = decimal.NewNullDecimal(p.Price.Add(decimal.NewFromInt(5)))
	}
	require.NoError(t, store.Products.Create(context.Background(), &p))
	return p
}
