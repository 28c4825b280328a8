package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/pkg/config"
	"shop-service/pkg/database"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/storage"
)

func init() {
	service.PasswordCost = bcrypt.MinCost
}

type testApp struct {
	e      *echo.Echo
	store  *repository.Store
	tokens *jwtutil.JWTUtil
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.InitDB(&config.DBConfig{
		Driver:          "sqlite",
		Path:            "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Minute,
		LogLevel:        logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.MigrateModels(db, model.Models()...))

	blobs, err := storage.NewFileStore(t.TempDir(), "")
	require.NoError(t, err)

	cfg := &config.Config{
		ServiceName: "shop-test",
		Server:      config.ServerConfig{Env: "test", CORSOrigin: "*", BodyLimit: "10M"},
	}
	app := &testApp{
		store:  repository.NewStore(db),
		tokens: jwtutil.NewJWTUtil(jwtutil.JWTConfig{SigningKey: "server-test", ExpirationHours: 1}),
	}
	app.e = New(cfg, Deps{Store: app.store, Blobs: blobs, Tokens: app.tokens})
	return app
}

func (a *testApp) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case *http.Request:
		req = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (a *testApp) bearer(t *testing.T, role model.Role) []string {
	t.Helper()
	tok, err := a.tokens.GenerateToken(1, "staff@shop.test", string(role))
	require.NoError(t, err)
	return []string{echo.HeaderAuthorization, "Bearer " + tok}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec, body := app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	app := newTestApp(t)
	rec, body := app.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.EqualValues(t, 404, body["code"])
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t)
	reg := map[string]any{
		"email": "olena@shop.test", "password": "secret1!", "confirmPassword": "secret1!",
		"name": "Olena", "lastname": "Koval", "phone": "+380501112233",
	}
	rec, body := app.do(t, http.MethodPost, "/api/auth/register", reg)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret1!")

	rec, _ = app.do(t, http.MethodPost, "/api/auth/register", reg)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "olena@shop.test", "password": "secret1!"})
	require.Equal(t, http.StatusOK, rec.Code)
	values := body["values"].(map[string]any)
	token := values["token"].(string)
	assert.Equal(t, "USER", values["userData"].(map[string]any)["role"])

	rec, _ = app.do(t, http.MethodGet, "/api/users", nil, echo.HeaderAuthorization, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Access denied"}`, rec.Body.String())

	rec, _ = app.do(t, http.MethodGet, "/api/users/1", nil, "token", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationErrorsAreAccumulated(t *testing.T) {
	app := newTestApp(t)
	rec, body := app.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "not-an-email", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	violations, ok := body["values"].([]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(violations), 2)
}

func TestGuardedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	rec, _ := app.do(t, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized user"}`, rec.Body.String())

	rec, _ = app.do(t, http.MethodPost, "/api/reviews", map[string]any{"productId": 1, "text": "x", "rate": 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/orders", nil, app.bearer(t, model.RoleManager)...)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoryTreeRoutes(t *testing.T) {
	app := newTestApp(t)
	staff := app.bearer(t, model.RoleAdmin)

	rec, body := app.do(t, http.MethodPost, "/api/categories", map[string]any{"titleENG": "Men", "titleUA": "Чоловікам"}, staff...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	headID := body["values"].(map[string]any)["id"]

	rec, body = app.do(t, http.MethodGet, "/api/categories/getAllNestedByHeadId/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["values"].(map[string]any)["subCategories"])

	_, _ = app.do(t, http.MethodPost, "/api/categories", map[string]any{"titleENG": "Shirts", "titleUA": "Сорочки", "parentId": headID}, staff...)
	rec, body = app.do(t, http.MethodGet, "/api/categories/getAllHeadWithNested", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	nodes := body["values"].([]any)
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].(map[string]any)["subCategories"], 1)

	rec, _ = app.do(t, http.MethodGet, "/api/categories/getAllNestedByHeadId/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartProduct(t *testing.T, fields map[string]string, files ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("image-bytes"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestProductMultipartCreateAndSales(t *testing.T) {
	app := newTestApp(t)
	staff := app.bearer(t, model.RoleManager)

	req := multipartProduct(t, map[string]string{
		"titleENG": "Linen shirt", "titleUA": "Сорочка",
		"descriptionENG": "Light summer shirt", "descriptionUA": "Легка сорочка",
		"size": "M", "article": "101", "price": "19.99", "price_old": "25.00", "status": "IN_STOCK",
		"quantity": "",
	}, "front.png", "back.png")
	rec, body := app.do(t, http.MethodPost, "/api/products", req, staff...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	product := body["values"].(map[string]any)
	assert.Len(t, product["images"], 2)
	assert.Nil(t, product["quantity"])

	rec, body = app.do(t, http.MethodGet, "/api/products/sales?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalItems"])
	item := body["values"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 0, item["reviewCount"])
	assert.EqualValues(t, 0, item["averageRating"])

	rec, body = app.do(t, http.MethodGet, "/api/products/sales?offset=2&limit=10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.EqualValues(t, 0, body["currentPage"])
	assert.EqualValues(t, 0, body["totalPages"])
}

func TestGuestCheckout(t *testing.T) {
	app := newTestApp(t)
	staff := app.bearer(t, model.RoleAdmin)
	req := multipartProduct(t, map[string]string{
		"titleENG": "Linen shirt", "titleUA": "Сорочка",
		"descriptionENG": "Light summer shirt", "descriptionUA": "Легка сорочка",
		"size": "M", "article": "7", "price": "10.00", "status": "IN_STOCK",
	})
	rec, _ := app.do(t, http.MethodPost, "/api/products", req, staff...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := app.do(t, http.MethodPost, "/api/orders", map[string]any{
		"name": "Olena", "lastname": "Koval", "phone": "+380501112233",
		"deliveryMethod": "MONO", "address": "Lviv, Rynok 1", "status": "NEW",
		"products": []any{map[string]any{"productId": 1, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := body["values"].(map[string]any)
	assert.Equal(t, "30", order["totalSum"])
	assert.Nil(t, order["userId"])
}
