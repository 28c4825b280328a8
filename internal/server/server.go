// Package server assembles the echo application: middleware stack, static
// image directories and the /api routes with their access guards.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"shop-service/internal/handler"
	mid "shop-service/internal/middleware"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/pkg/config"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"
	"shop-service/pkg/storage"
)

// Deps are the collaborators the HTTP surface is built on
type Deps struct {
	Store  *repository.Store
	Blobs  storage.BlobStore
	Tokens *jwtutil.JWTUtil
}

// New builds the echo instance serving the shop API.
func New(cfg *config.Config, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.Server.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, mid.TokenHeader},
	}))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))
	if cfg.Server.IsProduction() {
		e.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStoreWithConfig(
			echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(cfg.Server.RateLimit),
				Burst: cfg.Server.RateBurst,
			},
		)))
	}

	if fs, ok := deps.Blobs.(*storage.FileStore); ok {
		e.Static("/"+service.ProductImageDir, fs.Root(service.ProductImageDir))
		e.Static("/"+service.CategoryImageDir, fs.Root(service.CategoryImageDir))
	}

	health := handler.NewHealthHandler(cfg.ServiceName, deps.Store)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	registerRoutes(e.Group("/api"), deps)
	return e
}

func registerRoutes(api *echo.Group, deps Deps) {
	authn := mid.AuthMiddleware(deps.Tokens)
	staff := mid.AdminOrManager()
	admin := mid.AdminOnly()

	auth := handler.NewAuthHandler(service.NewAuthService(deps.Store, deps.Tokens))
	authAPI := api.Group("/auth")
	authAPI.POST("/register", auth.Register)
	authAPI.POST("/login", auth.Login)

	users := handler.NewUserHandler(service.NewUserService(deps.Store))
	userAPI := api.Group("/users", authn)
	userAPI.GET("", users.List, staff)
	userAPI.GET("/email", users.GetByEmail, staff)
	userAPI.GET("/:id", users.Get)
	userAPI.POST("", users.Create, admin)
	userAPI.PATCH("/:id", users.Update, admin)
	userAPI.DELETE("/:id", users.Delete, admin)

	categories := handler.NewCategoryHandler(service.NewCategoryService(deps.Store, deps.Blobs))
	categoryAPI := api.Group("/categories")
	categoryAPI.GET("", categories.List)
	categoryAPI.GET("/getById/:id", categories.Get)
	categoryAPI.GET("/getAllHead", categories.ListHeads)
	categoryAPI.GET("/getAllHeadWithNested", categories.ListHeadsWithNested)
	categoryAPI.GET("/getAllNestedByHeadId", categories.NestedByHead)
	categoryAPI.GET("/getAllNestedByHeadId/:id", categories.NestedByHead)
	categoryAPI.POST("", categories.Create, authn, staff)
	categoryAPI.PATCH("/:id", categories.Update, authn, staff)
	categoryAPI.DELETE("/:id", categories.Delete, authn, staff)

	products := handler.NewProductHandler(service.NewProductService(deps.Store, deps.Blobs))
	productAPI := api.Group("/products")
	productAPI.GET("", products.List)
	productAPI.GET("/sales", products.ListOnSale)
	productAPI.GET("/category/:categoryId", products.ListByCategory)
	productAPI.GET("/:id", products.Get)
	productAPI.POST("", products.Create, authn, staff)
	productAPI.PATCH("/:id", products.Update, authn, staff)
	productAPI.DELETE("/:id", products.Delete, authn, staff)

	reviews := handler.NewReviewHandler(service.NewReviewService(deps.Store))
	reviewAPI := api.Group("/reviews")
	reviewAPI.GET("", reviews.List)
	reviewAPI.GET("/product/:productId", reviews.ListByProduct)
	reviewAPI.GET("/:id", reviews.Get)
	reviewAPI.POST("", reviews.Create, authn)
	reviewAPI.PATCH("/:id", reviews.Update, authn, staff)
	reviewAPI.DELETE("/:id", reviews.Delete, authn, staff)

	orders := handler.NewOrderHandler(service.NewOrderService(deps.Store))
	orderAPI := api.Group("/orders")
	orderAPI.GET("", orders.List, authn, staff)
	orderAPI.GET("/users/:userId", orders.ListByUser, authn)
	orderAPI.GET("/:id", orders.Get, authn, staff)
	orderAPI.POST("", orders.Create)
	orderAPI.PATCH("/:id", orders.Update, authn, staff)
	orderAPI.DELETE("/:id", orders.Delete, authn, staff)
}
