package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkropachev/eshop/internal/middleware"
)

type Deps struct {
	OrderHandler    *OrderHTTP
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	UserHandler     *UserHTTP

	Auth      *middleware.AuthMiddleware
	UploadDir string
}

// Register wires the API surface under /api/v1. GET on products,
// categories and orders is public, as is order placement and login /
// registration; every other mutation needs an admin bearer token.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if d.UploadDir != "" {
		e.Static("/public/uploads", d.UploadDir)
	}

	v1 := e.Group("/api/v1")

	orders := v1.Group("/orders")
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/get/totalsales", d.OrderHandler.TotalSales)
	orders.GET("/get/count", d.OrderHandler.CountOrders)
	orders.GET("/get/userorders/:userid", d.OrderHandler.ListUserOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder, d.Auth.RequireAdmin)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, d.Auth.RequireAdmin)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/get/count", d.ProductHandler.CountProducts)
	products.GET("/get/featured/:count", d.ProductHandler.ListFeatured)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Auth.RequireAdmin)
	products.PUT("/gallery-images/:id", d.ProductHandler.UpdateGallery, d.Auth.RequireAdmin)
	products.POST("/:id/image", d.ProductHandler.UploadImage, d.Auth.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Auth.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Auth.RequireAdmin)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.ListCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, d.Auth.RequireAdmin)
	categories.PUT("/:id", d.CategoryHandler.UpdateCategory, d.Auth.RequireAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, d.Auth.RequireAdmin)

	users := v1.Group("/users")
	users.POST("/login", d.UserHandler.Login)
	users.POST("/register", d.UserHandler.Register)
	users.POST("/refresh", d.UserHandler.Refresh)
	users.POST("/logout", d.UserHandler.Logout)
	users.GET("", d.UserHandler.ListUsers, d.Auth.RequireAdmin)
	users.GET("/get/count", d.UserHandler.CountUsers, d.Auth.RequireAdmin)
	users.GET("/:id", d.UserHandler.GetUser, d.Auth.RequireAdmin)
	users.POST("", d.UserHandler.CreateUser, d.Auth.RequireAdmin)
	users.PUT("/:id", d.UserHandler.UpdateUser, d.Auth.RequireAdmin)
	users.DELETE("/:id", d.UserHandler.DeleteUser, d.Auth.RequireAdmin)
}
