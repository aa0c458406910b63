package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Routes wires the handlers onto /api/v1. AdminGuard protects everything
// under /admin except login, which LoginLimit throttles.
type Routes struct {
	Products   *ProductHandler
	Carts      *CartHandler
	Content    *ContentHandler
	Bookings   *BookingHandler
	Uploads    *UploadHandler
	Auth       *AuthHandler
	AdminGuard gin.HandlerFunc
	LoginLimit gin.HandlerFunc
}

func (r Routes) Register(v1 *gin.RouterGroup) {
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1.GET("/products", r.Products.ListProducts)
	v1.GET("/products/:id", r.Products.GetProduct)
	v1.GET("/categories", r.Content.ListCategories(true))
	v1.GET("/banners", r.Content.ListBanners(true))
	v1.GET("/payment-methods", r.Content.ListPaymentMethods(true))
	v1.GET("/settings", r.Content.GetSettings)
	v1.GET("/delivery-areas", r.Content.ListDeliveryAreas)

	v1.POST("/carts", r.Carts.CreateCart)
	v1.GET("/carts/:id", r.Carts.GetCart)
	v1.DELETE("/carts/:id", r.Carts.ClearCart)
	v1.POST("/carts/:id/items", r.Carts.AddItem)
	v1.PATCH("/carts/:id/items/:product_id", r.Carts.UpdateItem)
	v1.DELETE("/carts/:id/items/:product_id", r.Carts.RemoveItem)
	v1.POST("/carts/:id/checkout", r.Carts.Checkout)

	v1.POST("/bookings", r.Bookings.SubmitBooking)

	admin := v1.Group("/admin")
	admin.POST("/login", r.LoginLimit, r.Auth.Login)

	secured := admin.Group("", r.AdminGuard)
	{
		secured.POST("/logout", r.Auth.Logout)

		secured.GET("/products", r.Products.ListProducts)
		secured.POST("/products", r.Products.CreateProduct)
		secured.POST("/products/bulk", r.Products.BulkProducts)
		secured.GET("/products/export", r.Products.ExportProducts)
		secured.PUT("/products/:id", r.Products.UpdateProduct)
		secured.DELETE("/products/:id", r.Products.DeleteProduct)

		secured.GET("/categories", r.Content.ListCategories(false))
		secured.POST("/categories", r.Content.CreateCategory)
		secured.PUT("/categories/:id", r.Content.UpdateCategory)
		secured.DELETE("/categories/:id", r.Content.DeleteCategory)

		secured.GET("/banners", r.Content.ListBanners(false))
		secured.POST("/banners", r.Content.CreateBanner)
		secured.POST("/banners/reorder", r.Content.ReorderBanners)
		secured.PUT("/banners/:id", r.Content.UpdateBanner)
		secured.DELETE("/banners/:id", r.Content.DeleteBanner)

		secured.GET("/payment-methods", r.Content.ListPaymentMethods(false))
		secured.POST("/payment-methods", r.Content.CreatePaymentMethod)
		secured.PUT("/payment-methods/:id", r.Content.UpdatePaymentMethod)
		secured.DELETE("/payment-methods/:id", r.Content.DeletePaymentMethod)

		secured.PUT("/settings/:id", r.Content.PutSetting)
		secured.POST("/uploads", r.Uploads.UploadImage)

		secured.GET("/bookings", r.Bookings.ListBookings)
		secured.GET("/orders", r.Carts.ListOrders)
	}
}
