package routes

import (
	"fabstore/controllers"
	"fabstore/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Products     *controllers.ProductController
	Orders       *controllers.OrderController
	Payments     *controllers.PaymentController
	Carts        *controllers.CartController
	Users        *controllers.UserController
	Transactions *controllers.TransactionController
}

func RegisterRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {

	api := r.Group("/api")
	{
		api.GET("/products", h.Products.GetProductsPublic)
		api.GET("/products/:id", h.Products.GetProduct)
		api.GET("/promo-codes", h.Orders.GetPromoCodes)
		api.POST("/verify", h.Payments.VerifyPayment)

		protected := api.Group("/")
		protected.Use(auth)
		{
			protected.POST("/order", h.Orders.CreateOrder)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.POST("/products", h.Products.CreateProduct)
				admin.GET("/products", h.Products.GetProductsAdmin)
				admin.GET("/products/:id", h.Products.GetProduct)
				admin.PUT("/products/:id", h.Products.UpdateProduct)
				admin.DELETE("/products/:id", h.Products.DeleteProduct)

				admin.GET("/orders", h.Orders.GetOrdersAdmin)
				admin.GET("/orders/:id", h.Orders.GetOrderByIDAdmin)
				admin.PUT("/orders/:id/status", h.Orders.UpdateOrderStatus)
				admin.PUT("/orders/:id/cancel", h.Orders.CancelOrderAdmin)

				admin.GET("/users", h.Users.GetUsersAdmin)
				admin.PUT("/users/:id/role", h.Users.UpdateUserRole)

				admin.GET("/transactions", h.Transactions.GetTransactionsAdmin)
				admin.GET("/transactions/:paymentId", h.Transactions.GetTransactionAdmin)
			}

			user := protected.Group("/user")
			{
				user.GET("/cart", h.Carts.GetCart)
				user.POST("/cart", h.Carts.AddToCart)
				user.PUT("/cart/:productId", h.Carts.UpdateCart)
				user.DELETE("/cart/:productId", h.Carts.RemoveFromCart)
				user.DELETE("/cart", h.Carts.ClearCart)

				user.GET("/orders", h.Orders.GetOrders)
				user.GET("/orders/:id", h.Orders.GetOrder)
				user.PUT("/orders/:id/cancel", h.Orders.CancelOrder)
			}
		}
	}
}
