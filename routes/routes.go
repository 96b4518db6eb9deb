package routes

import (
	"github.com/gin-gonic/gin"

	"tableside/configs"
	"tableside/controllers"
	"tableside/middlewares"
	"tableside/pkg/resp"
	"tableside/repository"
	"tableside/services"
	"tableside/utils"
)

type Deps struct {
	Cart          *services.CartService
	Orders        *services.OrderService
	Tracker       *services.OrderTracker
	Billing       *services.BillingService
	Tables        *repository.TableRepository
	Tokens        *utils.TokenStore
	StartTracking func(tableID string)
}

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, d Deps) {
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.PassthroughAuth(d.Tokens))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"success": true}) })

	// who am I — guests get {authed:false}
	r.GET("/session", func(c *gin.Context) {
		resp.OK(c, gin.H{"authed": d.Tokens.Authed(), "customer": d.Tokens.Customer()})
	})

	// Controllers
	cartCtrl := controllers.NewCartController(d.Cart)
	orderCtrl := controllers.NewOrderController(d.Orders, d.Tracker, d.Billing)
	payCtrl := controllers.NewPaymentController(d.Billing)
	tableCtrl := controllers.NewTableController(d.Tables, d.StartTracking)

	// Table (QR flow writes here)
	r.POST("/table", tableCtrl.Select)
	r.GET("/table", tableCtrl.Current)

	// Cart (device-local)
	cart := r.Group("/cart")
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("/items", cartCtrl.Add)
		cart.PATCH("/items/:menuItemId", cartCtrl.UpdateQty)
		cart.DELETE("/items/:menuItemId", cartCtrl.Remove)
		cart.DELETE("", cartCtrl.Clear)
	}

	// Order session
	r.POST("/checkout", orderCtrl.Checkout)
	order := r.Group("/order")
	{
		order.GET("", orderCtrl.Current)
		order.POST("/request-bill", orderCtrl.RequestBill)
		order.POST("/cancel-bill", orderCtrl.CancelBill)
		order.POST("/call-waiter", orderCtrl.CallWaiter)
	}

	// Bill / payment
	bill := r.Group("/bill")
	{
		bill.GET("", payCtrl.Bill)
		bill.POST("/tip", payCtrl.SetTip)
		bill.POST("/pay", payCtrl.Pay)
		bill.POST("/confirm", payCtrl.Confirm)
	}

	// hosted checkout redirects the guest's browser back here
	r.GET("/payments/return", payCtrl.Return)
}
