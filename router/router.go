package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/controllers"
	"github.com/yeremiapane/table-order/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      CUSTOMER ROUTES
	// ----------------------------------------------------------------

	// Catalog
	r.GET("/categories", menuCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-category", menuCtrl.GetMenuByCategory)

	// Table scan starts (or rejoins) the order session; keep it rate limited
	// since the QR link is public.
	scan := r.Group("/")
	scan.Use(middlewares.NewStrictRateLimiter())
	{
		scan.GET("/tables/:table_id/scan", tableCtrl.ScanTable)
	}

	// Order page, keyed by the opaque token from the table link
	r.GET("/orders/:order_token", orderCtrl.GetOrderByToken)
	r.POST("/orders/:order_token/requests", orderCtrl.CreateOrderRequest)
	r.GET("/orders/:order_token/announcements", orderCtrl.GetAnnouncements)
	r.PATCH("/orders/:order_token/requests", orderCtrl.ClearRejectionNotices)
	r.GET("/orders/:order_token/ws", orderCtrl.WatchOrder)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/staff")

	staff.GET("/tables", tableCtrl.GetAllTables)
	staff.POST("/tables", tableCtrl.CreateTable)
	staff.GET("/tables/:table_id", tableCtrl.GetTableByID)
	staff.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)

	staff.GET("/tables/:table_id/orders", orderCtrl.GetOrdersByTable)
	staff.GET("/tables/:table_id/orders/completed", orderCtrl.GetCompletedOrdersByTable)
	staff.GET("/tables/:table_id/active-order", orderCtrl.GetActiveOrderByTable)

	staff.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
	staff.POST("/orders/:order_id/confirm", orderCtrl.ConfirmOrder)
	staff.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)
	staff.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	staff.POST("/requests/:request_id/accept", orderCtrl.AcceptOrderRequest)
	staff.POST("/requests/:request_id/reject", orderCtrl.RejectOrderRequest)

	// Dashboard WebSocket
	r.GET("/ws/:role", controllers.DashboardHandler)

	return r
}
