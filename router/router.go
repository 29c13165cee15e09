package router

import (
	"net/http"

	"github.com/comanda-app/comanda/controllers"
	"github.com/comanda-app/comanda/middlewares"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

func SetupRouter(d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.Config.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if d.Config.RateLimit > 0 && d.Config.RateLimitWindow > 0 {
		r.Use(middlewares.NewRateLimiter(d.Config.RateLimit, d.Config.RateLimitWindow).RateLimit())
	}

	kitchenCtrl := controllers.NewKitchenController(d.Kitchen, d.Hub, d.Config.CORSOrigin)
	orderCtrl := controllers.NewOrderController(d.Orders, d.Store)
	menuCtrl := controllers.NewMenuController(d.Catalog)
	categoryCtrl := controllers.NewMenuCategoryController(d.Catalog)
	couponCtrl := controllers.NewCouponController(d.Coupons)
	inventoryCtrl := controllers.NewInventoryController(d.Inventory, d.Orders.Location)
	customerCtrl := controllers.NewCustomerController(d.Orders, d.Store)
	financeCtrl := controllers.NewFinanceController(d.Finance)
	receiptCtrl := controllers.NewReceiptController(d.Catalog, d.Store, d.Kitchen)
	notifCtrl := controllers.NewNotificationController(d.Notifications)
	adminCtrl := controllers.NewAdminController(d.Catalog, d.Store, d.Inventory, d.Orders.Location)
	userCtrl := controllers.NewUserController(d.DB, d.Catalog)

	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "ok", gin.H{"tenants_loaded": len(d.Kitchen.Tenants())})
	})

	// domain utama langsung ke cardápio tenant default
	if slug := d.Config.DefaultTenant; slug != "" {
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/t/"+slug+"/menu")
		})
	}

	// Auth
	auth := r.Group("/auth")
	{
		strict := middlewares.NewStrictRateLimiter()
		auth.POST("/login", strict, userCtrl.Login)
		auth.POST("/register", strict, middlewares.OptionalAuth(), userCtrl.Register)
		auth.POST("/logout", middlewares.AuthMiddleware(), userCtrl.Logout)
	}

	// Storefront publik per tenant
	public := r.Group("/t/:tenant")
	{
		public.GET("/menu", menuCtrl.PublicMenu)
		public.GET("/promos", couponCtrl.PublicPromos)
		public.POST("/orders", orderCtrl.PlaceOrder)
		public.POST("/coupons/validate", couponCtrl.ValidateCoupon)
	}

	// Websocket board; token lewat ?token=
	r.GET("/ws/:tenant", middlewares.WebSocketAuthMiddleware("tenant"),
		middlewares.RequireRoles(middlewares.RoleStaff, middlewares.RoleChef), kitchenCtrl.KDSHandler)

	admin := r.Group("/admin", middlewares.AuthMiddleware())
	admin.GET("/me", userCtrl.GetProfile)

	kitchenGroup := admin.Group("/kitchen", middlewares.RequireRoles(middlewares.RoleStaff, middlewares.RoleChef))
	{
		kitchenGroup.GET("/board", kitchenCtrl.GetBoard)
		kitchenGroup.GET("/orders/:order_id/bill", kitchenCtrl.GetBill)
		kitchenGroup.GET("/orders/:order_id/bill/ticket", receiptCtrl.BillTicket)
		kitchenGroup.PATCH("/orders/:order_id/items/:index/toggle", kitchenCtrl.ToggleItem)
		kitchenGroup.POST("/orders/:order_id/advance", kitchenCtrl.AdvanceStatus)
		kitchenGroup.POST("/orders/:order_id/close", kitchenCtrl.CloseBill)
		kitchenGroup.DELETE("/orders/:order_id", middlewares.RequireRoles(middlewares.RoleStaff), kitchenCtrl.DeleteOrder)
	}

	staff := admin.Group("", middlewares.RequireRoles(middlewares.RoleStaff))
	{
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.GET("/orders/:order_id/ticket", receiptCtrl.OrderTicket)
		staff.POST("/orders/counter", orderCtrl.CounterSale)

		staff.GET("/dashboard", adminCtrl.GetDashboardStats)
		staff.GET("/menu", menuCtrl.GetAllMenus)
		staff.PATCH("/products/:product_id/availability", menuCtrl.SetAvailability)

		staff.GET("/inventory", inventoryCtrl.GetAllItems)
		staff.GET("/inventory/valuation", inventoryCtrl.Valuation)
		staff.GET("/inventory/shopping-list", inventoryCtrl.ShoppingList)
		staff.GET("/inventory/waste", inventoryCtrl.WasteLog)
		staff.GET("/inventory/items/:item_id", inventoryCtrl.GetItemByID)
		staff.POST("/inventory/items/:item_id/adjust", inventoryCtrl.AdjustQty)
		staff.POST("/inventory/items/:item_id/waste", inventoryCtrl.RecordWaste)
	}

	notif := admin.Group("/notifications")
	{
		notif.GET("", notifCtrl.GetAllNotifications)
		notif.PATCH("/:notif_id/read", notifCtrl.MarkRead)
		notif.POST("", middlewares.RequireRoles(middlewares.RoleAdmin), notifCtrl.CreateNotification)
		notif.DELETE("/:notif_id", middlewares.RequireRoles(middlewares.RoleAdmin), notifCtrl.DeleteNotification)
	}

	owner := admin.Group("", middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		owner.GET("/settings", adminCtrl.GetSettings)
		owner.PUT("/settings", adminCtrl.UpdateSettings)
		owner.GET("/users", userCtrl.GetAllUsers)

		owner.POST("/products", menuCtrl.CreateMenu)
		owner.PUT("/products/:product_id", menuCtrl.UpdateMenu)
		owner.DELETE("/products/:product_id", menuCtrl.DeleteMenu)
		owner.GET("/categories", categoryCtrl.GetAllCategories)
		owner.POST("/categories", categoryCtrl.CreateCategory)
		owner.DELETE("/categories/:category_id", categoryCtrl.DeleteCategory)

		owner.GET("/coupons", couponCtrl.GetAllCoupons)
		owner.POST("/coupons", couponCtrl.CreateCoupon)
		owner.PUT("/coupons/:coupon_id", couponCtrl.UpdateCoupon)
		owner.DELETE("/coupons/:coupon_id", couponCtrl.DeleteCoupon)

		owner.POST("/inventory/items", inventoryCtrl.CreateItem)
		owner.PUT("/inventory/items/:item_id", inventoryCtrl.UpdateItem)
		owner.DELETE("/inventory/items/:item_id", inventoryCtrl.DeleteItem)

		owner.GET("/customers", customerCtrl.GetAllCustomers)
		owner.GET("/customers/metrics", customerCtrl.GetMetrics)

		fin := owner.Group("/finance")
		fin.GET("/report", financeCtrl.GetReport)
		fin.GET("/report.pdf", financeCtrl.ReportPDF)
		fin.GET("/chart.png", financeCtrl.SalesChartPNG)
		fin.GET("/transactions", financeCtrl.GetTransactions)
		fin.POST("/transactions", financeCtrl.AddTransaction)
		fin.DELETE("/transactions/:transaction_id", financeCtrl.DeleteTransaction)
		fin.GET("/fixed-costs", financeCtrl.GetFixedCosts)
		fin.POST("/fixed-costs", financeCtrl.SaveFixedCost)
		fin.PUT("/fixed-costs/:cost_id", financeCtrl.SaveFixedCost)
		fin.DELETE("/fixed-costs/:cost_id", financeCtrl.DeleteFixedCost)
		fin.POST("/close-month", financeCtrl.CloseMonth)
		fin.GET("/history", financeCtrl.History)
	}

	return r
}
