package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/controllers"
	"github.com/resturaent/API/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db)
	inventoryCtrl := controllers.NewInventoryController(db)
	employeeCtrl := controllers.NewEmployeeController(db)
	reportCtrl := controllers.NewReportController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      AUTH
	// ----------------------------------------------------------------
	auth := r.Group("/auth")
	{
		limited := auth.Group("/")
		limited.Use(middlewares.NewStrictRateLimiter())
		{
			limited.POST("/register", userCtrl.Register)
			limited.POST("/login", userCtrl.Login)
		}

		auth.GET("/profile", middlewares.AuthMiddleware(), userCtrl.GetProfile)
	}

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      TABLES
	// ----------------------------------------------------------------
	tables := api.Group("/tables")
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.POST("", tableCtrl.CreateTable)
		tables.GET("/available", tableCtrl.GetAvailableTables)
		tables.GET("/statistics", tableCtrl.GetTableStatistics)
		tables.GET("/:id", tableCtrl.GetTableByID)
		tables.PATCH("/:id", tableCtrl.UpdateTable)
		tables.DELETE("/:id", tableCtrl.DeleteTable)
		tables.PATCH("/:id/status", tableCtrl.UpdateTableStatus)
		tables.PATCH("/:id/occupy", tableCtrl.OccupyTable)
		tables.PATCH("/:id/free", tableCtrl.FreeTable)
	}

	// ----------------------------------------------------------------
	//                      CATEGORIES
	// ----------------------------------------------------------------
	categories := api.Group("/categories")
	{
		categories.GET("", categoryCtrl.GetAllCategories)
		categories.POST("", categoryCtrl.CreateCategory)
		categories.GET("/active", categoryCtrl.GetActiveCategories)
		categories.GET("/type/:type", categoryCtrl.GetCategoriesByType)
		categories.GET("/:id", categoryCtrl.GetCategoryByID)
		categories.PATCH("/:id", categoryCtrl.UpdateCategory)
		categories.DELETE("/:id", categoryCtrl.DeleteCategory)
	}

	// ----------------------------------------------------------------
	//                      PRODUCTS
	// ----------------------------------------------------------------
	products := api.Group("/products")
	{
		products.GET("", productCtrl.GetAllProducts)
		products.POST("", productCtrl.CreateProduct)
		products.GET("/available", productCtrl.GetAvailableProducts)
		products.GET("/low-stock", productCtrl.GetLowStockProducts)
		products.GET("/out-of-stock", productCtrl.GetOutOfStockProducts)
		products.GET("/statistics", productCtrl.GetProductStatistics)
		products.GET("/:id", productCtrl.GetProductByID)
		products.PATCH("/:id", productCtrl.UpdateProduct)
		products.DELETE("/:id", productCtrl.DeleteProduct)
		products.PATCH("/:id/stock", productCtrl.UpdateStock)
		products.POST("/:id/restock", productCtrl.RestockProduct)
		products.PATCH("/:id/availability", productCtrl.SetAvailability)
	}

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	orders := api.Group("/orders")
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("/statistics", orderCtrl.GetOrderStatistics)
		orders.GET("/status/:status", orderCtrl.GetOrdersByStatus)
		orders.GET("/table/:table_id", orderCtrl.GetOrdersByTable)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.PATCH("/:id", orderCtrl.UpdateOrder)
		orders.DELETE("/:id", orderCtrl.DeleteOrder)
		orders.PATCH("/:id/status", orderCtrl.UpdateOrderStatus)
		orders.POST("/:id/items", orderCtrl.AddItemToOrder)
		orders.DELETE("/:id/items/:item_id", orderCtrl.RemoveItemFromOrder)
	}

	// ----------------------------------------------------------------
	//                      PAYMENTS
	// ----------------------------------------------------------------
	payments := api.Group("/payments")
	{
		payments.GET("", paymentCtrl.GetAllPayments)
		payments.POST("", paymentCtrl.CreatePayment)
		payments.GET("/daily", paymentCtrl.GetDailyPayments)
		payments.GET("/statistics", paymentCtrl.GetPaymentStatistics)
		payments.GET("/method/:method", paymentCtrl.GetPaymentsByMethod)
		payments.GET("/receipt/:receipt_number", paymentCtrl.GetPaymentByReceiptNumber)
		payments.GET("/:id", paymentCtrl.GetPaymentByID)
		payments.PATCH("/:id", paymentCtrl.UpdatePayment)
		payments.DELETE("/:id", paymentCtrl.DeletePayment)

		receipts := payments.Group("/")
		receipts.Use(middlewares.ReceiptLoggerMiddleware())
		{
			receipts.GET("/:id/receipt", paymentCtrl.PrintReceipt)
		}
	}

	// ----------------------------------------------------------------
	//                      INVENTORY (read-only ledger)
	// ----------------------------------------------------------------
	inventory := api.Group("/inventory")
	{
		inventory.GET("/logs", inventoryCtrl.GetAllLogs)
		inventory.GET("/logs/type/:type", inventoryCtrl.GetLogsByChangeType)
		inventory.GET("/logs/:id", inventoryCtrl.GetLogByID)
		inventory.GET("/products/:product_id/logs", inventoryCtrl.GetLogsByProduct)
		inventory.GET("/wastage", inventoryCtrl.GetRecentWastage)
		inventory.GET("/restocks", inventoryCtrl.GetRestockHistory)
		inventory.GET("/statistics", inventoryCtrl.GetStatistics)
		inventory.GET("/alerts", inventoryCtrl.GetLowStockAlerts)
	}

	// ----------------------------------------------------------------
	//                      EMPLOYEES
	// ----------------------------------------------------------------
	employees := api.Group("/employees")
	{
		employees.GET("", employeeCtrl.GetAllEmployees)
		employees.POST("", employeeCtrl.CreateEmployee)
		employees.GET("/statistics", employeeCtrl.GetEmployeeStatistics)
		employees.GET("/role/:role", employeeCtrl.GetEmployeesByRole)
		employees.GET("/:id", employeeCtrl.GetEmployeeByID)
		employees.PATCH("/:id", employeeCtrl.UpdateEmployee)
		employees.DELETE("/:id", employeeCtrl.DeleteEmployee)
		employees.PATCH("/:id/activate", employeeCtrl.ActivateEmployee)
		employees.PATCH("/:id/deactivate", employeeCtrl.DeactivateEmployee)
	}

	// ----------------------------------------------------------------
	//                      REPORTS (managers only)
	// ----------------------------------------------------------------
	reports := api.Group("/reports")
	reports.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("manager"))
	{
		reports.GET("/daily-sales", reportCtrl.GetDailySales)
		reports.GET("/monthly-sales", reportCtrl.GetMonthlySales)
		reports.GET("/most-sold-items", reportCtrl.GetMostSoldItems)
		reports.GET("/sales-by-category", reportCtrl.GetSalesByCategory)
		reports.GET("/employee-performance", reportCtrl.GetEmployeePerformance)
		reports.GET("/revenue", reportCtrl.GetRevenueOverTime)
	}

	return r
}
