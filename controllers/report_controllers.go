package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

// ReportController aggregates completed orders and their payments into
// back-office reports. Only portable SQL is used so the same queries run
// on MySQL in production and SQLite in tests.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// GetDailySales -> GET /reports/daily-sales?date=YYYY-MM-DD (default today).
func (rc *ReportController) GetDailySales(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	var summary struct {
		OrderCount    int64   `json:"order_count"`
		TotalRevenue  float64 `json:"total_revenue"`
		TotalDiscount float64 `json:"total_discount"`
		TotalTax      float64 `json:"total_tax"`
	}
	err := rc.DB.Model(&models.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(final_amount), 0) AS total_revenue, "+
			"COALESCE(SUM(discount), 0) AS total_discount, COALESCE(SUM(tax), 0) AS total_tax").
		Where("status = ? AND DATE(order_date) = ?", models.OrderStatusCompleted, date).
		Scan(&summary).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	avgOrder := 0.0
	if summary.OrderCount > 0 {
		avgOrder = summary.TotalRevenue / float64(summary.OrderCount)
	}

	utils.RespondJSON(c, http.StatusOK, "Daily sales report", gin.H{
		"date":            date,
		"order_count":     summary.OrderCount,
		"total_revenue":   summary.TotalRevenue,
		"total_discount":  summary.TotalDiscount,
		"total_tax":       summary.TotalTax,
		"average_order":   avgOrder,
		"revenue_display": utils.FormatAmount(summary.TotalRevenue),
	})
}

// GetMonthlySales -> GET /reports/monthly-sales?year=YYYY&month=MM, broken
// down per day.
func (rc *ReportController) GetMonthlySales(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("year must be a number"))
			return
		}
		year = parsed
	}
	if m := c.Query("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("month must be between 1 and 12"))
			return
		}
		month = parsed
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var daily []struct {
		Day     string  `json:"day"`
		Orders  int64   `json:"orders"`
		Revenue float64 `json:"revenue"`
	}
	err := rc.DB.Model(&models.Order{}).
		Select("DATE(order_date) AS day, COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("status = ? AND order_date >= ? AND order_date < ?", models.OrderStatusCompleted, start, end).
		Group("DATE(order_date)").
		Order("day ASC").
		Scan(&daily).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalOrders int64
	var totalRevenue float64
	for _, d := range daily {
		totalOrders += d.Orders
		totalRevenue += d.Revenue
	}

	utils.RespondJSON(c, http.StatusOK, "Monthly sales report", gin.H{
		"year":          year,
		"month":         month,
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue,
		"daily":         daily,
	})
}

// GetMostSoldItems -> GET /reports/most-sold-items?limit=N (default 10),
// ranked by units sold on completed orders.
func (rc *ReportController) GetMostSoldItems(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("limit must be a positive number"))
			return
		}
		limit = parsed
	}

	var items []struct {
		ProductID    uint    `json:"product_id"`
		ProductName  string  `json:"product_name"`
		UnitsSold    int64   `json:"units_sold"`
		TotalRevenue float64 `json:"total_revenue"`
	}
	err := rc.DB.Model(&models.OrderItem{}).
		Select("order_items.product_id, products.product_name, "+
			"SUM(order_items.quantity) AS units_sold, SUM(order_items.subtotal) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.status = ?", models.OrderStatusCompleted).
		Group("order_items.product_id, products.product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Most sold items", len(items), items)
}

// GetSalesByCategory -> revenue per product category over completed orders.
func (rc *ReportController) GetSalesByCategory(c *gin.Context) {
	var rows []struct {
		CategoryID   uint    `json:"category_id"`
		CategoryName string  `json:"category_name"`
		UnitsSold    int64   `json:"units_sold"`
		TotalRevenue float64 `json:"total_revenue"`
	}
	err := rc.DB.Model(&models.OrderItem{}).
		Select("categories.id AS category_id, categories.category_name, "+
			"SUM(order_items.quantity) AS units_sold, SUM(order_items.subtotal) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("orders.status = ?", models.OrderStatusCompleted).
		Group("categories.id, categories.category_name").
		Order("total_revenue DESC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Sales by category", len(rows), rows)
}

// GetEmployeePerformance -> orders handled and revenue per employee.
func (rc *ReportController) GetEmployeePerformance(c *gin.Context) {
	var rows []struct {
		EmployeeID   uint    `json:"employee_id"`
		EmployeeName string  `json:"employee_name"`
		Role         string  `json:"role"`
		OrdersServed int64   `json:"orders_served"`
		TotalRevenue float64 `json:"total_revenue"`
	}
	err := rc.DB.Model(&models.Order{}).
		Select("employees.id AS employee_id, employees.employee_name, employees.role, "+
			"COUNT(orders.id) AS orders_served, COALESCE(SUM(orders.final_amount), 0) AS total_revenue").
		Joins("JOIN employees ON employees.id = orders.employee_id").
		Where("orders.status = ?", models.OrderStatusCompleted).
		Group("employees.id, employees.employee_name, employees.role").
		Order("total_revenue DESC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Employee performance", len(rows), rows)
}

// GetRevenueOverTime -> GET /reports/revenue?start_date=...&end_date=...,
// one row per day in the range.
func (rc *ReportController) GetRevenueOverTime(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("start_date and end_date are required"))
		return
	}
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("start_date must be YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must be YYYY-MM-DD"))
		return
	}
	if endDate.Before(startDate) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must not be before start_date"))
		return
	}

	var rows []struct {
		Day     string  `json:"day"`
		Orders  int64   `json:"orders"`
		Revenue float64 `json:"revenue"`
	}
	err = rc.DB.Model(&models.Order{}).
		Select("DATE(order_date) AS day, COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("status = ? AND order_date >= ? AND order_date < ?",
			models.OrderStatusCompleted, startDate, endDate.AddDate(0, 0, 1)).
		Group("DATE(order_date)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total float64
	for _, r := range rows {
		total += r.Revenue
	}

	utils.RespondJSON(c, http.StatusOK, "Revenue over time", gin.H{
		"start_date":    start,
		"end_date":      end,
		"total_revenue": total,
		"daily":         rows,
	})
}
