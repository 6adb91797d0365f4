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

// InventoryController is read-only: the ledger is written exclusively by
// Product.AdjustStock.
type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

// GetAllLogs -> GET /inventory/logs with optional filters, newest first.
func (ic *InventoryController) GetAllLogs(c *gin.Context) {
	query := ic.DB.Preload("Product").Preload("Employee").Preload("Order")

	if productID := c.Query("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if changeType := c.Query("change_type"); changeType != "" {
		query = query.Where("change_type = ?", changeType)
	}
	if employeeID := c.Query("employee_id"); employeeID != "" {
		query = query.Where("performed_by = ?", employeeID)
	}
	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" && end != "" {
		query = query.Where("created_at BETWEEN ? AND ?", start, end)
	}

	var logs []models.InventoryLog
	if err := query.Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Inventory logs", len(logs), logs)
}

func (ic *InventoryController) GetLogByID(c *gin.Context) {
	var log models.InventoryLog
	if err := ic.DB.Preload("Product").Preload("Employee").Preload("Order").
		First(&log, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("inventory log not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory log detail", log)
}

// GetLogsByProduct -> the movement history of one product.
func (ic *InventoryController) GetLogsByProduct(c *gin.Context) {
	var product models.Product
	if err := ic.DB.First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	var logs []models.InventoryLog
	if err := ic.DB.Preload("Employee").Preload("Order").
		Where("product_id = ?", product.ID).
		Order("created_at DESC").Limit(50).Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Inventory logs for product", gin.H{
		"product": gin.H{
			"id":            product.ID,
			"name":          product.ProductName,
			"current_stock": product.QuantityInStock,
		},
		"count": len(logs),
		"logs":  logs,
	})
}

func (ic *InventoryController) GetLogsByChangeType(c *gin.Context) {
	changeType := c.Param("type")
	if !models.ValidStockChangeType(changeType) {
		utils.RespondError(c, http.StatusBadRequest, models.ErrInvalidChangeType)
		return
	}

	var logs []models.InventoryLog
	if err := ic.DB.Preload("Product").Preload("Employee").
		Where("change_type = ?", changeType).
		Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Inventory logs of type "+changeType, len(logs), logs)
}

// GetRecentWastage -> wastage entries of the last N days with their value
// at current product price.
func (ic *InventoryController) GetRecentWastage(c *gin.Context) {
	days := 30
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("days must be a positive number"))
			return
		}
		days = parsed
	}
	since := time.Now().AddDate(0, 0, -days)

	var logs []models.InventoryLog
	if err := ic.DB.Preload("Product").Preload("Employee").
		Where("change_type = ? AND created_at >= ?", models.StockChangeWastage, since).
		Order("created_at DESC").Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalValue float64
	for _, log := range logs {
		if log.Product != nil {
			totalValue += float64(log.AbsoluteChange()) * log.Product.Price
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Recent wastage", gin.H{
		"period_days":         days,
		"count":               len(logs),
		"total_wastage_value": totalValue,
		"logs":                logs,
	})
}

// GetRestockHistory -> restock entries, newest first.
func (ic *InventoryController) GetRestockHistory(c *gin.Context) {
	var logs []models.InventoryLog
	if err := ic.DB.Preload("Product").Preload("Employee").
		Where("change_type = ?", models.StockChangeRestock).
		Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Restock history", len(logs), logs)
}

// GetStatistics -> movement totals per change type.
func (ic *InventoryController) GetStatistics(c *gin.Context) {
	var stats []struct {
		ChangeType string `json:"change_type"`
		Count      int64  `json:"count"`
		TotalUnits int64  `json:"total_units"`
	}
	err := ic.DB.Model(&models.InventoryLog{}).
		Select("change_type, COUNT(*) AS count, COALESCE(SUM(ABS(quantity_change)), 0) AS total_units").
		Group("change_type").
		Scan(&stats).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalEntries int64
	ic.DB.Model(&models.InventoryLog{}).Count(&totalEntries)

	utils.RespondJSON(c, http.StatusOK, "Inventory statistics", gin.H{
		"total_entries": totalEntries,
		"by_type":       stats,
	})
}

// GetLowStockAlerts -> products needing a reorder, most urgent first.
func (ic *InventoryController) GetLowStockAlerts(c *gin.Context) {
	var products []models.Product
	if err := ic.DB.Preload("Category").
		Where("quantity_in_stock <= reorder_level").
		Order("quantity_in_stock ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type alert struct {
		ProductID    uint   `json:"product_id"`
		ProductName  string `json:"product_name"`
		CurrentStock int    `json:"current_stock"`
		ReorderLevel int    `json:"reorder_level"`
		OutOfStock   bool   `json:"out_of_stock"`
	}
	alerts := make([]alert, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, alert{
			ProductID:    p.ID,
			ProductName:  p.ProductName,
			CurrentStock: p.QuantityInStock,
			ReorderLevel: p.ReorderLevel,
			OutOfStock:   p.IsOutOfStock(),
		})
	}
	utils.RespondList(c, http.StatusOK, "Low stock alerts", len(alerts), alerts)
}
