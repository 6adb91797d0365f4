package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// productView decorates a product with its derived stock flags.
type productView struct {
	models.Product
	IsLowStock   bool    `json:"is_low_stock"`
	IsOutOfStock bool    `json:"is_out_of_stock"`
	ProfitMargin float64 `json:"profit_margin"`
}

func newProductView(p models.Product) productView {
	return productView{
		Product:      p,
		IsLowStock:   p.IsLowStock(),
		IsOutOfStock: p.IsOutOfStock(),
		ProfitMargin: p.ProfitMargin(),
	}
}

// GetAllProducts -> catalog listing with the usual filters.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	query := pc.DB.Preload("Category")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if avail := c.Query("is_available"); avail != "" {
		query = query.Where("is_available = ?", avail == "true")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("product_name LIKE ?", "%"+strings.TrimSpace(search)+"%")
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("price <= ?", maxPrice)
	}
	if c.Query("low_stock") == "true" {
		query = query.Where("quantity_in_stock <= reorder_level")
	}

	var products []models.Product
	if err := query.Order("product_name ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of products", len(products), products)
}

// GetProductByID -> product plus its recent ledger entries.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	var product models.Product
	if err := pc.DB.Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	var logs []models.InventoryLog
	pc.DB.Where("product_id = ?", product.ID).
		Order("created_at DESC").Limit(10).Find(&logs)

	utils.RespondJSON(c, http.StatusOK, "Product detail", gin.H{
		"product":        newProductView(product),
		"inventory_logs": logs,
	})
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req struct {
		ProductName     string   `json:"product_name" binding:"required"`
		CategoryID      uint     `json:"category_id" binding:"required"`
		Description     string   `json:"description"`
		Price           *float64 `json:"price" binding:"required"`
		CostPrice       float64  `json:"cost_price"`
		QuantityInStock int      `json:"quantity_in_stock"`
		ReorderLevel    *int     `json:"reorder_level"`
		Unit            string   `json:"unit"`
		IsAvailable     *bool    `json:"is_available"`
		ImageURL        string   `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("product name, category and price are required"))
		return
	}
	if *req.Price < 0 || req.CostPrice < 0 || req.QuantityInStock < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price, cost price and stock must be non-negative"))
		return
	}

	var category models.Category
	if err := pc.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	product := models.Product{
		ProductName:     strings.TrimSpace(req.ProductName),
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		Price:           *req.Price,
		CostPrice:       req.CostPrice,
		QuantityInStock: req.QuantityInStock,
		ReorderLevel:    10,
		Unit:            req.Unit,
		IsAvailable:     true,
		ImageURL:        req.ImageURL,
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	tx := pc.DB.Begin()
	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Opening stock goes through the ledger like any other movement.
	if product.QuantityInStock > 0 {
		entry := models.InventoryLog{
			ProductID:      product.ID,
			ChangeType:     models.StockChangeRestock,
			QuantityChange: product.QuantityInStock,
			QuantityBefore: 0,
			QuantityAfter:  product.QuantityInStock,
			Reason:         "Initial stock",
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created successfully", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req struct {
		ProductName  *string  `json:"product_name"`
		CategoryID   *uint    `json:"category_id"`
		Description  *string  `json:"description"`
		Price        *float64 `json:"price"`
		CostPrice    *float64 `json:"cost_price"`
		ReorderLevel *int     `json:"reorder_level"`
		Unit         *string  `json:"unit"`
		IsAvailable  *bool    `json:"is_available"`
		ImageURL     *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		var category models.Category
		if err := pc.DB.First(&category, *req.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		product.CategoryID = *req.CategoryID
	}
	if req.ProductName != nil {
		product.ProductName = strings.TrimSpace(*req.ProductName)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be non-negative"))
			return
		}
		product.Price = *req.Price
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct refuses to drop products still referenced by active orders.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := pc.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	var activeItems int64
	pc.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.status NOT IN ?", product.ID,
			[]string{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Count(&activeItems)
	if activeItems > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cannot delete product that is in active orders"))
		return
	}

	if err := pc.DB.Delete(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted successfully", gin.H{"id": product.ID})
}

// UpdateStock -> PATCH /products/:id/stock. The only write path into the
// ledger besides order item add/remove.
func (pc *ProductController) UpdateStock(c *gin.Context) {
	var req struct {
		Quantity   int    `json:"quantity"`
		ChangeType string `json:"change_type"`
		Reason     string `json:"reason"`
		EmployeeID *uint  `json:"employee_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		utils.RespondError(c, http.StatusBadRequest, models.ErrZeroStockChange)
		return
	}
	if req.ChangeType != "" && !models.ValidStockChangeType(req.ChangeType) {
		utils.RespondError(c, http.StatusBadRequest, models.ErrInvalidChangeType)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	tx := pc.DB.Begin()
	err := product.AdjustStock(tx, req.Quantity, req.ChangeType, req.Reason, req.EmployeeID, nil)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, models.ErrInsufficientStock) {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("insufficient stock for %q, available: %d", product.ProductName, product.QuantityInStock))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Stock updated successfully", newProductView(product))
}

// RestockProduct -> POST /products/:id/restock, positive quantities only.
func (pc *ProductController) RestockProduct(c *gin.Context) {
	var req struct {
		Quantity   int    `json:"quantity" binding:"required"`
		Reason     string `json:"reason"`
		EmployeeID *uint  `json:"employee_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be a positive number"))
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "Restock"
	}

	tx := pc.DB.Begin()
	if err := product.AdjustStock(tx, req.Quantity, models.StockChangeRestock, reason, req.EmployeeID, nil); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product restocked successfully", newProductView(product))
}

// SetAvailability -> PATCH /products/:id/availability.
func (pc *ProductController) SetAvailability(c *gin.Context) {
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("is_available is required"))
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	product.IsAvailable = *req.IsAvailable
	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product availability updated", product)
}

// GetAvailableProducts -> in-stock, available catalog for ordering.
func (pc *ProductController) GetAvailableProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Preload("Category").
		Where("is_available = ? AND quantity_in_stock > 0", true).
		Order("product_name ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Available products", len(products), products)
}

// GetLowStockProducts -> everything at or under its reorder level.
func (pc *ProductController) GetLowStockProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Preload("Category").
		Where("quantity_in_stock <= reorder_level").
		Order("quantity_in_stock ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Low stock products", len(products), products)
}

func (pc *ProductController) GetOutOfStockProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Preload("Category").
		Where("quantity_in_stock = 0").
		Order("product_name ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Out of stock products", len(products), products)
}

// GetProductStatistics -> catalog-level stock overview.
func (pc *ProductController) GetProductStatistics(c *gin.Context) {
	var total, available, lowStock, outOfStock int64
	var stockValue float64

	pc.DB.Model(&models.Product{}).Count(&total)
	pc.DB.Model(&models.Product{}).Where("is_available = ?", true).Count(&available)
	pc.DB.Model(&models.Product{}).Where("quantity_in_stock <= reorder_level").Count(&lowStock)
	pc.DB.Model(&models.Product{}).Where("quantity_in_stock = 0").Count(&outOfStock)
	pc.DB.Model(&models.Product{}).
		Select("COALESCE(SUM(cost_price * quantity_in_stock), 0)").Row().Scan(&stockValue)

	utils.RespondJSON(c, http.StatusOK, "Product statistics", gin.H{
		"total":        total,
		"available":    available,
		"low_stock":    lowStock,
		"out_of_stock": outOfStock,
		"stock_value":  stockValue,
	})
}
