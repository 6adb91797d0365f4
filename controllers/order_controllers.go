package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type orderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Notes     string `json:"notes"`
}

type createOrderRequest struct {
	TableID       uint               `json:"table_id" binding:"required"`
	EmployeeID    *uint              `json:"employee_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      float64            `json:"discount"`
	Tax           float64            `json:"tax"`
	Notes         string             `json:"notes"`
}

// preloadOrder hydrates an order the way every order response ships it.
func (oc *OrderController) preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Table").
		Preload("Waiter").
		Preload("Items").
		Preload("Items.Product").
		Preload("Payment")
}

// GetAllOrders -> list orders, optionally filtered by status, table,
// employee or day.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.preloadOrder(oc.DB)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tableID := c.Query("table_id"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}
	if employeeID := c.Query("employee_id"); employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		query = query.Where("order_date >= ? AND order_date < ?", day, day.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := query.Order("order_date DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of orders", len(orders), orders)
}

// GetOrderByID -> one hydrated order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	if err := oc.preloadOrder(oc.DB).Preload("Payment.Cashier").First(&order, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder runs the order workflow in one transaction: validate table
// and items, snapshot prices, decrement stock through the ledger, mark
// the table occupied. Any failure rolls the whole thing back.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table and items are required"))
		return
	}

	var table models.Table
	if err := oc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	tx := oc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	// Validate every line and compute the total before writing anything.
	var totalAmount float64
	products := make([]models.Product, len(req.Items))
	for i, item := range req.Items {
		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("product with ID %d not found", item.ProductID))
			return
		}
		if !product.IsAvailable {
			tx.Rollback()
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("product %q is not available", product.ProductName))
			return
		}
		if product.QuantityInStock < item.Quantity {
			tx.Rollback()
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("insufficient stock for %q, available: %d", product.ProductName, product.QuantityInStock))
			return
		}
		totalAmount += product.Price * float64(item.Quantity)
		products[i] = product
	}

	order := models.Order{
		TableID:       req.TableID,
		EmployeeID:    req.EmployeeID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		OrderDate:     time.Now(),
		TotalAmount:   totalAmount,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Notes:         req.Notes,
		Status:        models.OrderStatusPending,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for i, item := range req.Items {
		product := products[i]
		orderItem := models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  product.Price * float64(item.Quantity),
			Notes:     item.Notes,
			Status:    models.OrderItemStatusPending,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		err := product.AdjustStock(tx, -item.Quantity, models.StockChangeSale,
			fmt.Sprintf("Order #%d", order.ID), req.EmployeeID, &order.ID)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, models.ErrInsufficientStock) {
				utils.RespondError(c, http.StatusBadRequest,
					fmt.Errorf("insufficient stock for %q", product.ProductName))
				return
			}
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Model(&table).Update("status", models.TableStatusOccupied).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var created models.Order
	if err := oc.preloadOrder(oc.DB).First(&created, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d created for table %s (total %.2f)", created.ID, table.TableNumber, created.TotalAmount)
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", created)
}

// UpdateOrder -> partial update of customer info, discount, tax, notes or
// status. Rejected once the order left the modifiable states, except for
// cancellations.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var req struct {
		CustomerName  *string  `json:"customer_name"`
		CustomerPhone *string  `json:"customer_phone"`
		Discount      *float64 `json:"discount"`
		Tax           *float64 `json:"tax"`
		Notes         *string  `json:"notes"`
		Status        *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if req.Status != nil && !models.ValidOrderStatus(*req.Status) {
		utils.RespondError(c, http.StatusBadRequest, models.ErrInvalidOrderStatus)
		return
	}

	cancelling := req.Status != nil && *req.Status == models.OrderStatusCancelled
	if !order.CanBeModified() && !cancelling {
		utils.RespondError(c, http.StatusBadRequest, models.ErrOrderNotModifiable)
		return
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = *req.CustomerPhone
	}
	if req.Discount != nil {
		order.Discount = *req.Discount
	}
	if req.Tax != nil {
		order.Tax = *req.Tax
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.Status != nil {
		order.Status = *req.Status
	}

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var updated models.Order
	if err := oc.preloadOrder(oc.DB).First(&updated, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated successfully", updated)
}

// UpdateOrderStatus -> PATCH /orders/:id/status. Completing an order here
// also frees its table; this path exists alongside payment-driven
// completion, matching the system this replaces.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, models.ErrInvalidOrderStatus)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	tx := oc.DB.Begin()
	order.Status = req.Status
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if req.Status == models.OrderStatusCompleted {
		var table models.Table
		if err := tx.First(&table, order.TableID).Error; err == nil {
			if err := table.Free(tx); err != nil {
				tx.Rollback()
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order status updated to %s", req.Status), order)
}

// DeleteOrder removes pending or cancelled orders. Stock consumed at
// creation is deliberately not re-credited here.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusCancelled {
		utils.RespondError(c, http.StatusBadRequest, errors.New("only pending or cancelled orders can be deleted"))
		return
	}

	tx := oc.DB.Begin()
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted successfully", gin.H{"id": order.ID})
}

// AddItemToOrder -> POST /orders/:id/items, modifiable orders only.
func (oc *OrderController) AddItemToOrder(c *gin.Context) {
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if !order.CanBeModified() {
		utils.RespondError(c, http.StatusBadRequest, models.ErrOrderNotModifiable)
		return
	}

	var product models.Product
	if err := oc.DB.First(&product, req.ProductID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	if !product.IsAvailable || product.QuantityInStock < req.Quantity {
		utils.RespondError(c, http.StatusBadRequest, errors.New("product not available or insufficient stock"))
		return
	}

	tx := oc.DB.Begin()

	item := models.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
		Subtotal:  product.Price * float64(req.Quantity),
		Notes:     req.Notes,
		Status:    models.OrderItemStatusPending,
	}
	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	err := product.AdjustStock(tx, -req.Quantity, models.StockChangeSale,
		fmt.Sprintf("Order #%d", order.ID), order.EmployeeID, &order.ID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, models.ErrInsufficientStock) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order.TotalAmount += item.Subtotal
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added to order successfully", item)
}

// RemoveItemFromOrder -> DELETE /orders/:id/items/:item_id. The removed
// quantity goes back to stock as an adjustment entry.
func (oc *OrderController) RemoveItemFromOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if !order.CanBeModified() {
		utils.RespondError(c, http.StatusBadRequest, models.ErrOrderNotModifiable)
		return
	}

	var item models.OrderItem
	if err := oc.DB.Where("id = ? AND order_id = ?", c.Param("item_id"), order.ID).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order item not found"))
		return
	}

	var product models.Product
	if err := oc.DB.First(&product, item.ProductID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tx := oc.DB.Begin()

	err := product.AdjustStock(tx, item.Quantity, models.StockChangeAdjustment,
		fmt.Sprintf("Removed from Order #%d", order.ID), order.EmployeeID, nil)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order.TotalAmount -= item.Subtotal
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed from order successfully", nil)
}

// GetOrdersByStatus -> GET /orders/status/:status.
func (oc *OrderController) GetOrdersByStatus(c *gin.Context) {
	status := c.Param("status")
	if !models.ValidOrderStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, models.ErrInvalidOrderStatus)
		return
	}

	var orders []models.Order
	if err := oc.preloadOrder(oc.DB).Where("status = ?", status).
		Order("order_date DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Orders with status "+status, len(orders), orders)
}

// GetOrdersByTable -> active (not completed/cancelled) orders of a table.
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	var orders []models.Order
	if err := oc.preloadOrder(oc.DB).
		Where("table_id = ? AND status NOT IN ?", c.Param("table_id"),
			[]string{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Order("order_date DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Active orders for table", len(orders), orders)
}

// GetOrderStatistics -> counts and today's revenue.
func (oc *OrderController) GetOrderStatistics(c *gin.Context) {
	var total, pending, completed, cancelled, todayCount int64
	var todayRevenue float64

	oc.DB.Model(&models.Order{}).Count(&total)
	oc.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pending)
	oc.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&completed)
	oc.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&cancelled)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	oc.DB.Model(&models.Order{}).Where("order_date >= ?", today).Count(&todayCount)
	oc.DB.Model(&models.Order{}).
		Where("order_date >= ? AND status = ?", today, models.OrderStatusCompleted).
		Select("COALESCE(SUM(final_amount), 0)").Row().Scan(&todayRevenue)

	utils.RespondJSON(c, http.StatusOK, "Order statistics", gin.H{
		"total":         total,
		"pending":       pending,
		"completed":     completed,
		"cancelled":     cancelled,
		"today_orders":  todayCount,
		"today_revenue": todayRevenue,
	})
}
