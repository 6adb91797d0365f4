package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

type PaymentController struct {
	DB *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

// receiptRetries bounds receipt-number regeneration when the generated
// number collides with an existing row.
const receiptRetries = 3

type createPaymentRequest struct {
	OrderID       uint     `json:"order_id" binding:"required"`
	PaymentMethod string   `json:"payment_method" binding:"required"`
	AmountPaid    *float64 `json:"amount_paid" binding:"required"`
	ProcessedBy   *uint    `json:"processed_by"`
	TransactionID string   `json:"transaction_id"`
	Notes         string   `json:"notes"`
}

// GetAllPayments -> list payments with optional method/date/employee filters.
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	query := pc.DB.Preload("Order").Preload("Cashier")

	if method := c.Query("payment_method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}
	if employeeID := c.Query("employee_id"); employeeID != "" {
		query = query.Where("processed_by = ?", employeeID)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		query = query.Where("payment_date >= ? AND payment_date < ?", day, day.AddDate(0, 0, 1))
	}

	var payments []models.Payment
	if err := query.Order("payment_date DESC").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of payments", len(payments), payments)
}

func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	var payment models.Payment
	if err := pc.DB.Preload("Order").Preload("Cashier").First(&payment, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// CreatePayment settles an order: validates the amount against the final
// amount, writes the payment, completes the order and frees the table,
// all in one transaction. Receipt numbers colliding with an existing row
// are regenerated and retried.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order_id, payment_method and amount_paid are required"))
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment method"))
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, req.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	var existing models.Payment
	if err := pc.DB.Where("order_id = ?", req.OrderID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, models.ErrOrderAlreadyPaid)
		return
	}

	amountPaid := *req.AmountPaid
	if amountPaid < order.FinalAmount {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("%w, required: %.2f, paid: %.2f", models.ErrInsufficientPayment, order.FinalAmount, amountPaid))
		return
	}

	transactionID := req.TransactionID
	if transactionID == "" && req.PaymentMethod != models.PaymentMethodCash {
		// Non-cash settlements always carry a reference.
		transactionID = uuid.NewString()
	}

	payment := models.Payment{
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    amountPaid,
		ProcessedBy:   req.ProcessedBy,
		TransactionID: transactionID,
		Notes:         req.Notes,
		PaymentDate:   time.Now(),
	}
	payment.ChangeGiven = payment.CalculateChange(order.FinalAmount)

	tx := pc.DB.Begin()

	var err error
	for attempt := 0; attempt < receiptRetries; attempt++ {
		payment.ReceiptNumber = models.GenerateReceiptNumber()
		if err = tx.Create(&payment).Error; err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		payment.ID = 0
	}
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either a concurrent payment landed on this order, or every
			// retry drew a taken receipt number. Only the first is the
			// caller's fault.
			var concurrent models.Payment
			if pc.DB.Where("order_id = ?", req.OrderID).First(&concurrent).Error == nil {
				utils.RespondError(c, http.StatusBadRequest, models.ErrOrderAlreadyPaid)
				return
			}
			utils.RespondError(c, http.StatusInternalServerError,
				errors.New("could not allocate a unique receipt number"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order.Status = models.OrderStatusCompleted
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var table models.Table
	if err := tx.First(&table, order.TableID).Error; err == nil {
		if err := table.Free(tx); err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var created models.Payment
	if err := pc.DB.Preload("Order").Preload("Cashier").First(&created, payment.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Payment %s processed for order #%d (change %.2f)",
		created.ReceiptNumber, order.ID, created.ChangeGiven)
	utils.RespondJSON(c, http.StatusCreated, "Payment processed successfully", created)
}

// UpdatePayment only touches notes and the external transaction reference.
func (pc *PaymentController) UpdatePayment(c *gin.Context) {
	var req struct {
		Notes         *string `json:"notes"`
		TransactionID *string `json:"transaction_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var payment models.Payment
	if err := pc.DB.First(&payment, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	if req.Notes != nil {
		payment.Notes = *req.Notes
	}
	if req.TransactionID != nil {
		payment.TransactionID = *req.TransactionID
	}

	if err := pc.DB.Save(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment updated successfully", payment)
}

func (pc *PaymentController) DeletePayment(c *gin.Context) {
	var payment models.Payment
	if err := pc.DB.First(&payment, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	if err := pc.DB.Delete(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment deleted successfully", gin.H{"id": payment.ID})
}

// GetPaymentsByMethod -> GET /payments/method/:method.
func (pc *PaymentController) GetPaymentsByMethod(c *gin.Context) {
	method := c.Param("method")
	if !models.ValidPaymentMethod(method) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment method"))
		return
	}

	var payments []models.Payment
	if err := pc.DB.Preload("Order").Where("payment_method = ?", method).
		Order("payment_date DESC").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Payments via "+method, len(payments), payments)
}

// GetPaymentByReceiptNumber -> lookup by the human-readable identifier.
func (pc *PaymentController) GetPaymentByReceiptNumber(c *gin.Context) {
	var payment models.Payment
	if err := pc.DB.Preload("Order").Preload("Cashier").
		Where("receipt_number = ?", c.Param("receipt_number")).First(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found with this receipt number"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// GetDailyPayments -> payments of one day (default today) plus totals.
func (pc *PaymentController) GetDailyPayments(c *gin.Context) {
	day := time.Now()
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var payments []models.Payment
	if err := pc.DB.Preload("Order").
		Where("payment_date >= ? AND payment_date < ?", start, start.AddDate(0, 0, 1)).
		Order("payment_date DESC").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalCollected float64
	byMethod := make(map[string]float64)
	for _, p := range payments {
		totalCollected += p.AmountPaid - p.ChangeGiven
		byMethod[p.PaymentMethod] += p.AmountPaid - p.ChangeGiven
	}

	utils.RespondJSON(c, http.StatusOK, "Daily payments", gin.H{
		"date":            start.Format("2006-01-02"),
		"count":           len(payments),
		"total_collected": totalCollected,
		"by_method":       byMethod,
		"payments":        payments,
	})
}

// GetPaymentStatistics -> aggregate counts and revenue per method.
func (pc *PaymentController) GetPaymentStatistics(c *gin.Context) {
	var stats []struct {
		PaymentMethod string  `json:"payment_method"`
		Count         int64   `json:"count"`
		Total         float64 `json:"total"`
	}
	err := pc.DB.Model(&models.Payment{}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(amount_paid - change_given), 0) AS total").
		Group("payment_method").
		Scan(&stats).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalPayments int64
	var totalRevenue float64
	pc.DB.Model(&models.Payment{}).Count(&totalPayments)
	pc.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_paid - change_given), 0)").Row().Scan(&totalRevenue)

	utils.RespondJSON(c, http.StatusOK, "Payment statistics", gin.H{
		"total_payments": totalPayments,
		"total_revenue":  totalRevenue,
		"by_method":      stats,
	})
}

// PrintReceipt -> GET /payments/:id/receipt, the receipt as a JSON document.
func (pc *PaymentController) PrintReceipt(c *gin.Context) {
	var payment models.Payment
	err := pc.DB.Preload("Order").
		Preload("Order.Table").
		Preload("Order.Items").
		Preload("Order.Items.Product").
		Preload("Cashier").
		First(&payment, c.Param("id")).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}
	if payment.Order == nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("payment has no order"))
		return
	}

	cashier := "Not specified"
	if payment.Cashier != nil {
		cashier = payment.Cashier.EmployeeName
	}

	type receiptLine struct {
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Subtotal  string `json:"subtotal"`
	}
	lines := make([]receiptLine, 0, len(payment.Order.Items))
	for _, item := range payment.Order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.ProductName
		}
		lines = append(lines, receiptLine{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: utils.FormatAmount(item.UnitPrice),
			Subtotal:  utils.FormatAmount(item.Subtotal),
		})
	}

	tableNumber := ""
	if payment.Order.Table != nil {
		tableNumber = payment.Order.Table.TableNumber
	}

	utils.RespondJSON(c, http.StatusOK, "Receipt", gin.H{
		"receipt_number": payment.ReceiptNumber,
		"order_id":       payment.OrderID,
		"table":          tableNumber,
		"date":           payment.PaymentDate,
		"cashier":        cashier,
		"items":          lines,
		"subtotal":       utils.FormatAmount(payment.Order.TotalAmount),
		"discount":       utils.FormatAmount(payment.Order.Discount),
		"tax":            utils.FormatAmount(payment.Order.Tax),
		"total":          utils.FormatAmount(payment.Order.FinalAmount),
		"amount_paid":    utils.FormatAmount(payment.AmountPaid),
		"change_given":   utils.FormatAmount(payment.ChangeGiven),
		"payment_method": payment.PaymentMethod,
	})
}
