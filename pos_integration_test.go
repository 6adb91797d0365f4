package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/resturaent/API/database"
	"github.com/resturaent/API/models"
	"github.com/resturaent/API/router"
	"github.com/resturaent/API/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB -> in-memory SQLite with the full schema plus one table,
// one category, one product and one waiter.
func setupTestDB(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	db.Create(&models.Table{TableNumber: "T5", Capacity: 4, Status: models.TableStatusFree})

	category := models.Category{CategoryName: "Mains", Type: models.CategoryTypeMeal, IsActive: true}
	db.Create(&category)

	db.Create(&models.Product{
		ProductName:     "Burger",
		CategoryID:      category.ID,
		Price:           10.00,
		QuantityInStock: 5,
		ReorderLevel:    2,
		IsAvailable:     true,
	})

	db.Create(&models.Employee{EmployeeName: "Dina", Role: models.RoleWaiter, IsActive: true})

	return db
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, payload map[string]interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if payload != nil {
		body, err := json.Marshal(payload)
		assert.NoError(t, err)
		buf = bytes.NewBuffer(body)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	assert.True(t, ok)
	return data
}

// TestDineInFlow walks the main service cycle end to end:
// 1. Guests at a free table order 2 burgers -> order pending, stock 5 -> 3,
//    table occupied
// 2. An oversized order is refused and changes nothing
// 3. Cash payment of 25.00 against the 20.00 order -> change 5.00, order
//    completed, table free again
// 4. A second payment for the same order is refused
func TestDineInFlow(t *testing.T) {
	db := setupTestDB("integration_dinein")
	r := router.SetupRouter(db)

	// 1. Create the order.
	w := doJSON(t, r, "POST", "/api/orders", map[string]interface{}{
		"table_id":    1,
		"employee_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	orderData := decodeData(t, w)
	orderID := int(orderData["id"].(float64))
	assert.Equal(t, "pending", orderData["status"])
	assert.Equal(t, 20.0, orderData["total_amount"])
	assert.Equal(t, 20.0, orderData["final_amount"])

	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 3, product.QuantityInStock)

	var table models.Table
	db.First(&table, 1)
	assert.Equal(t, models.TableStatusOccupied, table.Status)

	var saleLog models.InventoryLog
	assert.NoError(t, db.Where("change_type = ?", models.StockChangeSale).First(&saleLog).Error)
	assert.Equal(t, -2, saleLog.QuantityChange)
	assert.Equal(t, 3, saleLog.QuantityAfter)

	// 2. Six more burgers than the kitchen has: refused, nothing moves.
	w = doJSON(t, r, "POST", "/api/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 6},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	db.First(&product, 1)
	assert.Equal(t, 3, product.QuantityInStock)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(1), orderCount)

	// 3. Settle in cash.
	w = doJSON(t, r, "POST", "/api/payments", map[string]interface{}{
		"order_id":       orderID,
		"payment_method": "cash",
		"amount_paid":    25.00,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	paymentData := decodeData(t, w)
	assert.Equal(t, 5.0, paymentData["change_given"])
	assert.NotEmpty(t, paymentData["receipt_number"])

	var order models.Order
	db.First(&order, orderID)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)

	db.First(&table, 1)
	assert.Equal(t, models.TableStatusFree, table.Status)

	// 4. Paying the same order again is refused.
	w = doJSON(t, r, "POST", "/api/payments", map[string]interface{}{
		"order_id":       orderID,
		"payment_method": "cash",
		"amount_paid":    25.00,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The receipt document adds up.
	receiptNumber := paymentData["receipt_number"].(string)
	w = doJSON(t, r, "GET", "/api/payments/receipt/"+receiptNumber, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	paymentID := int(paymentData["id"].(float64))
	w = doJSON(t, r, "GET", "/api/payments/"+strconv.Itoa(paymentID)+"/receipt", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	receipt := decodeData(t, w)
	assert.Equal(t, "20.00", receipt["total"])
	assert.Equal(t, "5.00", receipt["change_given"])
}

// TestInventoryLedgerConsistency restocks and wastes stock through the
// API and checks that the ledger lines chain correctly.
func TestInventoryLedgerConsistency(t *testing.T) {
	db := setupTestDB("integration_ledger")
	r := router.SetupRouter(db)

	w := doJSON(t, r, "POST", "/api/products/1/restock", map[string]interface{}{
		"quantity": 20,
		"reason":   "Delivery",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "PATCH", "/api/products/1/stock", map[string]interface{}{
		"quantity":    -4,
		"change_type": "wastage",
		"reason":      "Dropped tray",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var logs []models.InventoryLog
	assert.NoError(t, db.Where("product_id = ?", 1).Order("id ASC").Find(&logs).Error)
	assert.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, entry.QuantityAfter, entry.QuantityBefore+entry.QuantityChange)
	}
	assert.Equal(t, 21, logs[len(logs)-1].QuantityAfter)

	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 21, product.QuantityInStock)
}
