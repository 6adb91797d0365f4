package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/resturaent/API/controllers"
	"github.com/resturaent/API/database"
	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

// setupTestDBForOrders seeds a free table, a category, a stocked product
// and a waiter. Each test gets its own named in-memory database.
func setupTestDBForOrders(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	table := models.Table{TableNumber: "T5", Capacity: 4, Status: models.TableStatusFree}
	db.Create(&table)

	category := models.Category{CategoryName: "Mains", Type: models.CategoryTypeMeal, IsActive: true}
	db.Create(&category)

	product := models.Product{
		ProductName:     "Burger",
		CategoryID:      category.ID,
		Price:           10.00,
		QuantityInStock: 5,
		ReorderLevel:    2,
		IsAvailable:     true,
	}
	db.Create(&product)

	waiter := models.Employee{EmployeeName: "Dina", Role: models.RoleWaiter, IsActive: true}
	db.Create(&waiter)

	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:id", orderCtrl.GetOrderByID)
	router.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	router.DELETE("/orders/:id", orderCtrl.DeleteOrder)
	router.DELETE("/orders/:id/items/:item_id", orderCtrl.RemoveItemFromOrder)
	router.GET("/orders/statistics", orderCtrl.GetOrderStatistics)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderWorkflow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_workflow")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id":    1,
		"employee_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, 20.0, data["total_amount"])
	assert.Equal(t, 20.0, data["final_amount"])

	// Stock went through the ledger: 5 - 2 = 3.
	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 3, product.QuantityInStock)

	var log models.InventoryLog
	assert.NoError(t, db.Where("product_id = ? AND change_type = ?", 1, models.StockChangeSale).First(&log).Error)
	assert.Equal(t, -2, log.QuantityChange)
	assert.Equal(t, 5, log.QuantityBefore)
	assert.Equal(t, 3, log.QuantityAfter)

	// The table is now taken.
	var table models.Table
	db.First(&table, 1)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_insufficient")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 6},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing changed: no order, no stock movement, table still free.
	var orderCount, logCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.InventoryLog{}).Count(&logCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), logCount)

	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 5, product.QuantityInStock)

	var table models.Table
	db.First(&table, 1)
	assert.Equal(t, models.TableStatusFree, table.Status)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_unknown_product")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 99, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteOrderFreesTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_complete")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := int(resp["data"].(map[string]interface{})["id"].(float64))

	body, _ := json.Marshal(map[string]interface{}{"status": "completed"})
	req, _ := http.NewRequest("PATCH", "/orders/"+strconv.Itoa(orderID)+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var table models.Table
	db.First(&table, 1)
	assert.Equal(t, models.TableStatusFree, table.Status)
}

func TestDeleteOrderKeepsStockConsumed(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_delete")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := int(resp["data"].(map[string]interface{})["id"].(float64))

	req, _ := http.NewRequest("DELETE", "/orders/"+strconv.Itoa(orderID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Deleting a pending order does not re-credit its stock; the ledger
	// entry from the sale stays behind.
	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 3, product.QuantityInStock)

	var logCount int64
	db.Model(&models.InventoryLog{}).Count(&logCount)
	assert.Equal(t, int64(1), logCount)
}

func TestOrderStatisticsCountToday(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_statistics")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// An order placed just now falls inside the local-midnight window,
	// whatever timezone the server runs in.
	req, _ := http.NewRequest("GET", "/orders/statistics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["pending"])
	assert.Equal(t, float64(1), data["today_orders"])
}

func TestRemoveItemRestoresStock(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_remove_item")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	orderID := int(data["id"].(float64))
	items := data["items"].([]interface{})
	itemID := int(items[0].(map[string]interface{})["id"].(float64))

	req, _ := http.NewRequest("DELETE",
		"/orders/"+strconv.Itoa(orderID)+"/items/"+strconv.Itoa(itemID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 5, product.QuantityInStock)

	var adjustment models.InventoryLog
	assert.NoError(t, db.Where("change_type = ?", models.StockChangeAdjustment).First(&adjustment).Error)
	assert.Equal(t, 2, adjustment.QuantityChange)
}
