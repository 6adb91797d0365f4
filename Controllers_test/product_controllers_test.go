package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func setupTestDBForProducts(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	category := models.Category{CategoryName: "Drinks", Type: models.CategoryTypeDrink, IsActive: true}
	db.Create(&category)

	product := models.Product{
		ProductName:     "Iced Tea",
		CategoryID:      category.ID,
		Price:           3.50,
		CostPrice:       1.00,
		QuantityInStock: 8,
		ReorderLevel:    5,
		IsAvailable:     true,
	}
	db.Create(&product)

	return db
}

func setupProductRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	productCtrl := controllers.NewProductController(db)
	router.POST("/products", productCtrl.CreateProduct)
	router.GET("/products/:id", productCtrl.GetProductByID)
	router.GET("/products/low-stock", productCtrl.GetLowStockProducts)
	router.PATCH("/products/:id/stock", productCtrl.UpdateStock)
	router.POST("/products/:id/restock", productCtrl.RestockProduct)
	return router
}

func patchJSON(t *testing.T, router *gin.Engine, url string, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("PATCH", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateProductWritesOpeningStockEntry(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts("products_create")
	router := setupProductRouter(db)

	w := postJSON(t, router, "/products", map[string]interface{}{
		"product_name":      "Lemonade",
		"category_id":       1,
		"price":             4.00,
		"quantity_in_stock": 12,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	productID := uint(resp["data"].(map[string]interface{})["id"].(float64))

	var entry models.InventoryLog
	assert.NoError(t, db.Where("product_id = ?", productID).First(&entry).Error)
	assert.Equal(t, models.StockChangeRestock, entry.ChangeType)
	assert.Equal(t, 12, entry.QuantityChange)
	assert.Equal(t, 0, entry.QuantityBefore)
	assert.Equal(t, 12, entry.QuantityAfter)
	assert.Equal(t, "Initial stock", entry.Reason)
}

func TestUpdateStockRejectsZeroDelta(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts("products_zero_delta")
	router := setupProductRouter(db)

	w := patchJSON(t, router, "/products/1/stock", map[string]interface{}{
		"quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var logCount int64
	db.Model(&models.InventoryLog{}).Count(&logCount)
	assert.Equal(t, int64(0), logCount)
}

func TestUpdateStockCannotGoNegative(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts("products_negative")
	router := setupProductRouter(db)

	w := patchJSON(t, router, "/products/1/stock", map[string]interface{}{
		"quantity":    -20,
		"change_type": "wastage",
		"reason":      "Spoiled batch",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The failed decrement leaves no trace.
	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 8, product.QuantityInStock)

	var logCount int64
	db.Model(&models.InventoryLog{}).Count(&logCount)
	assert.Equal(t, int64(0), logCount)
}

func TestUpdateStockWastage(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts("products_wastage")
	router := setupProductRouter(db)

	w := patchJSON(t, router, "/products/1/stock", map[string]interface{}{
		"quantity":    -3,
		"change_type": "wastage",
		"reason":      "Broken bottles",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 5, product.QuantityInStock)

	var entry models.InventoryLog
	assert.NoError(t, db.Where("change_type = ?", models.StockChangeWastage).First(&entry).Error)
	assert.Equal(t, -3, entry.QuantityChange)
	assert.Equal(t, 8, entry.QuantityBefore)
	assert.Equal(t, 5, entry.QuantityAfter)
	assert.Equal(t, "Broken bottles", entry.Reason)
}

func TestRestockProduct(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts("products_restock")
	router := setupProductRouter(db)

	w := postJSON(t, router, "/products/1/restock", map[string]interface{}{
		"quantity": 10,
		"reason":   "Weekly delivery",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var product models.Product
	db.First(&product, 1)
	assert.Equal(t, 18, product.QuantityInStock)

	var entry models.InventoryLog
	assert.NoError(t, db.Where("change_type = ?", models.StockChangeRestock).First(&entry).Error)
	assert.Equal(t, 10, entry.QuantityChange)

	// Negative restocks never reach the ledger.
	w = postJSON(t, router, "/products/1/restock", map[string]interface{}{
		"quantity": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLowStockListing(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts("products_low_stock")
	router := setupProductRouter(db)

	// Drop the seeded product to its reorder level.
	w := patchJSON(t, router, "/products/1/stock", map[string]interface{}{
		"quantity":    -3,
		"change_type": "adjustment",
		"reason":      "Stocktake correction",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/products/low-stock", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
}
