package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/resturaent/API/controllers"
	"github.com/resturaent/API/database"
	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

func setupTestDBForTables(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	db.Create(&models.Table{TableNumber: "A1", Capacity: 2, Status: models.TableStatusFree})
	db.Create(&models.Table{TableNumber: "A2", Capacity: 6, Status: models.TableStatusFree})

	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables/available", tableCtrl.GetAvailableTables)
	router.GET("/tables/statistics", tableCtrl.GetTableStatistics)
	router.PATCH("/tables/:id/occupy", tableCtrl.OccupyTable)
	router.PATCH("/tables/:id/free", tableCtrl.FreeTable)
	return router
}

func TestOccupyTableOnlyWhenFree(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_occupy")
	router := setupTableRouter(db)

	w := patchJSON(t, router, "/tables/1/occupy", map[string]interface{}{})
	assert.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	db.First(&table, 1)
	assert.Equal(t, models.TableStatusOccupied, table.Status)

	// A second occupy on the same table is refused.
	w = patchJSON(t, router, "/tables/1/occupy", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFreeTableBlockedByActiveOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_free_blocked")
	router := setupTableRouter(db)

	db.Model(&models.Table{}).Where("id = ?", 1).Update("status", models.TableStatusOccupied)
	order := models.Order{
		TableID:     1,
		OrderDate:   time.Now(),
		TotalAmount: 15.00,
		Status:      models.OrderStatusPending,
	}
	db.Create(&order)

	w := patchJSON(t, router, "/tables/1/free", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var table models.Table
	db.First(&table, 1)
	assert.Equal(t, models.TableStatusOccupied, table.Status)

	// Once the order is cancelled the table can be freed manually.
	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderStatusCancelled)

	w = patchJSON(t, router, "/tables/1/free", map[string]interface{}{})
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&table, 1)
	assert.Equal(t, models.TableStatusFree, table.Status)
}

func TestCreateTableRejectsDuplicateNumber(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_duplicate")
	router := setupTableRouter(db)

	w := postJSON(t, router, "/tables", map[string]interface{}{
		"table_number": "A1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/tables", map[string]interface{}{
		"table_number": "B1",
		"capacity":     8,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAvailableTablesFilterByCapacity(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_available")
	router := setupTableRouter(db)

	req, _ := http.NewRequest("GET", "/tables/available?capacity=4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
	first := resp["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "A2", first["table_number"])
}

func TestTableStatistics(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_stats")
	router := setupTableRouter(db)

	db.Model(&models.Table{}).Where("id = ?", 1).Update("status", models.TableStatusOccupied)

	req, _ := http.NewRequest("GET", "/tables/statistics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["occupied"])
	assert.Equal(t, 50.0, data["occupancy_rate"])
}
