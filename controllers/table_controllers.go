package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables -> list tables, filterable by status and location.
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}

	var tables []models.Table
	if err := query.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of tables", len(tables), tables)
}

// GetTableByID -> table detail with its active orders.
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var orders []models.Order
	tc.DB.Where("table_id = ? AND status NOT IN ?", table.ID,
		[]string{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Find(&orders)

	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table":         table,
		"active_orders": orders,
	})
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity"`
		Location    string `json:"location"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number is required"))
		return
	}
	if req.Status != "" && !models.ValidTableStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status must be free, occupied, or reserved"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    4,
		Location:    req.Location,
		Status:      models.TableStatusFree,
	}
	if req.Capacity > 0 {
		table.Capacity = req.Capacity
	}
	if req.Status != "" {
		table.Status = req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("table number already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %s created (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	var req struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		Location    *string `json:"location"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.Status != nil {
		if !models.ValidTableStatus(*req.Status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("status must be free, occupied, or reserved"))
			return
		}
		table.Status = *req.Status
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("table number already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated successfully", table)
}

// DeleteTable refuses while any order still references the table.
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var orderCount int64
	tc.DB.Model(&models.Order{}).Where("table_id = ?", table.ID).Count(&orderCount)
	if orderCount > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cannot delete table with order history"))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", gin.H{"id": table.ID})
}

// UpdateTableStatus -> PATCH /tables/:id/status.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidTableStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status must be free, occupied, or reserved"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	table.Status = req.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %s status changed to %s", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// OccupyTable -> PATCH /tables/:id/occupy; only a free table can be taken.
func (tc *TableController) OccupyTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	ok, err := table.Occupy(tc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, models.ErrTableNotFree)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table occupied successfully", table)
}

// FreeTable -> PATCH /tables/:id/free, the manual path: blocked while
// active orders remain. Order/payment completion frees without this check.
func (tc *TableController) FreeTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var activeOrders int64
	tc.DB.Model(&models.Order{}).
		Where("table_id = ? AND status NOT IN ?", table.ID,
			[]string{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Count(&activeOrders)
	if activeOrders > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("%w, complete or cancel them first", models.ErrTableHasOrders))
		return
	}

	if err := table.Free(tc.DB); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table freed successfully", table)
}

// GetAvailableTables -> free tables, optionally with a minimum capacity.
func (tc *TableController) GetAvailableTables(c *gin.Context) {
	query := tc.DB.Where("status = ?", models.TableStatusFree)
	if capacity := c.Query("capacity"); capacity != "" {
		query = query.Where("capacity >= ?", capacity)
	}

	var tables []models.Table
	if err := query.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Available tables", len(tables), tables)
}

// GetTableStatistics -> occupancy overview.
func (tc *TableController) GetTableStatistics(c *gin.Context) {
	var total, free, occupied, reserved int64

	tc.DB.Model(&models.Table{}).Count(&total)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusFree).Count(&free)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusOccupied).Count(&occupied)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusReserved).Count(&reserved)

	occupancyRate := 0.0
	if total > 0 {
		occupancyRate = float64(occupied) / float64(total) * 100
	}

	utils.RespondJSON(c, http.StatusOK, "Table statistics", gin.H{
		"total":          total,
		"free":           free,
		"occupied":       occupied,
		"reserved":       reserved,
		"occupancy_rate": occupancyRate,
	})
}
