package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	query := ec.DB

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var employees []models.Employee
	if err := query.Order("employee_name ASC").Find(&employees).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of employees", len(employees), employees)
}

func (ec *EmployeeController) GetEmployeeByID(c *gin.Context) {
	var employee models.Employee
	if err := ec.DB.First(&employee, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("employee not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee detail", gin.H{
		"employee":         employee,
		"years_of_service": employee.YearsOfService(),
	})
}

func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req struct {
		Name     string   `json:"employee_name" binding:"required"`
		Role     string   `json:"role" binding:"required"`
		Phone    string   `json:"phone"`
		Email    string   `json:"email"`
		Salary   *float64 `json:"salary"`
		HireDate *string  `json:"hire_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name and role are required"))
		return
	}
	if !models.ValidEmployeeRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be waiter, chef, cashier, or manager"))
		return
	}

	employee := models.Employee{
		EmployeeName: req.Name,
		Role:         req.Role,
		Phone:        req.Phone,
		Email:        req.Email,
		IsActive:     true,
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.HireDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("hire_date must be YYYY-MM-DD"))
			return
		}
		employee.HireDate = &parsed
	} else {
		now := time.Now()
		employee.HireDate = &now
	}

	if err := ec.DB.Create(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Employee %s (%s) created", employee.EmployeeName, employee.Role)
	utils.RespondJSON(c, http.StatusCreated, "Employee created successfully", employee)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	var req struct {
		Name     *string  `json:"employee_name"`
		Role     *string  `json:"role"`
		Phone    *string  `json:"phone"`
		Email    *string  `json:"email"`
		Salary   *float64 `json:"salary"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("employee not found"))
		return
	}

	if req.Name != nil {
		employee.EmployeeName = *req.Name
	}
	if req.Role != nil {
		if !models.ValidEmployeeRole(*req.Role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("role must be waiter, chef, cashier, or manager"))
			return
		}
		employee.Role = *req.Role
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := ec.DB.Save(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee updated successfully", employee)
}

// DeleteEmployee soft-deactivates when the employee has order history,
// hard-deletes otherwise.
func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	var employee models.Employee
	if err := ec.DB.First(&employee, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("employee not found"))
		return
	}

	var orderCount int64
	ec.DB.Model(&models.Order{}).Where("employee_id = ?", employee.ID).Count(&orderCount)
	if orderCount > 0 {
		employee.IsActive = false
		if err := ec.DB.Save(&employee).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Employee has order history, deactivated instead", employee)
		return
	}

	if err := ec.DB.Delete(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee deleted successfully", gin.H{"id": employee.ID})
}

func (ec *EmployeeController) GetEmployeesByRole(c *gin.Context) {
	role := c.Param("role")
	if !models.ValidEmployeeRole(role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be waiter, chef, cashier, or manager"))
		return
	}

	var employees []models.Employee
	if err := ec.DB.Where("role = ? AND is_active = ?", role, true).
		Order("employee_name ASC").Find(&employees).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Employees with role "+role, len(employees), employees)
}

// ActivateEmployee -> PATCH /employees/:id/activate.
func (ec *EmployeeController) ActivateEmployee(c *gin.Context) {
	ec.setActive(c, true, "Employee activated")
}

// DeactivateEmployee -> PATCH /employees/:id/deactivate.
func (ec *EmployeeController) DeactivateEmployee(c *gin.Context) {
	ec.setActive(c, false, "Employee deactivated")
}

func (ec *EmployeeController) setActive(c *gin.Context, active bool, message string) {
	var employee models.Employee
	if err := ec.DB.First(&employee, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("employee not found"))
		return
	}

	employee.IsActive = active
	if err := ec.DB.Save(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("%s: %s", message, employee.EmployeeName)
	utils.RespondJSON(c, http.StatusOK, message, employee)
}

// GetEmployeeStatistics -> headcount per role plus orders handled.
func (ec *EmployeeController) GetEmployeeStatistics(c *gin.Context) {
	var byRole []struct {
		Role  string `json:"role"`
		Count int64  `json:"count"`
	}
	if err := ec.DB.Model(&models.Employee{}).
		Select("role, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("role").
		Scan(&byRole).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total, active int64
	ec.DB.Model(&models.Employee{}).Count(&total)
	ec.DB.Model(&models.Employee{}).Where("is_active = ?", true).Count(&active)

	utils.RespondJSON(c, http.StatusOK, "Employee statistics", gin.H{
		"total":   total,
		"active":  active,
		"by_role": byRole,
	})
}
