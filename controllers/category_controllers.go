package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/resturaent/API/models"
	"github.com/resturaent/API/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	query := cc.DB

	if catType := c.Query("type"); catType != "" {
		query = query.Where("type = ?", catType)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var categories []models.Category
	if err := query.Order("category_name ASC").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of categories", len(categories), categories)
}

// GetCategoryByID -> category detail with its products.
func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	var category models.Category
	if err := cc.DB.Preload("Products").First(&category, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req struct {
		CategoryName string `json:"category_name" binding:"required"`
		Description  string `json:"description"`
		Type         string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category name and type are required"))
		return
	}
	if !models.ValidCategoryType(req.Type) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("type must be meal, drink, dessert, or appetizer"))
		return
	}

	category := models.Category{
		CategoryName: req.CategoryName,
		Description:  req.Description,
		Type:         req.Type,
		IsActive:     true,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Category %s (%s) created", category.CategoryName, category.Type)
	utils.RespondJSON(c, http.StatusCreated, "Category created successfully", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	var req struct {
		CategoryName *string `json:"category_name"`
		Description  *string `json:"description"`
		Type         *string `json:"type"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := cc.DB.First(&category, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	if req.CategoryName != nil {
		category.CategoryName = *req.CategoryName
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Type != nil {
		if !models.ValidCategoryType(*req.Type) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("type must be meal, drink, dessert, or appetizer"))
			return
		}
		category.Type = *req.Type
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory refuses while products still reference the category.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := cc.DB.First(&category, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	var productCount int64
	cc.DB.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&productCount)
	if productCount > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("cannot delete category with products, reassign or delete them first"))
		return
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted successfully", gin.H{"id": category.ID})
}

// GetActiveCategories -> categories shown on the menu.
func (cc *CategoryController) GetActiveCategories(c *gin.Context) {
	var categories []models.Category
	if err := cc.DB.Where("is_active = ?", true).
		Order("category_name ASC").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Active categories", len(categories), categories)
}

func (cc *CategoryController) GetCategoriesByType(c *gin.Context) {
	catType := c.Param("type")
	if !models.ValidCategoryType(catType) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("type must be meal, drink, dessert, or appetizer"))
		return
	}

	var categories []models.Category
	if err := cc.DB.Where("type = ?", catType).
		Order("category_name ASC").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Categories of type "+catType, len(categories), categories)
}
