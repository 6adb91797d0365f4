package models

import "time"

const (
	CategoryTypeMeal      = "meal"
	CategoryTypeDrink     = "drink"
	CategoryTypeDessert   = "dessert"
	CategoryTypeAppetizer = "appetizer"
)

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryName string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"category_name"`
	Type         string    `gorm:"type:varchar(20);not null;default:'meal';index" json:"type"`
	Description  string    `gorm:"type:text" json:"description"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	Products     []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func ValidCategoryType(t string) bool {
	switch t {
	case CategoryTypeMeal, CategoryTypeDrink, CategoryTypeDessert, CategoryTypeAppetizer:
		return true
	}
	return false
}
