package database

import (
	"github.com/resturaent/API/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every model. Tests reuse this against
// their in-memory sqlite databases so the schema never drifts from main.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.InventoryLog{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
}
