package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductName     string    `gorm:"type:varchar(100);not null;index" json:"product_name"`
	CategoryID      uint      `gorm:"not null;index" json:"category_id"`
	Category        *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CostPrice       float64   `gorm:"type:decimal(10,2);default:0" json:"cost_price"`
	QuantityInStock int       `gorm:"not null;default:0" json:"quantity_in_stock"`
	ReorderLevel    int       `gorm:"not null;default:10" json:"reorder_level"`
	Unit            string    `gorm:"type:varchar(20)" json:"unit"`
	IsAvailable     bool      `gorm:"default:true;index" json:"is_available"`
	ImageURL        string    `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// IsLowStock reports whether the stock level has reached the reorder level.
func (p *Product) IsLowStock() bool {
	return p.QuantityInStock <= p.ReorderLevel
}

func (p *Product) IsOutOfStock() bool {
	return p.QuantityInStock == 0
}

// ProfitMargin returns the margin over cost price as a percentage.
func (p *Product) ProfitMargin() float64 {
	if p.CostPrice == 0 {
		return 0
	}
	return (p.Price - p.CostPrice) / p.CostPrice * 100
}

// AdjustStock applies a signed stock delta and records exactly one
// inventory log entry, both inside the caller's transaction.
//
// The quantity update is a single conditional UPDATE guarded by
// `quantity_in_stock + delta >= 0`, so two concurrent sales cannot drive
// the stock negative: the loser sees zero affected rows and gets
// ErrInsufficientStock. The log entry is built from the post-update value
// re-read from the row, which keeps quantity_after == quantity_before +
// quantity_change even when another writer slipped in between.
func (p *Product) AdjustStock(tx *gorm.DB, delta int, changeType, reason string, employeeID, orderID *uint) error {
	if delta == 0 {
		return ErrZeroStockChange
	}
	if changeType == "" {
		changeType = StockChangeAdjustment
	}
	if !ValidStockChangeType(changeType) {
		return ErrInvalidChangeType
	}

	res := tx.Model(&Product{}).
		Where("id = ? AND quantity_in_stock + ? >= 0", p.ID, delta).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	if err := tx.First(p, p.ID).Error; err != nil {
		return err
	}

	entry := InventoryLog{
		ProductID:      p.ID,
		ChangeType:     changeType,
		QuantityChange: delta,
		QuantityBefore: p.QuantityInStock - delta,
		QuantityAfter:  p.QuantityInStock,
		Reason:         reason,
		PerformedBy:    employeeID,
		OrderID:        orderID,
	}
	return tx.Create(&entry).Error
}
