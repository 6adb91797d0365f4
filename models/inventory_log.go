package models

import "time"

const (
	StockChangeRestock    = "restock"
	StockChangeSale       = "sale"
	StockChangeWastage    = "wastage"
	StockChangeAdjustment = "adjustment"
)

// InventoryLog is the append-only stock ledger. Rows are written once by
// Product.AdjustStock and never updated or deleted; there is no write
// surface for them anywhere else.
type InventoryLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"not null;index" json:"product_id"`
	Product        *Product  `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product,omitempty"`
	ChangeType     string    `gorm:"type:varchar(20);not null;index" json:"change_type"`
	QuantityChange int       `gorm:"not null" json:"quantity_change"`
	QuantityBefore int       `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int       `gorm:"not null" json:"quantity_after"`
	Reason         string    `gorm:"type:text" json:"reason"`
	PerformedBy    *uint     `gorm:"index" json:"performed_by,omitempty"`
	Employee       *Employee `gorm:"foreignKey:PerformedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"employee,omitempty"`
	OrderID        *uint     `json:"order_id,omitempty"`
	Order          *Order    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"order,omitempty"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
}

func ValidStockChangeType(t string) bool {
	switch t {
	case StockChangeRestock, StockChangeSale, StockChangeWastage, StockChangeAdjustment:
		return true
	}
	return false
}

func (l *InventoryLog) IsIncrease() bool {
	return l.QuantityChange > 0
}

func (l *InventoryLog) IsDecrease() bool {
	return l.QuantityChange < 0
}

// AbsoluteChange returns the unsigned size of the movement.
func (l *InventoryLog) AbsoluteChange() int {
	if l.QuantityChange < 0 {
		return -l.QuantityChange
	}
	return l.QuantityChange
}
