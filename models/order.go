package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid order status, in workflow order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TableID       uint        `gorm:"not null;index" json:"table_id"`
	Table         *Table      `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	EmployeeID    *uint       `gorm:"index" json:"employee_id,omitempty"`
	Waiter        *Employee   `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"waiter,omitempty"`
	CustomerName  string      `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerPhone string      `gorm:"type:varchar(20)" json:"customer_phone"`
	OrderDate     time.Time   `gorm:"not null;index" json:"order_date"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Discount      float64     `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Tax           float64     `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	FinalAmount   float64     `gorm:"type:decimal(10,2);not null;default:0" json:"final_amount"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes         string      `gorm:"type:text" json:"notes"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment       *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CalculateFinalAmount returns total - discount + tax rounded to cents.
func (o *Order) CalculateFinalAmount() float64 {
	return math.Round((o.TotalAmount-o.Discount+o.Tax)*100) / 100
}

// BeforeSave recomputes the final amount on every write so it can never
// drift from total/discount/tax.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	o.FinalAmount = o.CalculateFinalAmount()
	return nil
}

// CanBeModified reports whether items may still be added or removed.
func (o *Order) CanBeModified() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsActive reports whether the order still holds its table.
func (o *Order) IsActive() bool {
	return !o.IsCompleted() && !o.IsCancelled()
}
