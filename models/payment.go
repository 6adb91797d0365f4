package models

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile_payment"
	PaymentMethodOther  = "other"
)

// Payment settles exactly one order; order_id carries a unique index so a
// second payment for the same order fails at the storage level too.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Order         *Order    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"order,omitempty"`
	PaymentMethod string    `gorm:"type:varchar(20);not null;default:'cash';index" json:"payment_method"`
	AmountPaid    float64   `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	ChangeGiven   float64   `gorm:"type:decimal(10,2);not null;default:0" json:"change_given"`
	PaymentDate   time.Time `gorm:"not null;index" json:"payment_date"`
	ProcessedBy   *uint     `gorm:"index" json:"processed_by,omitempty"`
	Cashier       *Employee `gorm:"foreignKey:ProcessedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"cashier,omitempty"`
	TransactionID string    `gorm:"type:varchar(100)" json:"transaction_id"`
	ReceiptNumber string    `gorm:"type:varchar(50);uniqueIndex" json:"receipt_number"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodOther:
		return true
	}
	return false
}

// GenerateReceiptNumber builds a human-readable receipt identifier,
// RCP-<unix-ms>-<3-digit suffix>. The suffix only makes collisions
// unlikely; uniqueness is enforced by the receipt_number index and
// callers retry with a fresh number on a duplicate-key error.
func GenerateReceiptNumber() string {
	return fmt.Sprintf("RCP-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// BeforeCreate fills in a receipt number when the caller did not set one.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ReceiptNumber == "" {
		p.ReceiptNumber = GenerateReceiptNumber()
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	return nil
}

// CalculateChange returns the change due against an order amount, never
// negative, rounded to cents.
func (p *Payment) CalculateChange(orderAmount float64) float64 {
	return math.Round(math.Max(0, p.AmountPaid-orderAmount)*100) / 100
}

// IsSufficient reports whether the amount paid covers the order amount.
func (p *Payment) IsSufficient(orderAmount float64) bool {
	return p.AmountPaid >= orderAmount
}
