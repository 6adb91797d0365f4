package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TableStatusFree     = "free"
	TableStatusOccupied = "occupied"
	TableStatusReserved = "reserved"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"table_number"`
	Capacity    int       `gorm:"not null;default:4" json:"capacity"`
	Status      string    `gorm:"type:varchar(20);not null;default:'free';index" json:"status"`
	Location    string    `gorm:"type:varchar(50)" json:"location"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// ValidTableStatus reports whether s is one of the table status values.
func ValidTableStatus(s string) bool {
	switch s {
	case TableStatusFree, TableStatusOccupied, TableStatusReserved:
		return true
	}
	return false
}

func (t *Table) IsAvailable() bool {
	return t.Status == TableStatusFree
}

// Occupy transitions the table free -> occupied. Returns false without
// touching the row when the table is not currently free.
func (t *Table) Occupy(tx *gorm.DB) (bool, error) {
	if t.Status != TableStatusFree {
		return false, nil
	}
	t.Status = TableStatusOccupied
	if err := tx.Model(t).Update("status", TableStatusOccupied).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Free unconditionally marks the table free. Callers handling a manual
// free request must verify no active orders reference the table first;
// the automatic order/payment completion paths skip that check.
func (t *Table) Free(tx *gorm.DB) error {
	t.Status = TableStatusFree
	return tx.Model(t).Update("status", TableStatusFree).Error
}
