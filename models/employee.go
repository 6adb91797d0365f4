package models

import "time"

const (
	RoleWaiter  = "waiter"
	RoleChef    = "chef"
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// Employee is referenced by orders, payments and inventory logs but never
// owned by them; deleting an employee leaves those references NULL.
type Employee struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EmployeeName string     `gorm:"type:varchar(100);not null" json:"employee_name"`
	Email        string     `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone"`
	Role         string     `gorm:"type:varchar(20);not null;default:'waiter';index" json:"role"`
	Salary       float64    `gorm:"type:decimal(10,2)" json:"salary"`
	HireDate     *time.Time `json:"hire_date,omitempty"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func ValidEmployeeRole(r string) bool {
	switch r {
	case RoleWaiter, RoleChef, RoleCashier, RoleManager:
		return true
	}
	return false
}

// YearsOfService counts whole years since the hire date.
func (e *Employee) YearsOfService() int {
	if e.HireDate == nil {
		return 0
	}
	return int(time.Since(*e.HireDate).Hours() / 24 / 365)
}
