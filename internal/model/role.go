package model

import "strings"

// Role groups privileges. A user holds exactly one role.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleCashier     = "CASHIER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Back office without user management",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Point of sale",
	},
}

var cashierPrivileges = []string{
	PrivProductView,
	PrivStockView,
	PrivCustomerView,
	PrivOrderView,
	PrivOrderCreate,
}

// DefaultPrivilegeCodes returns the privilege codes seeded for a role.
func DefaultPrivilegeCodes(roleCode string) []string {
	var codes []string
	switch roleCode {
	case RoleMasterAdmin:
		for _, p := range DefaultPrivileges {
			codes = append(codes, p.Code)
		}
	case RoleAdmin:
		for _, p := range DefaultPrivileges {
			if !strings.HasPrefix(p.Code, "user:") {
				codes = append(codes, p.Code)
			}
		}
	case RoleCashier:
		codes = append(codes, cashierPrivileges...)
	}
	return codes
}
