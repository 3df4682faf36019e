package entity

import "time"

// Application roles. SupplierAdmin users act on the supplier side of bulk orders
// and anchor platform-supplier ledgers.
const (
	RoleOrgAdmin      = "org_admin"
	RoleBranchManager = "branch_manager"
	RolePharmacist    = "pharmacist"
	RoleCashier       = "cashier"
	RoleSupplierAdmin = "supplier_admin"
)

// User represents an account scoped to an organization and branch.
type User struct {
	ID             string
	OrganizationID string
	BranchID       string
	Email          string
	PasswordHash   string
	Name           string
	Role           string
	Status         string // active | disabled
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
