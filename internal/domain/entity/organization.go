package entity

import "time"

// Organization types.
const (
	OrgTypePharmacy = "pharmacy"
	OrgTypeSupplier = "supplier"
)

// Feature modules an organization can have active.
const (
	ModulePOS        = "pos"
	ModuleBulkOrders = "bulk_orders"
	ModuleLedger     = "ledger"
)

// Organization represents a tenant: a pharmacy chain or a wholesale supplier.
type Organization struct {
	ID        string
	Name      string
	OrgType   string // pharmacy | supplier
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Status    string // active | suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch represents a physical location of an organization. Stock is held per branch.
type Branch struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	Phone          string
	Status         string // active | closed
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
