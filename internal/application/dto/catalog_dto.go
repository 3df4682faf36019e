package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrganizationRequest body for POST /api/organizations.
type CreateOrganizationRequest struct {
	Name    string `json:"name"`
	OrgType string `json:"org_type"` // pharmacy | supplier
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// OrganizationResponse public view of an organization.
type OrganizationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OrgType string `json:"org_type"`
	TaxID   string `json:"tax_id,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Status  string `json:"status"`
}

// EnableModuleRequest body for POST /api/organizations/modules.
type EnableModuleRequest struct {
	Module string `json:"module"` // pos | bulk_orders | ledger
}

// CreateBranchRequest body for POST /api/organizations/:id/branches.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// BranchResponse public view of a branch.
type BranchResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Status         string `json:"status"`
}

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	GenericName          string          `json:"generic_name"`
	Category             string          `json:"category"`
	Description          string          `json:"description"`
	Unit                 string          `json:"unit"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	RequiresPrescription bool            `json:"requires_prescription"`
	ReorderPoint         int64           `json:"reorder_point"`
}

// ProductResponse public view of a product.
type ProductResponse struct {
	ID                   string          `json:"id"`
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	GenericName          string          `json:"generic_name,omitempty"`
	Category             string          `json:"category,omitempty"`
	Description          string          `json:"description,omitempty"`
	Unit                 string          `json:"unit,omitempty"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	RequiresPrescription bool            `json:"requires_prescription"`
	ReorderPoint         int64           `json:"reorder_point"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CreatePatientRequest body for POST /api/patients.
type CreatePatientRequest struct {
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// PatientResponse public view of a patient.
type PatientResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Address     string     `json:"address,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// DashboardSummaryResponse branch figures for the home screen.
type DashboardSummaryResponse struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	SaleCount         int64           `json:"sale_count"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	RefundedAmount    decimal.Decimal `json:"refunded_amount"`
	LowStockProducts  int64           `json:"low_stock_products"`
	ExpiringBatches   int64           `json:"expiring_batches"`
}
