package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a medicine or other sellable SKU (per organization).
// Prices and costs live on inventory batches; the product carries the tax rate.
type Product struct {
	ID                   string
	OrganizationID       string
	SKU                  string // unique per organization
	Name                 string
	GenericName          string
	Category             string
	Description          string
	Unit                 string          // tablet, bottle, strip, box
	TaxRate              decimal.Decimal // 0, 0.05, 0.19 ...
	RequiresPrescription bool
	ReorderPoint         int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
