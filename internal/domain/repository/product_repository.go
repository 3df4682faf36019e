package repository

import "github.com/medtrack/medtrack-api/internal/domain/entity"

// ProductRepository persistence port for products.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByOrgAndSKU(orgID, sku string) (*entity.Product, error)
	ListByOrganization(orgID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
