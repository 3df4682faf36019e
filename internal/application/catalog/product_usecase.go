package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// ProductUseCase manages the per-organization product catalog.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase builds the product use case.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registers a product. SKU is unique within the organization.
func (uc *ProductUseCase) Create(orgID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TaxRate.IsNegative() || in.ReorderPoint < 0 {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.productRepo.GetByOrgAndSKU(orgID, in.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		OrganizationID:       orgID,
		SKU:                  in.SKU,
		Name:                 in.Name,
		GenericName:          in.GenericName,
		Category:             in.Category,
		Description:          in.Description,
		Unit:                 in.Unit,
		TaxRate:              in.TaxRate,
		RequiresPrescription: in.RequiresPrescription,
		ReorderPoint:         in.ReorderPoint,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get returns one product scoped to the organization.
func (uc *ProductUseCase) Get(orgID, productID string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List returns the organization's products.
func (uc *ProductUseCase) List(orgID string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListByOrganization(orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update modifies a product's descriptive fields. SKU is immutable.
func (uc *ProductUseCase) Update(orgID, productID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	product.GenericName = in.GenericName
	product.Category = in.Category
	product.Description = in.Description
	product.Unit = in.Unit
	if !in.TaxRate.IsNegative() {
		product.TaxRate = in.TaxRate
	}
	product.RequiresPrescription = in.RequiresPrescription
	if in.ReorderPoint >= 0 {
		product.ReorderPoint = in.ReorderPoint
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID,
		SKU:                  p.SKU,
		Name:                 p.Name,
		GenericName:          p.GenericName,
		Category:             p.Category,
		Description:          p.Description,
		Unit:                 p.Unit,
		TaxRate:              p.TaxRate,
		RequiresPrescription: p.RequiresPrescription,
		ReorderPoint:         p.ReorderPoint,
		CreatedAt:            p.CreatedAt,
	}
}
