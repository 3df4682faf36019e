package pos

import (
	"context"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// ReceiptUseCase assembles the data for a sale receipt and delegates rendering.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	orgRepo     repository.OrganizationRepository
	branchRepo  repository.BranchRepository
	patientRepo repository.PatientRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase builds the receipt use case.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	orgRepo repository.OrganizationRepository,
	branchRepo repository.BranchRepository,
	patientRepo repository.PatientRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		orgRepo:     orgRepo,
		branchRepo:  branchRepo,
		patientRepo: patientRepo,
		generator:   generator,
	}
}

// GenerateReceipt returns the PDF bytes for a completed sale.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, orgID, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, err
	}
	org, err := uc.orgRepo.GetByID(orgID)
	if err != nil || org == nil {
		return nil, domain.ErrNotFound
	}
	branch, _ := uc.branchRepo.GetByID(sale.BranchID)
	if branch == nil {
		return nil, domain.ErrNotFound
	}

	data := &ReceiptData{Sale: sale, Organization: org, Branch: branch}
	if sale.PatientID != "" {
		if patient, _ := uc.patientRepo.GetByID(sale.PatientID); patient != nil {
			data.PatientName = patient.Name
		}
	}
	for _, it := range items {
		name := it.ProductID
		if product, _ := uc.productRepo.GetByID(it.ProductID); product != nil {
			name = product.Name
		}
		data.Lines = append(data.Lines, ReceiptLine{
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return uc.generator.GenerateReceiptPDF(ctx, data)
}
