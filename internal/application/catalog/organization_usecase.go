package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// OrganizationUseCase manages tenants and their branches.
type OrganizationUseCase struct {
	orgRepo    repository.OrganizationRepository
	branchRepo repository.BranchRepository
}

// NewOrganizationUseCase builds the organization use case.
func NewOrganizationUseCase(orgRepo repository.OrganizationRepository, branchRepo repository.BranchRepository) *OrganizationUseCase {
	return &OrganizationUseCase{orgRepo: orgRepo, branchRepo: branchRepo}
}

// Create registers a new organization. Pharmacies start with the point of sale
// module active; suppliers start with bulk orders.
func (uc *OrganizationUseCase) Create(in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.OrgType != entity.OrgTypePharmacy && in.OrgType != entity.OrgTypeSupplier {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      in.Name,
		OrgType:   in.OrgType,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.orgRepo.Create(org); err != nil {
		return nil, err
	}

	defaultModule := entity.ModulePOS
	if in.OrgType == entity.OrgTypeSupplier {
		defaultModule = entity.ModuleBulkOrders
	}
	if err := uc.orgRepo.EnableModule(org.ID, defaultModule); err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

// Get returns one organization.
func (uc *OrganizationUseCase) Get(id string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return toOrganizationResponse(org), nil
}

// List returns organizations, newest first.
func (uc *OrganizationUseCase) List(page dto.PageRequest) ([]dto.OrganizationResponse, error) {
	page.DefaultPage()
	orgs, err := uc.orgRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, *toOrganizationResponse(org))
	}
	return out, nil
}

// EnableModule activates a feature module for an organization.
func (uc *OrganizationUseCase) EnableModule(orgID, moduleName string) error {
	switch moduleName {
	case entity.ModulePOS, entity.ModuleBulkOrders, entity.ModuleLedger:
	default:
		return domain.ErrInvalidInput
	}
	org, err := uc.orgRepo.GetByID(orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}
	return uc.orgRepo.EnableModule(orgID, moduleName)
}

// CreateBranch opens a new branch under the organization.
func (uc *OrganizationUseCase) CreateBranch(orgID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	org, err := uc.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	branch := &entity.Branch{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           in.Name,
		Address:        in.Address,
		Phone:          in.Phone,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.branchRepo.Create(branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// ListBranches returns the organization's branches.
func (uc *OrganizationUseCase) ListBranches(orgID string) ([]dto.BranchResponse, error) {
	branches, err := uc.branchRepo.ListByOrganization(orgID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, *toBranchResponse(b))
	}
	return out, nil
}

func toOrganizationResponse(org *entity.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:      org.ID,
		Name:    org.Name,
		OrgType: org.OrgType,
		TaxID:   org.TaxID,
		Address: org.Address,
		Phone:   org.Phone,
		Email:   org.Email,
		Status:  org.Status,
	}
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Address:        b.Address,
		Phone:          b.Phone,
		Status:         b.Status,
	}
}
