package repository

import (
	"context"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// OrganizationRepository persistence port for organizations.
type OrganizationRepository interface {
	Create(org *entity.Organization) error
	GetByID(id string) (*entity.Organization, error)
	List(limit, offset int) ([]*entity.Organization, error)
	// HasActiveModule reports whether the organization has the feature module
	// active and unexpired.
	HasActiveModule(ctx context.Context, orgID, moduleName string) (bool, error)
	EnableModule(orgID, moduleName string) error
}

// BranchRepository persistence port for branches.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	ListByOrganization(orgID string) ([]*entity.Branch, error)
}
