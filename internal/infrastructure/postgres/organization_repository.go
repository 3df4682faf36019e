package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implements OrganizationRepository on PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository builds the persistence adapter for organizations.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persists a new organization.
func (r *OrganizationRepo) Create(org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, org_type, tax_id, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		org.ID, org.Name, org.OrgType, org.TaxID, org.Address, org.Phone, org.Email,
		org.Status, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID fetches one organization, nil when absent.
func (r *OrganizationRepo) GetByID(id string) (*entity.Organization, error) {
	query := `
		SELECT id, name, org_type, tax_id, address, phone, email, status, created_at, updated_at
		FROM organizations WHERE id = $1`
	var org entity.Organization
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&org.ID, &org.Name, &org.OrgType, &org.TaxID, &org.Address, &org.Phone,
		&org.Email, &org.Status, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}

// List returns organizations newest first.
func (r *OrganizationRepo) List(limit, offset int) ([]*entity.Organization, error) {
	query := `
		SELECT id, name, org_type, tax_id, address, phone, email, status, created_at, updated_at
		FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Organization
	for rows.Next() {
		var org entity.Organization
		if err := rows.Scan(
			&org.ID, &org.Name, &org.OrgType, &org.TaxID, &org.Address, &org.Phone,
			&org.Email, &org.Status, &org.CreatedAt, &org.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, &org)
	}
	return out, rows.Err()
}

// HasActiveModule reports whether the module is enabled and unexpired for the organization.
func (r *OrganizationRepo) HasActiveModule(ctx context.Context, orgID, moduleName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM organization_modules
			WHERE organization_id = $1 AND module = $2 AND active
			AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	if err := r.q.QueryRow(ctx, query, orgID, moduleName).Scan(&active); err != nil {
		return false, fmt.Errorf("check module: %w", err)
	}
	return active, nil
}

// EnableModule activates a module for the organization (idempotent).
func (r *OrganizationRepo) EnableModule(orgID, moduleName string) error {
	query := `
		INSERT INTO organization_modules (organization_id, module, active, enabled_at)
		VALUES ($1, $2, true, now())
		ON CONFLICT (organization_id, module) DO UPDATE SET active = true, enabled_at = now()`
	if _, err := r.q.Exec(context.Background(), query, orgID, moduleName); err != nil {
		return fmt.Errorf("enable module: %w", err)
	}
	return nil
}

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implements BranchRepository on PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository builds the persistence adapter for branches.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create persists a new branch.
func (r *BranchRepo) Create(branch *entity.Branch) error {
	query := `
		INSERT INTO branches (id, organization_id, name, address, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		branch.ID, branch.OrganizationID, branch.Name, branch.Address, branch.Phone,
		branch.Status, branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID fetches one branch, nil when absent.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `
		SELECT id, organization_id, name, address, phone, status, created_at, updated_at
		FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.OrganizationID, &b.Name, &b.Address, &b.Phone, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// ListByOrganization returns the organization's branches.
func (r *BranchRepo) ListByOrganization(orgID string) ([]*entity.Branch, error) {
	query := `
		SELECT id, organization_id, name, address, phone, status, created_at, updated_at
		FROM branches WHERE organization_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(
			&b.ID, &b.OrganizationID, &b.Name, &b.Address, &b.Phone, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
