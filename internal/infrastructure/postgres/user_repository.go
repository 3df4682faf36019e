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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements UserRepository on PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the persistence adapter for users.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, organization_id, branch_id, email, password_hash, name, role, status, created_at, updated_at`

// Create persists a new user.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.OrganizationID, nullIfEmpty(user.BranchID), user.Email,
		user.PasswordHash, user.Name, user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches one user, nil when absent.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail fetches a user by email across organizations.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByEmailAndOrganization fetches a user by email within one organization.
func (r *UserRepo) GetByEmailAndOrganization(email, orgID string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1 AND organization_id = $2`, email, orgID)
}

func (r *UserRepo) getOne(query string, args ...any) (*entity.User, error) {
	var u entity.User
	var branchID *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&u.ID, &u.OrganizationID, &branchID, &u.Email, &u.PasswordHash, &u.Name,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.BranchID = emptyIfNull(branchID)
	return &u, nil
}

var _ repository.PatientRepository = (*PatientRepo)(nil)

// PatientRepo implements PatientRepository on PostgreSQL.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository builds the persistence adapter for patients.
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

// Create persists a new patient.
func (r *PatientRepo) Create(patient *entity.Patient) error {
	query := `
		INSERT INTO patients (id, organization_id, name, phone, email, address, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		patient.ID, patient.OrganizationID, patient.Name, patient.Phone, patient.Email,
		patient.Address, patient.DateOfBirth, patient.CreatedAt, patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// GetByID fetches one patient, nil when absent.
func (r *PatientRepo) GetByID(id string) (*entity.Patient, error) {
	query := `
		SELECT id, organization_id, name, phone, email, address, date_of_birth, created_at, updated_at
		FROM patients WHERE id = $1`
	var p entity.Patient
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Phone, &p.Email, &p.Address,
		&p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &p, nil
}

// ListByOrganization returns the organization's patients, newest first.
func (r *PatientRepo) ListByOrganization(orgID string, limit, offset int) ([]*entity.Patient, error) {
	query := `
		SELECT id, organization_id, name, phone, email, address, date_of_birth, created_at, updated_at
		FROM patients WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Patient
	for rows.Next() {
		var p entity.Patient
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.Name, &p.Phone, &p.Email, &p.Address,
			&p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
