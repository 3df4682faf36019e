package repository

import "github.com/medtrack/medtrack-api/internal/domain/entity"

// UserRepository persistence port for user accounts.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndOrganization(email, orgID string) (*entity.User, error)
}

// PatientRepository persistence port for the patient registry.
type PatientRepository interface {
	Create(patient *entity.Patient) error
	GetByID(id string) (*entity.Patient, error)
	ListByOrganization(orgID string, limit, offset int) ([]*entity.Patient, error)
}
