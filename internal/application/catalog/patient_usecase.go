package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// PatientUseCase manages the per-organization patient registry.
type PatientUseCase struct {
	patientRepo repository.PatientRepository
}

// NewPatientUseCase builds the patient use case.
func NewPatientUseCase(patientRepo repository.PatientRepository) *PatientUseCase {
	return &PatientUseCase{patientRepo: patientRepo}
}

// Create registers a patient.
func (uc *PatientUseCase) Create(orgID string, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	patient := &entity.Patient{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           in.Name,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
		DateOfBirth:    in.DateOfBirth,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.patientRepo.Create(patient); err != nil {
		return nil, err
	}
	return toPatientResponse(patient), nil
}

// Get returns one patient scoped to the organization.
func (uc *PatientUseCase) Get(orgID, patientID string) (*dto.PatientResponse, error) {
	patient, err := uc.patientRepo.GetByID(patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	return toPatientResponse(patient), nil
}

// List returns the organization's patients.
func (uc *PatientUseCase) List(orgID string, page dto.PageRequest) ([]dto.PatientResponse, error) {
	page.DefaultPage()
	patients, err := uc.patientRepo.ListByOrganization(orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, *toPatientResponse(p))
	}
	return out, nil
}

func toPatientResponse(p *entity.Patient) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		DateOfBirth: p.DateOfBirth,
	}
}
