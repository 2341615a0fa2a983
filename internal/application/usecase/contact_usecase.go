package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

// ContactUseCase contactos de las empresas.
type ContactUseCase struct {
	repo        repository.ContactRepository
	companyRepo repository.CompanyRepository
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.ContactRepository, companyRepo repository.CompanyRepository) *ContactUseCase {
	return &ContactUseCase{repo: repo, companyRepo: companyRepo}
}

// Create agrega un contacto a una empresa existente.
func (uc *ContactUseCase) Create(ctx context.Context, companyID string, in dto.ContactRequest) (*dto.ContactResponse, error) {
	if err := ValidateContact(in); err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	contact := NewContact(companyID, in, time.Now())
	if err := uc.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	out := dto.FromContact(contact)
	return &out, nil
}

// ListByCompany contactos de la empresa; ErrNotFound si la empresa no existe.
func (uc *ContactUseCase) ListByCompany(ctx context.Context, companyID string) ([]dto.ContactResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return dto.FromContacts(list), nil
}

// Update edita un contacto.
func (uc *ContactUseCase) Update(ctx context.Context, id string, in dto.ContactRequest) (*dto.ContactResponse, error) {
	if err := ValidateContact(in); err != nil {
		return nil, err
	}
	contact, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	applyContact(contact, in, time.Now())
	if err := uc.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	out := dto.FromContact(contact)
	return &out, nil
}

// Delete elimina un contacto.
func (uc *ContactUseCase) Delete(ctx context.Context, id string) error {
	contact, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// ValidateContact nombre obligatorio y email bien formado si viene.
func ValidateContact(in dto.ContactRequest) error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	return optionalEmail("email", strings.TrimSpace(in.Email))
}

// NewContact construye la entidad con ID nuevo.
func NewContact(companyID string, in dto.ContactRequest, now time.Time) *entity.Contact {
	c := &entity.Contact{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		CreatedAt: now,
	}
	applyContact(c, in, now)
	return c
}

func applyContact(c *entity.Contact, in dto.ContactRequest, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.WhatsApp = strings.TrimSpace(in.WhatsApp)
	c.LinkedIn = strings.TrimSpace(in.LinkedIn)
	c.Position = in.Position
	c.UpdatedAt = now
}
