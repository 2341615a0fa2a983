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
	"github.com/jhoicas/pipeline-crm/pkg/textnorm"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo        repository.CompanyRepository
	contactRepo repository.ContactRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, contactRepo repository.ContactRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, contactRepo: contactRepo}
}

// Search autocompletado: nombre contiene q sin distinguir mayúsculas ni acentos.
func (uc *CompanyUseCase) Search(ctx context.Context, q string, limit int) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.Search(ctx, textnorm.Fold(q), clampLimit(limit, defaultSearchLimit, maxSearchLimit))
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.FromCompany(c))
	}
	return items, nil
}

// Create crea una empresa. Devuelve domain.ErrDuplicate si ya existe una con el mismo nombre normalizado.
func (uc *CompanyUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	key := textnorm.Fold(in.Name)
	existing, err := uc.repo.GetByNameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		CreatedBy: actor.UserID,
		CreatedAt: now,
	}
	applyCompany(company, in, now)
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return dto.FromCompany(company), nil
}

// GetByID obtiene una empresa con sus contactos; nil, nil si no existe.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyDetailResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	contacts, err := uc.contactRepo.ListByCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyDetailResponse{
		CompanyResponse: *dto.FromCompany(company),
		Contacts:        dto.FromContacts(contacts),
	}, nil
}

// Update edita los datos de la empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := UpdateCompany(ctx, uc.repo, company, in, time.Now()); err != nil {
		return nil, err
	}
	return dto.FromCompany(company), nil
}

// FindOrCreateByName devuelve la empresa con ese nombre (normalizado) o la crea.
func (uc *CompanyUseCase) FindOrCreateByName(ctx context.Context, actor entity.Actor, name string) (*dto.CompanyResponse, error) {
	company, _, err := FindOrCreateCompany(ctx, uc.repo, dto.CompanyRequest{Name: name}, actor.UserID, time.Now())
	if err != nil {
		return nil, err
	}
	return dto.FromCompany(company), nil
}

// FindOrCreateCompany busca por name_key y crea la empresa si no existe.
// Recibe el repo para poder usarse dentro de una transacción. created indica si se insertó.
func FindOrCreateCompany(ctx context.Context, repo repository.CompanyRepository, in dto.CompanyRequest, actorID string, now time.Time) (company *entity.Company, created bool, err error) {
	if err := requireText("company_name", in.Name); err != nil {
		return nil, false, err
	}
	existing, err := repo.GetByNameKey(ctx, textnorm.Fold(in.Name))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	company = &entity.Company{
		ID:        uuid.New().String(),
		CreatedBy: actorID,
		CreatedAt: now,
	}
	applyCompany(company, in, now)
	if err := repo.Create(ctx, company); err != nil {
		return nil, false, err
	}
	return company, true, nil
}

// UpdateCompany aplica in sobre company y persiste; controla que el nuevo nombre no choque con otra empresa.
func UpdateCompany(ctx context.Context, repo repository.CompanyRepository, company *entity.Company, in dto.CompanyRequest, now time.Time) error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	key := textnorm.Fold(in.Name)
	if key != company.NameKey {
		other, err := repo.GetByNameKey(ctx, key)
		if err != nil {
			return err
		}
		if other != nil && other.ID != company.ID {
			return domain.ErrDuplicate
		}
	}
	applyCompany(company, in, now)
	return repo.Update(ctx, company)
}

func applyCompany(c *entity.Company, in dto.CompanyRequest, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.NameKey = textnorm.Fold(in.Name)
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.Segment = in.Segment
	c.Region = in.Region
	c.Size = in.Size
	c.Revenue = in.Revenue
	c.Pains = in.Pains
	c.UpdatedAt = now
}
