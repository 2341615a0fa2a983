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

// CatalogUseCase servicios y planes que se venden.
type CatalogUseCase struct {
	repo repository.ServiceRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.ServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List devuelve el catálogo. Solo un admin con includeInactive ve servicios y planes inactivos.
func (uc *CatalogUseCase) List(ctx context.Context, actor entity.Actor, includeInactive bool) ([]dto.ServiceResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	all := includeInactive && actor.IsAdmin()
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		if all {
			out = append(out, *dto.FromService(s, s.Plans))
			continue
		}
		if !s.Active {
			continue
		}
		out = append(out, *dto.FromService(s, s.ActivePlans()))
	}
	return out, nil
}

// Create da de alta un servicio (activo salvo que se indique lo contrario).
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Service{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return dto.FromService(s, s.Plans), nil
}

// Update edita nombre, descripción y estado.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimSpace(in.Name)
	s.Description = in.Description
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return dto.FromService(s, s.Plans), nil
}

// Deactivate oculta el servicio a los vendedores; los negocios existentes lo conservan.
func (uc *CatalogUseCase) Deactivate(ctx context.Context, id string) error {
	s, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, s)
}

// AddPlan agrega un plan al servicio.
func (uc *CatalogUseCase) AddPlan(ctx context.Context, serviceID string, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := validatePlan(in); err != nil {
		return nil, err
	}
	if _, err := uc.get(ctx, serviceID); err != nil {
		return nil, err
	}
	p := &entity.Plan{
		ID:        uuid.New().String(),
		ServiceID: serviceID,
		Active:    in.Active == nil || *in.Active,
	}
	applyPlan(p, in)
	if err := uc.repo.CreatePlan(ctx, p); err != nil {
		return nil, err
	}
	out := dto.FromPlan(*p)
	return &out, nil
}

// UpdatePlan edita un plan del servicio.
func (uc *CatalogUseCase) UpdatePlan(ctx context.Context, serviceID, planID string, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := validatePlan(in); err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	p := s.PlanByID(planID)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	applyPlan(p, in)
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := uc.repo.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}
	out := dto.FromPlan(*p)
	return &out, nil
}

func (uc *CatalogUseCase) get(ctx context.Context, id string) (*entity.Service, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func validatePlan(in dto.PlanRequest) error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	return nil
}

func applyPlan(p *entity.Plan, in dto.PlanRequest) {
	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price.Round(2)
	p.Duration = in.Duration
	p.Features = make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		if f = strings.TrimSpace(f); f != "" {
			p.Features = append(p.Features, f)
		}
	}
}
