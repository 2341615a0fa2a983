package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/textnorm"
)

// StageUseCase administración de las etapas del pipeline.
type StageUseCase struct {
	repo repository.StageRepository
}

// NewStageUseCase construye el caso de uso.
func NewStageUseCase(repo repository.StageRepository) *StageUseCase {
	return &StageUseCase{repo: repo}
}

// ListActive etapas activas en orden de tablero.
func (uc *StageUseCase) ListActive(ctx context.Context) ([]dto.StageResponse, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toStageResponses(pipeline.ActiveStages(all)), nil
}

// ListAll todas las etapas, incluidas las inactivas.
func (uc *StageUseCase) ListAll(ctx context.Context) ([]dto.StageResponse, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toStageResponses(all), nil
}

// Create agrega una etapa; el ID es el slug del nombre. Sin position va al final.
func (uc *StageUseCase) Create(ctx context.Context, in dto.StageRequest) (*dto.StageResponse, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	id := textnorm.Slug(in.Name)
	if id == "" {
		return nil, domain.Invalid("name", "debe contener letras o números")
	}
	kind := in.Kind
	if kind == "" {
		kind = entity.StageKindOpen
	}
	if !entity.ValidStageKind(kind) {
		return nil, domain.Invalid("kind", "debe ser open, won o lost")
	}
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := pipeline.Find(all, id); ok {
		return nil, domain.ErrDuplicate
	}
	position := in.Position
	if position <= 0 {
		position = 1
		for _, s := range all {
			if s.Position >= position {
				position = s.Position + 1
			}
		}
	}
	s := &entity.PipelineStage{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Color:    in.Color,
		Position: position,
		Kind:     kind,
		Active:   in.Active == nil || *in.Active,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := dto.FromStage(*s)
	return &out, nil
}

// Update edita nombre, color, posición, tipo o estado. El ID no cambia.
func (uc *StageUseCase) Update(ctx context.Context, id string, in dto.StageRequest) (*dto.StageResponse, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	if in.Kind != "" && !entity.ValidStageKind(in.Kind) {
		return nil, domain.Invalid("kind", "debe ser open, won o lost")
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = strings.TrimSpace(in.Name)
	s.Color = in.Color
	if in.Position > 0 {
		s.Position = in.Position
	}
	if in.Kind != "" {
		s.Kind = in.Kind
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := dto.FromStage(*s)
	return &out, nil
}

func toStageResponses(list []entity.PipelineStage) []dto.StageResponse {
	out := make([]dto.StageResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromStage(s))
	}
	return out
}
