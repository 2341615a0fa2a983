package repository

import (
	"context"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// ServiceRepository persistencia del catálogo de servicios y planes.
// Los métodos de lectura devuelven el Service con todos sus planes.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	List(ctx context.Context) ([]*entity.Service, error)
	Update(ctx context.Context, s *entity.Service) error
	CreatePlan(ctx context.Context, p *entity.Plan) error
	UpdatePlan(ctx context.Context, p *entity.Plan) error
}

// StageRepository persistencia de las etapas del pipeline.
type StageRepository interface {
	// List devuelve todas las etapas (activas e inactivas) ordenadas por position.
	List(ctx context.Context) ([]entity.PipelineStage, error)
	GetByID(ctx context.Context, id string) (*entity.PipelineStage, error)
	Create(ctx context.Context, s *entity.PipelineStage) error
	Update(ctx context.Context, s *entity.PipelineStage) error
}
