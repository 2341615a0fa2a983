package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// BusinessFilter restringe los listados; AssignedTo vacío = todos.
type BusinessFilter struct {
	AssignedTo string
}

// BusinessRepository persistencia de negocios.
type BusinessRepository interface {
	Create(ctx context.Context, b *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	Update(ctx context.Context, b *entity.Business) error
	UpdateStage(ctx context.Context, id, stageID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f BusinessFilter) ([]*entity.Business, error)
	// ListCards devuelve la proyección del tablero ordenada por updated_at desc.
	ListCards(ctx context.Context, f BusinessFilter) ([]entity.BusinessCard, error)
	CountByAssignee(ctx context.Context, userID string) (int, error)
	// Reassign mueve todos los negocios de from a to y devuelve los IDs movidos.
	Reassign(ctx context.Context, from, to string, at time.Time) ([]string, error)
}

// InteractionRepository historial de interacciones de un negocio.
type InteractionRepository interface {
	Create(ctx context.Context, i *entity.Interaction) error
	// ListByBusiness devuelve las interacciones ordenadas por created_at desc.
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.Interaction, error)
}
