package usecase

import (
	"context"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

// EventPublisher difunde cambios del tablero a los suscriptores en tiempo real.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.PipelineEvent) error
}

// UserTxRunner ejecuta la baja de un usuario (reasignación, borrado y auditoría) en una transacción.
type UserTxRunner interface {
	RunUserRemoval(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		businessRepo repository.BusinessRepository,
		deletedRepo repository.DeletedUserRepository,
	) error) error
}
