// Package pipeline contiene los casos de uso de negocios, tablero e interacciones.
package pipeline

import (
	"context"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	RunPipeline(ctx context.Context, fn func(
		businessRepo repository.BusinessRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
		interactionRepo repository.InteractionRepository,
	) error) error
}

// EventPublisher publica cambios del tablero para los clientes conectados.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.PipelineEvent) error
}

// EventSubscriber entrega los eventos publicados hasta que ctx se cancele.
type EventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan entity.PipelineEvent, error)
}
