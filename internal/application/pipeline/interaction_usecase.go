package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

// InteractionUseCase historial de un negocio.
type InteractionUseCase struct {
	businessRepo    repository.BusinessRepository
	interactionRepo repository.InteractionRepository
	publisher       EventPublisher
	log             *logger.Logger
	now             func() time.Time
}

// NewInteractionUseCase construye el caso de uso.
func NewInteractionUseCase(
	businessRepo repository.BusinessRepository,
	interactionRepo repository.InteractionRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *InteractionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InteractionUseCase{
		businessRepo:    businessRepo,
		interactionRepo: interactionRepo,
		publisher:       publisher,
		log:             log,
		now:             time.Now,
	}
}

// List interacciones del negocio, más recientes primero.
func (uc *InteractionUseCase) List(ctx context.Context, actor entity.Actor, businessID string) ([]dto.InteractionResponse, error) {
	if _, err := loadAccessible(ctx, uc.businessRepo, actor, businessID); err != nil {
		return nil, err
	}
	list, err := uc.interactionRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return dto.FromInteractions(list), nil
}

// Add registra una nota, llamada, email o reunión.
func (uc *InteractionUseCase) Add(ctx context.Context, actor entity.Actor, businessID string, in dto.CreateInteractionRequest) (*dto.InteractionResponse, error) {
	if !entity.ManualInteractionType(in.Type) {
		return nil, domain.Invalid("type", "debe ser note, call, email o meeting")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalid("title", "es obligatorio")
	}
	b, err := loadAccessible(ctx, uc.businessRepo, actor, businessID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	occurred := now
	if in.OccurredAt != nil && !in.OccurredAt.IsZero() {
		occurred = *in.OccurredAt
	}
	ia := &entity.Interaction{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		UserID:      actor.UserID,
		UserName:    actor.Name,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		OccurredAt:  occurred,
		CreatedAt:   now,
	}
	if err := uc.interactionRepo.Create(ctx, ia); err != nil {
		return nil, err
	}
	publishEvent(ctx, uc.publisher, uc.log, entity.PipelineEvent{
		Type:       entity.EventInteractionCreated,
		BusinessID: b.ID,
		AssignedTo: b.AssignedTo,
		StageID:    b.StageID,
		ActorID:    actor.UserID,
		OccurredAt: now,
	})
	out := dto.FromInteraction(ia)
	return &out, nil
}
