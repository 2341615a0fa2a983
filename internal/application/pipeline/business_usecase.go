package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

// Repos lecturas que el caso de uso hace fuera de la transacción.
type Repos struct {
	Businesses   repository.BusinessRepository
	Companies    repository.CompanyRepository
	Contacts     repository.ContactRepository
	Interactions repository.InteractionRepository
	Services     repository.ServiceRepository
	Stages       repository.StageRepository
	Users        repository.UserRepository
}

// BusinessUseCase alta, edición, movimiento en el tablero y baja de negocios.
type BusinessUseCase struct {
	repos     Repos
	tx        TxRunner
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(repos Repos, tx TxRunner, publisher EventPublisher, log *logger.Logger) *BusinessUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BusinessUseCase{repos: repos, tx: tx, publisher: publisher, log: log, now: time.Now}
}

// Create da de alta un negocio: busca o crea la empresa, crea el contacto si vino
// alguno de sus datos, guarda el negocio asignado al actor y deja la interacción inicial.
func (uc *BusinessUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, domain.Invalid("company_name", "es obligatorio")
	}
	if in.ServiceID == "" || in.PlanID == "" {
		return nil, domain.ErrServicePlan
	}
	if in.SetupFee.IsNegative() {
		return nil, domain.Invalid("setup_fee", "no puede ser negativo")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" && !usecase.ValidEmail(email) {
		return nil, domain.Invalid("email", "email inválido")
	}

	stages, err := uc.repos.Stages.List(ctx)
	if err != nil {
		return nil, err
	}
	stage, err := resolveStage(stages, in.StageID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.checkServicePlan(ctx, in.ServiceID, in.PlanID); err != nil {
		return nil, err
	}

	now := uc.now()
	b := &entity.Business{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		ServiceID:   in.ServiceID,
		PlanID:      in.PlanID,
		StageID:     stage.ID,
		SetupFee:    in.SetupFee.Round(2),
		Description: in.Description,
		AssignedTo:  actor.UserID,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.tx.RunPipeline(ctx, func(
		businessRepo repository.BusinessRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
		interactionRepo repository.InteractionRepository,
	) error {
		company, _, err := usecase.FindOrCreateCompany(ctx, companyRepo, dto.CompanyRequest{
			Name:    in.CompanyName,
			TaxID:   in.TaxID,
			Segment: in.Segment,
			Region:  in.Region,
			Size:    in.Size,
			Revenue: in.Revenue,
			Pains:   in.Pains,
		}, actor.UserID, now)
		if err != nil {
			return err
		}
		b.CompanyID = company.ID

		if email != "" || strings.TrimSpace(in.WhatsApp) != "" || strings.TrimSpace(in.LinkedIn) != "" {
			contact := usecase.NewContact(company.ID, dto.ContactRequest{
				Name:     in.Name,
				Email:    email,
				WhatsApp: in.WhatsApp,
				LinkedIn: in.LinkedIn,
				Position: in.TargetPosition,
			}, now)
			if err := contactRepo.Create(ctx, contact); err != nil {
				return fmt.Errorf("crear contacto: %w", err)
			}
			b.ContactID = contact.ID
		}

		if err := businessRepo.Create(ctx, b); err != nil {
			return fmt.Errorf("crear negocio: %w", err)
		}
		return interactionRepo.Create(ctx, &entity.Interaction{
			ID:          uuid.New().String(),
			BusinessID:  b.ID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			Type:        entity.InteractionNote,
			Title:       "Negocio creado",
			Description: fmt.Sprintf("Negocio %s de la empresa %s agregado al pipeline", b.Name, company.Name),
			OccurredAt:  now,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, entity.EventBusinessCreated, b, actor)
	out := dto.FromBusiness(b)
	return &out, nil
}

// Get detalle completo; nil, nil si no existe. Un vendedor solo ve sus negocios.
func (uc *BusinessUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.BusinessDetailResponse, error) {
	b, err := uc.repos.Businesses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	if !pipeline.CanAccess(actor, b) {
		return nil, domain.ErrForbidden
	}

	out := &dto.BusinessDetailResponse{BusinessResponse: dto.FromBusiness(b)}

	company, err := uc.repos.Companies.GetByID(ctx, b.CompanyID)
	if err != nil {
		return nil, err
	}
	if company != nil {
		out.Company = *dto.FromCompany(company)
	}
	contacts, err := uc.repos.Contacts.ListByCompany(ctx, b.CompanyID)
	if err != nil {
		return nil, err
	}
	out.Contacts = dto.FromContacts(contacts)

	assigned, err := uc.repos.Users.GetByID(ctx, b.AssignedTo)
	if err != nil {
		return nil, err
	}
	out.AssignedUser = dto.FromUser(assigned)

	service, err := uc.repos.Services.GetByID(ctx, b.ServiceID)
	if err != nil {
		return nil, err
	}
	if service != nil {
		out.Service = dto.FromService(service, service.Plans)
		if p := service.PlanByID(b.PlanID); p != nil {
			plan := dto.FromPlan(*p)
			out.Plan = &plan
		}
	}

	stages, err := uc.repos.Stages.List(ctx)
	if err != nil {
		return nil, err
	}
	if s, ok := pipeline.Find(stages, b.StageID); ok {
		stage := dto.FromStage(s)
		out.Stage = &stage
	}

	interactions, err := uc.repos.Interactions.ListByBusiness(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	out.Interactions = dto.FromInteractions(interactions)
	return out, nil
}

// Update edita el negocio y, si viene, la empresa, en una sola transacción.
// Reasignar el responsable es solo de admin. Un cambio de etapa deja además un stage_change.
func (uc *BusinessUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	b, err := uc.loadAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previousStage := b.StageID

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.Invalid("name", "es obligatorio")
		}
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.SetupFee != nil {
		if in.SetupFee.IsNegative() {
			return nil, domain.Invalid("setup_fee", "no puede ser negativo")
		}
		b.SetupFee = in.SetupFee.Round(2)
	}
	if in.ServiceID != nil || in.PlanID != nil {
		if in.ServiceID != nil {
			b.ServiceID = *in.ServiceID
		}
		if in.PlanID != nil {
			b.PlanID = *in.PlanID
		}
		if b.ServiceID == "" || b.PlanID == "" {
			return nil, domain.ErrServicePlan
		}
		if _, err := uc.checkServicePlan(ctx, b.ServiceID, b.PlanID); err != nil {
			return nil, err
		}
	}
	if in.ContactID != nil {
		if err := uc.checkContact(ctx, b.CompanyID, *in.ContactID); err != nil {
			return nil, err
		}
		b.ContactID = *in.ContactID
	}
	previousAssignee := ""
	if in.AssignedTo != nil && *in.AssignedTo != b.AssignedTo {
		if !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		if err := uc.checkAssignable(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
		previousAssignee = b.AssignedTo
		b.AssignedTo = *in.AssignedTo
	}

	var stages []entity.PipelineStage
	if in.StageID != nil && *in.StageID != b.StageID {
		stages, err = uc.repos.Stages.List(ctx)
		if err != nil {
			return nil, err
		}
		if _, ok := pipeline.FindActive(stages, *in.StageID); !ok {
			return nil, domain.ErrStageInactive
		}
		b.StageID = *in.StageID
	}

	now := uc.now()
	b.UpdatedAt = now

	err = uc.tx.RunPipeline(ctx, func(
		businessRepo repository.BusinessRepository,
		companyRepo repository.CompanyRepository,
		_ repository.ContactRepository,
		interactionRepo repository.InteractionRepository,
	) error {
		if in.Company != nil {
			company, err := companyRepo.GetByID(ctx, b.CompanyID)
			if err != nil {
				return err
			}
			if company == nil {
				return domain.ErrNotFound
			}
			if err := usecase.UpdateCompany(ctx, companyRepo, company, *in.Company, now); err != nil {
				return err
			}
		}
		if err := businessRepo.Update(ctx, b); err != nil {
			return fmt.Errorf("actualizar negocio: %w", err)
		}
		if err := interactionRepo.Create(ctx, &entity.Interaction{
			ID:          uuid.New().String(),
			BusinessID:  b.ID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			Type:        entity.InteractionNote,
			Title:       "Negocio actualizado",
			Description: "Información del negocio actualizada",
			OccurredAt:  now,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if b.StageID != previousStage {
			ia := pipeline.StageChangeInteraction(b.ID, previousStage, b.StageID, stages, actor, now, uuid.New().String())
			return interactionRepo.Create(ctx, ia)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.event(entity.EventBusinessUpdated, b, actor)
	ev.PreviousAssignedTo = previousAssignee
	publishEvent(ctx, uc.publisher, uc.log, ev)
	out := dto.FromBusiness(b)
	return &out, nil
}

// ChangeStage mueve el negocio a otra etapa (arrastrar y soltar en el tablero).
// Si ya está en esa etapa no escribe nada.
func (uc *BusinessUseCase) ChangeStage(ctx context.Context, actor entity.Actor, id, stageID string) (*dto.BusinessResponse, error) {
	b, err := uc.loadAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	stages, err := uc.repos.Stages.List(ctx)
	if err != nil {
		return nil, err
	}
	ia, err := pipeline.ChangeStage(b, stages, stageID, actor, uc.now(), func() string { return uuid.New().String() })
	if err != nil {
		return nil, err
	}
	if ia == nil {
		out := dto.FromBusiness(b)
		return &out, nil
	}

	err = uc.tx.RunPipeline(ctx, func(
		businessRepo repository.BusinessRepository,
		_ repository.CompanyRepository,
		_ repository.ContactRepository,
		interactionRepo repository.InteractionRepository,
	) error {
		if err := businessRepo.UpdateStage(ctx, b.ID, b.StageID, b.UpdatedAt); err != nil {
			return fmt.Errorf("actualizar etapa: %w", err)
		}
		return interactionRepo.Create(ctx, ia)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, entity.EventBusinessStageChanged, b, actor)
	out := dto.FromBusiness(b)
	return &out, nil
}

// Delete elimina el negocio (admin o responsable). Sus interacciones se borran en cascada.
func (uc *BusinessUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	b, err := uc.loadAccessible(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.repos.Businesses.Delete(ctx, id); err != nil {
		return err
	}
	uc.publish(ctx, entity.EventBusinessDeleted, b, actor)
	return nil
}

// Board tablero del actor: todos los negocios para admin, los propios para vendedor.
func (uc *BusinessUseCase) Board(ctx context.Context, actor entity.Actor) (*dto.BoardResponse, error) {
	cards, err := uc.repos.Businesses.ListCards(ctx, Scope(actor))
	if err != nil {
		return nil, err
	}
	stages, err := uc.repos.Stages.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromBoard(pipeline.BuildBoard(stages, cards)), nil
}

// Scope filtro de negocios visibles para el actor.
func Scope(actor entity.Actor) repository.BusinessFilter {
	if actor.IsAdmin() {
		return repository.BusinessFilter{}
	}
	return repository.BusinessFilter{AssignedTo: actor.UserID}
}

func (uc *BusinessUseCase) loadAccessible(ctx context.Context, actor entity.Actor, id string) (*entity.Business, error) {
	return loadAccessible(ctx, uc.repos.Businesses, actor, id)
}

func loadAccessible(ctx context.Context, repo repository.BusinessRepository, actor entity.Actor, id string) (*entity.Business, error) {
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if !pipeline.CanAccess(actor, b) {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func resolveStage(stages []entity.PipelineStage, id string) (entity.PipelineStage, error) {
	if id == "" {
		s, ok := pipeline.FirstActive(stages)
		if !ok {
			return entity.PipelineStage{}, domain.ErrStageInactive
		}
		return s, nil
	}
	s, ok := pipeline.FindActive(stages, id)
	if !ok {
		return entity.PipelineStage{}, domain.ErrStageInactive
	}
	return s, nil
}

// checkServicePlan el servicio debe estar activo y el plan ser suyo y activo.
func (uc *BusinessUseCase) checkServicePlan(ctx context.Context, serviceID, planID string) (*entity.Plan, error) {
	service, err := uc.repos.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.Active {
		return nil, domain.Invalid("service_id", "servicio inexistente o inactivo")
	}
	plan := service.PlanByID(planID)
	if plan == nil || !plan.Active {
		return nil, domain.Invalid("plan_id", "el plan no pertenece al servicio o está inactivo")
	}
	return plan, nil
}

func (uc *BusinessUseCase) checkContact(ctx context.Context, companyID, contactID string) error {
	if contactID == "" {
		return nil
	}
	c, err := uc.repos.Contacts.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	if c == nil || c.CompanyID != companyID {
		return domain.Invalid("contact_id", "el contacto no pertenece a la empresa")
	}
	return nil
}

func (uc *BusinessUseCase) checkAssignable(ctx context.Context, userID string) error {
	u, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive() || !entity.ValidRole(u.Role) {
		return domain.Invalid("assigned_to", "el usuario no puede recibir negocios")
	}
	return nil
}

// publish avisa a los suscriptores. El cambio ya está confirmado: un fallo solo se registra.
func (uc *BusinessUseCase) publish(ctx context.Context, eventType string, b *entity.Business, actor entity.Actor) {
	publishEvent(ctx, uc.publisher, uc.log, uc.event(eventType, b, actor))
}

func (uc *BusinessUseCase) event(eventType string, b *entity.Business, actor entity.Actor) entity.PipelineEvent {
	return entity.PipelineEvent{
		Type:       eventType,
		BusinessID: b.ID,
		AssignedTo: b.AssignedTo,
		StageID:    b.StageID,
		ActorID:    actor.UserID,
		OccurredAt: uc.now(),
	}
}

func publishEvent(ctx context.Context, p EventPublisher, log *logger.Logger, ev entity.PipelineEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), ev); err != nil {
		log.Warn().Err(err).Str("event", ev.Type).Str("business_id", ev.BusinessID).Msg("no se pudo publicar el evento")
	}
}
