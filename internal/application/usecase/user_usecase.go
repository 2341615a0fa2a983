package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pipeline-crm/internal/application/auth"
	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
	"github.com/jhoicas/pipeline-crm/pkg/textnorm"
)

// Filtro de rol para el listado.
const RoleFilterAll = "all"

// UserUseCase administración de usuarios.
type UserUseCase struct {
	repo         repository.UserRepository
	businessRepo repository.BusinessRepository
	tx           UserTxRunner
	publisher    EventPublisher
	log          *logger.Logger
	now          func() time.Time
}

// NewUserUseCase construye el caso de uso. publisher puede ser nil (sin tiempo real).
func NewUserUseCase(repo repository.UserRepository, businessRepo repository.BusinessRepository, tx UserTxRunner,
	publisher EventPublisher, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, businessRepo: businessRepo, tx: tx, publisher: publisher, log: log, now: time.Now}
}

// List usuarios filtrados por texto (nombre o email, sin acentos ni mayúsculas) y rol.
// El orden es created_at desc (lo da el repo).
func (uc *UserUseCase) List(ctx context.Context, search, role string) ([]dto.UserResponse, error) {
	if role != "" && role != RoleFilterAll && !entity.ValidRole(role) {
		return nil, domain.Invalid("role", "debe ser all, admin o vendedor")
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		if role != "" && role != RoleFilterAll && u.Role != role {
			continue
		}
		if search != "" && !textnorm.Contains(u.Name, search) && !textnorm.Contains(u.Email, search) {
			continue
		}
		out = append(out, *dto.FromUser(u))
	}
	return out, nil
}

// Create da de alta un usuario. Email duplicado -> domain.ErrEmailAlreadyExists.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := auth.NormalizeEmail(in.Email)
	if !ValidEmail(email) {
		return nil, domain.Invalid("email", "email inválido")
	}
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.Invalid("role", "debe ser admin o vendedor")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// Me perfil del usuario autenticado.
func (uc *UserUseCase) Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(u), nil
}

// UpdateProfile nombre y teléfono del propio usuario.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, actor entity.Actor, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	u, err := uc.get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Phone = strings.TrimSpace(in.Phone)
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return dto.FromUser(u), nil
}

// UpdateRole cambia el rol. No permite dejar el sistema sin administradores.
func (uc *UserUseCase) UpdateRole(ctx context.Context, id, role string) (*dto.UserResponse, error) {
	if !entity.ValidRole(role) {
		return nil, domain.Invalid("role", "debe ser admin o vendedor")
	}
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return dto.FromUser(u), nil
	}
	if u.IsAdmin() && u.IsActive() {
		if err := uc.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}
	u.Role = role
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return dto.FromUser(u), nil
}

// UpdateStatus activa o desactiva la cuenta. No permite desactivar al último administrador.
func (uc *UserUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.UserResponse, error) {
	if status != entity.UserStatusActive && status != entity.UserStatusInactive {
		return nil, domain.Invalid("status", "debe ser active o inactive")
	}
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status == status {
		return dto.FromUser(u), nil
	}
	if status == entity.UserStatusInactive && u.IsAdmin() {
		if err := uc.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}
	u.Status = status
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return dto.FromUser(u), nil
}

// Assignable usuarios a los que se les pueden asignar negocios.
func (uc *UserUseCase) Assignable(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByRoles(ctx, entity.RoleAdmin, entity.RoleVendedor)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *dto.FromUser(u))
	}
	return out, nil
}

// Delete elimina un usuario. Si tiene negocios asignados hay que indicar a quién
// pasarlos; reasignación, borrado y auditoría van en una sola transacción.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, userID, reassignTo string) (*dto.DeleteUserResponse, error) {
	if userID == actor.UserID {
		return nil, domain.ErrSelfDelete
	}
	user, err := uc.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() && user.IsActive() {
		if err := uc.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}
	owned, err := uc.businessRepo.CountByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owned == 0 {
		reassignTo = ""
	} else {
		if reassignTo == "" {
			return nil, domain.ErrReassignRequired
		}
		if reassignTo == userID {
			return nil, domain.Invalid("reassign_to", "debe ser un usuario distinto al eliminado")
		}
		target, err := uc.repo.GetByID(ctx, reassignTo)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, domain.Invalid("reassign_to", "el usuario destino no existe")
		}
	}

	now := uc.now()
	out := &dto.DeleteUserResponse{UserID: userID, ReassignedTo: reassignTo}
	var moved []string
	err = uc.tx.RunUserRemoval(ctx, func(
		userRepo repository.UserRepository,
		businessRepo repository.BusinessRepository,
		deletedRepo repository.DeletedUserRepository,
	) error {
		if reassignTo != "" {
			ids, err := businessRepo.Reassign(ctx, userID, reassignTo, now)
			if err != nil {
				return fmt.Errorf("reasignar negocios: %w", err)
			}
			moved = ids
			out.BusinessesReassigned = len(ids)
		}
		if err := userRepo.Delete(ctx, userID); err != nil {
			return fmt.Errorf("eliminar usuario: %w", err)
		}
		return deletedRepo.Create(ctx, &entity.DeletedUser{
			UserID:                 user.ID,
			Email:                  user.Email,
			Name:                   user.Name,
			DeletedAt:              now,
			DeletedBy:              actor.UserID,
			BusinessesReassignedTo: reassignTo,
			BusinessesCount:        out.BusinessesReassigned,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.publishReassigned(ctx, actor, moved, userID, reassignTo, now)
	return out, nil
}

// publishReassigned avisa un business.updated por negocio movido. La baja ya está
// confirmada: un fallo de publicación solo se registra.
func (uc *UserUseCase) publishReassigned(ctx context.Context, actor entity.Actor, ids []string, from, to string, at time.Time) {
	if uc.publisher == nil {
		return
	}
	pctx := context.WithoutCancel(ctx)
	for _, id := range ids {
		ev := entity.PipelineEvent{
			Type:               entity.EventBusinessUpdated,
			BusinessID:         id,
			AssignedTo:         to,
			PreviousAssignedTo: from,
			ActorID:            actor.UserID,
			OccurredAt:         at,
		}
		if err := uc.publisher.Publish(pctx, ev); err != nil {
			uc.log.Warn().Err(err).Str("event", ev.Type).Str("business_id", id).Msg("no se pudo publicar el evento")
		}
	}
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (uc *UserUseCase) ensureAnotherAdmin(ctx context.Context) error {
	n, err := uc.repo.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return fmt.Errorf("%w: debe quedar al menos un administrador", domain.ErrConflict)
	}
	return nil
}
