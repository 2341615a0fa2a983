package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	// List devuelve todos los usuarios ordenados por created_at desc.
	List(ctx context.Context) ([]*entity.User, error)
	// ListByRoles devuelve los usuarios activos con alguno de los roles, ordenados por nombre.
	ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error)
	// CountByRole cuenta los usuarios activos con ese rol.
	CountByRole(ctx context.Context, role string) (int, error)
	Delete(ctx context.Context, id string) error
}

// DeletedUserRepository registra la auditoría de usuarios eliminados.
type DeletedUserRepository interface {
	Create(ctx context.Context, d *entity.DeletedUser) error
}
