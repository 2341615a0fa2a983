package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

var (
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.DeletedUserRepository = (*DeletedUserRepo)(nil)
)

const userColumns = `id, email, password_hash, name, phone, role, status, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (ya normalizado por el caso de uso).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza perfil, rol y estado. La contraseña va por UpdatePassword.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $2, name = $3, phone = $4, role = $5, status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Phone, user.Role, user.Status, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, at)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista todos los usuarios, más nuevos primero.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

// ListByRoles usuarios activos con alguno de los roles, por nombre.
func (r *UserRepo) ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error) {
	return r.list(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE status = 'active' AND role = ANY($1)
		ORDER BY name`, roles)
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1 AND status = 'active'`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// Delete borra el usuario. Falla con ErrConflict si todavía tiene negocios asignados.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el usuario todavía tiene negocios asignados", domain.ErrConflict)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(s pgxScanner) (*entity.User, error) {
	var u entity.User
	if err := s.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Auditoría de bajas ───────────────────────────────────────────────────────

// DeletedUserRepo guarda el registro de usuarios eliminados.
type DeletedUserRepo struct {
	q Querier
}

// NewDeletedUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeletedUserRepository(q Querier) *DeletedUserRepo {
	return &DeletedUserRepo{q: q}
}

func (r *DeletedUserRepo) Create(ctx context.Context, d *entity.DeletedUser) error {
	query := `
		INSERT INTO deleted_users (user_id, email, name, deleted_at, deleted_by, businesses_reassigned_to, businesses_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.UserID, d.Email, d.Name, d.DeletedAt, d.DeletedBy, nullIfEmpty(d.BusinessesReassignedTo), d.BusinessesCount,
	)
	if err != nil {
		return fmt.Errorf("insert deleted user: %w", err)
	}
	return nil
}
