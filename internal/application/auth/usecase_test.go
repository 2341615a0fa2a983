package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/application/auth"
	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/mocks"
	pkgjwt "github.com/jhoicas/pipeline-crm/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func newUC(repo *mocks.UserRepository) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "crm-test"})
}

func userWithPassword(t *testing.T, id, role, status, password string) *entity.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &entity.User{ID: id, Email: id + "@crm.test", Name: "Usuario " + id, Role: role, Status: status, PasswordHash: hash}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	u := userWithPassword(t, "u1", entity.RoleVendedor, entity.UserStatusActive, "secreto123")
	repo.On("GetByEmail", ctx, "u1@crm.test").Return(u, nil)

	out, err := newUC(repo).Login(ctx, dto.LoginRequest{Email: "  U1@CRM.test ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.User.ID)

	id, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.Identity{UserID: "u1", Name: "Usuario u1", Role: entity.RoleVendedor}, id)
	repo.AssertExpectations(t)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	u := userWithPassword(t, "u1", entity.RoleVendedor, entity.UserStatusActive, "secreto123")
	repo.On("GetByEmail", ctx, "u1@crm.test").Return(u, nil)
	repo.On("GetByEmail", ctx, "nadie@crm.test").Return(nil, nil)

	_, err := newUC(repo).Login(ctx, dto.LoginRequest{Email: "u1@crm.test", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = newUC(repo).Login(ctx, dto.LoginRequest{Email: "nadie@crm.test", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "email desconocido no se distingue")
}

func TestLogin_CuentaInactiva(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	u := userWithPassword(t, "u1", entity.RoleVendedor, entity.UserStatusInactive, "secreto123")
	repo.On("GetByEmail", ctx, "u1@crm.test").Return(u, nil)

	_, err := newUC(repo).Login(ctx, dto.LoginRequest{Email: "u1@crm.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangePassword
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc := newUC(new(mocks.UserRepository))
	self := entity.Actor{UserID: "u1", Role: entity.RoleVendedor}

	_, err := uc.ChangePassword(ctx, self, "u1", dto.ChangePasswordRequest{NewPassword: "abcdefgh", ConfirmPassword: "abcdefgX"})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	_, err = uc.ChangePassword(ctx, self, "u1", dto.ChangePasswordRequest{NewPassword: "corta", ConfirmPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = uc.ChangePassword(ctx, self, "u2", dto.ChangePasswordRequest{NewPassword: "abcdefgh", ConfirmPassword: "abcdefgh"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un vendedor no cambia la contraseña de otro")
}

func TestChangePassword_PropiaExigeActual(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	u := userWithPassword(t, "u1", entity.RoleVendedor, entity.UserStatusActive, "actual-123")
	repo.On("GetByID", ctx, "u1").Return(u, nil)
	self := entity.Actor{UserID: "u1", Role: entity.RoleVendedor}
	uc := newUC(repo)

	_, err := uc.ChangePassword(ctx, self, "u1", dto.ChangePasswordRequest{NewPassword: "nueva-123", ConfirmPassword: "nueva-123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ChangePassword(ctx, self, "u1", dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva-123", ConfirmPassword: "nueva-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()
	out, err := uc.ChangePassword(ctx, self, "u1", dto.ChangePasswordRequest{CurrentPassword: "actual-123", NewPassword: "nueva-123", ConfirmPassword: "nueva-123"})
	require.NoError(t, err)
	assert.Empty(t, out.GeneratedPassword)
	repo.AssertExpectations(t)
}

func TestChangePassword_AdminGenera(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	target := userWithPassword(t, "u2", entity.RoleVendedor, entity.UserStatusActive, "vieja-123")
	repo.On("GetByID", ctx, "u2").Return(target, nil)

	var stored string
	repo.On("UpdatePassword", ctx, "u2", mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil)

	admin := entity.Actor{UserID: "a1", Role: entity.RoleAdmin}
	out, err := newUC(repo).ChangePassword(ctx, admin, "u2", dto.ChangePasswordRequest{Generate: true})
	require.NoError(t, err)
	require.Len(t, out.GeneratedPassword, auth.GeneratedPasswordLength)

	// el hash guardado corresponde a la contraseña devuelta
	target.PasswordHash = stored
	repo.On("GetByEmail", ctx, "u2@crm.test").Return(target, nil)
	_, err = newUC(repo).Login(ctx, dto.LoginRequest{Email: "u2@crm.test", Password: out.GeneratedPassword})
	assert.NoError(t, err)
}

func TestGeneratePassword_Alfabeto(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := auth.GeneratePassword(12)
		require.NoError(t, err)
		require.Len(t, p, 12)
		for _, r := range p {
			assert.True(t, strings.ContainsRune(alphabet, r), "caracter fuera del alfabeto: %q", r)
		}
		seen[p] = true
	}
	assert.Greater(t, len(seen), 1, "las contraseñas deben variar")
}

// ──────────────────────────────────────────────────────────────────────────────
// BootstrapAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("crea si no hay admins", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		repo.On("CountByRole", ctx, entity.RoleAdmin).Return(0, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "admin@crm.test" && u.Role == entity.RoleAdmin && u.Status == entity.UserStatusActive
		})).Return(nil)

		created, err := newUC(repo).BootstrapAdmin(ctx, "Admin@CRM.test", "admin-pass", "Admin")
		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("no hace nada si ya hay admin", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		repo.On("CountByRole", ctx, entity.RoleAdmin).Return(1, nil)

		created, err := newUC(repo).BootstrapAdmin(ctx, "admin@crm.test", "admin-pass", "")
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("sin credenciales no consulta", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		created, err := newUC(repo).BootstrapAdmin(ctx, "", "", "")
		require.NoError(t, err)
		assert.False(t, created)
	})
}
