package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/jwt"
)

// MinPasswordLength largo mínimo de una contraseña.
const MinPasswordLength = 8

// GeneratedPasswordLength largo de las contraseñas generadas por el servidor.
const GeneratedPasswordLength = 12

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, cambio de contraseña y admin inicial.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// NormalizeEmail pasa el email a minúsculas y sin espacios.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *dto.FromUser(user),
	}, nil
}

// ChangePassword cambia la contraseña de targetID.
// Sobre la propia cuenta exige la contraseña actual; sobre otra cuenta solo puede hacerlo un admin.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, actor entity.Actor, targetID string, in dto.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	own := targetID == actor.UserID
	if !own && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	out := &dto.ChangePasswordResponse{UserID: targetID}
	newPassword := in.NewPassword
	if in.Generate {
		generated, err := GeneratePassword(GeneratedPasswordLength)
		if err != nil {
			return nil, err
		}
		newPassword = generated
		out.GeneratedPassword = generated
	} else {
		if err := ValidateNewPassword(in.NewPassword, in.ConfirmPassword); err != nil {
			return nil, err
		}
	}

	user, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if own {
		if in.CurrentPassword == "" {
			return nil, domain.Invalid("current_password", "la contraseña actual es obligatoria")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return nil, domain.ErrUnauthorized
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdatePassword(ctx, targetID, hash, uc.now()); err != nil {
		return nil, err
	}
	return out, nil
}

// BootstrapAdmin crea el primer administrador si todavía no hay ninguno.
// Devuelve false sin error cuando no hace falta o faltan credenciales.
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	admins, err := uc.userRepo.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("contar administradores: %w", err)
	}
	if admins > 0 {
		return false, nil
	}
	if len(password) < MinPasswordLength {
		return false, domain.ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = email
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// ValidateNewPassword aplica las reglas de confirmación y largo mínimo.
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return domain.ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return domain.ErrWeakPassword
	}
	return nil
}

// HashPassword hashea con bcrypt (costo por defecto).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// GeneratePassword genera una contraseña aleatoria de n caracteres con crypto/rand.
func GeneratePassword(n int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generar contraseña: %w", err)
		}
		b[i] = passwordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
