package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pipeline-crm/internal/application/analytics"
	"github.com/jhoicas/pipeline-crm/internal/application/auth"
	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/application/proposal"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	apphttp "github.com/jhoicas/pipeline-crm/internal/interfaces/http"
	"github.com/jhoicas/pipeline-crm/internal/mocks"
)

const sellerID = "00000000-0000-0000-0000-0000000000aa"

type apiFixture struct {
	app          *fiber.App
	users        *mocks.UserRepository
	companies    *mocks.CompanyRepository
	businesses   *mocks.BusinessRepository
	stages       *mocks.StageRepository
	interactions *mocks.InteractionRepository
	sessions     *userStore
	health       error
}

func newAPIFixture(t *testing.T, limiter *apphttp.IPLimiter) *apiFixture {
	t.Helper()
	f := &apiFixture{
		users:        new(mocks.UserRepository),
		companies:    new(mocks.CompanyRepository),
		businesses:   new(mocks.BusinessRepository),
		stages:       new(mocks.StageRepository),
		interactions: new(mocks.InteractionRepository),
		sessions:     newUserStore(),
	}
	contacts := new(mocks.ContactRepository)
	services := new(mocks.ServiceRepository)
	tx := &mocks.TxRunner{
		Users:        f.users,
		Deleted:      new(mocks.DeletedUserRepository),
		Businesses:   f.businesses,
		Companies:    f.companies,
		Contacts:     contacts,
		Interactions: f.interactions,
	}
	pub := &mocks.Publisher{}
	repos := pipeline.Repos{
		Businesses:   f.businesses,
		Companies:    f.companies,
		Contacts:     contacts,
		Interactions: f.interactions,
		Services:     services,
		Stages:       f.stages,
		Users:        f.users,
	}

	f.app = fiber.New()
	apphttp.Router(f.app, apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(f.users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:        usecase.NewUserUseCase(f.users, f.businesses, tx, pub, nil),
		CompanyUC:     usecase.NewCompanyUseCase(f.companies, contacts),
		ContactUC:     usecase.NewContactUseCase(contacts, f.companies),
		CatalogUC:     usecase.NewCatalogUseCase(services),
		StageUC:       usecase.NewStageUseCase(f.stages),
		BusinessUC:    pipeline.NewBusinessUseCase(repos, tx, pub, nil),
		InteractionUC: pipeline.NewInteractionUseCase(f.businesses, f.interactions, pub, nil),
		DashboardUC:   analytics.NewDashboardUseCase(f.businesses, services, f.stages, f.users, time.UTC),
		ProposalUC:    proposal.NewUseCase(f.businesses, f.companies, contacts, services, f.users, nil),
		Users:         f.sessions,
		LoginLimiter:  limiter,
		JWTSecret:     testJWTSecret,
		HealthCheck:   func(context.Context) error { return f.health },
	})
	return f
}

// tokenAs deja a testUserID activo con role y devuelve su Authorization header.
func (f *apiFixture) tokenAs(t *testing.T, role string) string {
	t.Helper()
	f.sessions.put(sessionUser(testUserID, role))
	return tokenForRole(t, role)
}

func (f *apiFixture) do(t *testing.T, method, path, authHeader string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func activeUser(t *testing.T, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID: testUserID, Email: "ana@example.com", Name: testUserName,
		PasswordHash: string(hash), Role: entity.RoleVendedor, Status: entity.UserStatusActive,
	}
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	f.health = errors.New("db caída")
	resp = f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(activeUser(t, "secreta123"), nil)

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: " Ana@Example.com ", Password: "secreta123"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, testUserID, out.User.ID)
	assert.Equal(t, entity.RoleVendedor, out.User.Role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(activeUser(t, "secreta123"), nil)

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "otra-cosa"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	f := newAPIFixture(t, nil)
	u := activeUser(t, "secreta123")
	u.Status = entity.UserStatusInactive
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(u, nil)

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "secreta123"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin_CuerpoInvalido(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", "{no es json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestLogin_RateLimitPorIP(t *testing.T) {
	f := newAPIFixture(t, apphttp.NewIPLimiter(0.001, 2))
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, nil)

	for i := 0; i < 2; i++ {
		resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "x"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "intento %d dentro de la ráfaga", i+1)
		resp.Body.Close()
	}

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "x"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1000", resp.Header.Get("Retry-After"), "0.001 rps: un token cada 1000s")
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp).Code)
}

// ── RBAC en rutas de administración ──────────────────────────────────────────

func TestUsers_ListSoloAdmin(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.users.On("List", mock.Anything).Return([]*entity.User{
		{ID: "u1", Name: "João Pereira", Email: "joao@example.com", Role: entity.RoleVendedor, Status: entity.UserStatusActive},
		{ID: "u2", Name: "Maria", Email: "maria@example.com", Role: entity.RoleAdmin, Status: entity.UserStatusActive},
	}, nil)

	resp := f.do(t, http.MethodGet, "/api/users", f.tokenAs(t, entity.RoleVendedor), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/users?search=joao&role=vendedor", f.tokenAs(t, entity.RoleAdmin), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "u1", out[0].ID)
}

func TestUsers_TokenDeAdminDegradadoEInactivo(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.users.On("List", mock.Anything).Return([]*entity.User{}, nil)
	token := f.tokenAs(t, entity.RoleAdmin)

	resp := f.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	demoted := sessionUser(testUserID, entity.RoleVendedor)
	f.sessions.put(demoted)
	resp = f.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)

	demoted.Status = entity.UserStatusInactive
	f.sessions.put(demoted)
	resp = f.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "USER_INACTIVE", decodeError(t, resp).Code)

	f.users.AssertNumberOfCalls(t, "List", 1)
}

func TestUsers_ListRolInvalido(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodGet, "/api/users?role=gerente", f.tokenAs(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestUsers_NoPuedeBorrarseASiMismo(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodDelete, "/api/users/"+testUserID, f.tokenAs(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStages_CrearSoloAdmin(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/api/stages", f.tokenAs(t, entity.RoleVendedor), dto.StageRequest{Name: "Demo"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRutaProtegidaSinToken(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodGet, "/api/pipeline", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

// ── Empresas ─────────────────────────────────────────────────────────────────

func TestCompanies_GetNoEncontrada(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.companies.On("GetByID", mock.Anything, "c-404").Return(nil, nil)

	resp := f.do(t, http.MethodGet, "/api/companies/c-404", f.tokenAs(t, entity.RoleVendedor), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

// ── Negocios ─────────────────────────────────────────────────────────────────

func TestBusinesses_ChangeStageSinEtapa(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodPatch, "/api/businesses/b1/stage", f.tokenAs(t, entity.RoleAdmin), dto.ChangeStageRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestBusinesses_ChangeStageEtapaInactiva(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.businesses.On("GetByID", mock.Anything, "b1").Return(&entity.Business{ID: "b1", StageID: "mapeada", AssignedTo: testUserID}, nil)
	f.stages.On("List", mock.Anything).Return([]entity.PipelineStage{
		{ID: "mapeada", Name: "Mapeada", Position: 1, Kind: entity.StageKindOpen, Active: true},
		{ID: "vieja", Name: "Vieja", Position: 2, Kind: entity.StageKindOpen, Active: false},
	}, nil)

	resp := f.do(t, http.MethodPatch, "/api/businesses/b1/stage", f.tokenAs(t, entity.RoleVendedor), dto.ChangeStageRequest{StageID: "vieja"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	f.businesses.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBusinesses_VendedorAjenoRecibe403(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.businesses.On("GetByID", mock.Anything, "b1").Return(&entity.Business{ID: "b1", StageID: "mapeada", AssignedTo: sellerID}, nil)

	resp := f.do(t, http.MethodGet, "/api/businesses/b1", f.tokenAs(t, entity.RoleVendedor), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestBusinesses_GetNoEncontrado(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.businesses.On("GetByID", mock.Anything, "b-404").Return(nil, nil)

	resp := f.do(t, http.MethodGet, "/api/businesses/b-404", f.tokenAs(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBusinesses_ProposalNoEncontrado(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.businesses.On("GetByID", mock.Anything, "b-404").Return(nil, nil)

	resp := f.do(t, http.MethodGet, "/api/businesses/b-404/proposal", f.tokenAs(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestInteractions_AddTipoInvalido(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.businesses.On("GetByID", mock.Anything, "b1").Return(&entity.Business{ID: "b1", StageID: "mapeada", AssignedTo: testUserID}, nil)

	resp := f.do(t, http.MethodPost, "/api/businesses/b1/interactions", f.tokenAs(t, entity.RoleVendedor),
		dto.CreateInteractionRequest{Type: "fax", Title: "Enviado"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	f.interactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
