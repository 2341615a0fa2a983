package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	apphttp "github.com/jhoicas/pipeline-crm/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pipeline-crm/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Ana Souza"
	testIssuer    = "pipeline-crm-test"
	testExpMin    = 60
)

// userStore usuarios en memoria que consulta AuthMiddleware.
type userStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
}

func newUserStore(users ...*entity.User) *userStore {
	s := &userStore{users: map[string]*entity.User{}}
	for _, u := range users {
		s.put(u)
	}
	return s
}

func (s *userStore) put(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *userStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *userStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// sessionUser usuario activo con el rol indicado.
func sessionUser(userID, role string) *entity.User {
	return &entity.User{ID: userID, Name: testUserName, Email: "ana@example.com", Role: role, Status: entity.UserStatusActive}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals desde store
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(store apphttp.UserLookup, allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, store),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT para userID con el rol indicado en los claims.
func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: userID, Name: testUserName, Role: role}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testUserID, role)
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(newUserStore(sessionUser(testUserID, "admin")), "admin")
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_VendedorAccedeRutaCompartida(t *testing.T) {
	app := buildTestApp(newUserStore(sessionUser(testUserID, "vendedor")), "admin", "vendedor")
	resp := doRequest(t, app, tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(newUserStore(sessionUser(testUserID, "vendedor")), "admin")
	resp := doRequest(t, app, tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"vendedor no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// Usuario sin rol en la base → 401 MISSING_ROLE.
func TestRequireRole_UsuarioSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(newUserStore(sessionUser(testUserID, "")), "admin")
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(newUserStore(), "admin")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(newUserStore(), "admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FormatoSinBearer(t *testing.T) {
	app := buildTestApp(newUserStore(), "admin")
	resp := doRequest(t, app, "Basic dXNlcjpwYXNz")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	app := fiber.New()
	store := newUserStore(sessionUser(testUserID, "admin"))
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, store), func(c *fiber.Ctx) error {
		actor := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"name":    actor.Name,
			"role":    apphttp.GetRole(c),
			"admin":   actor.IsAdmin(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUserName, body["name"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, true, body["admin"])
}

func TestAuthMiddleware_SecretDistintoRechaza(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.AuthMiddleware("otro-secret-completamente-distinto", newUserStore(sessionUser(testUserID, "admin"))), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: el estado del usuario manda sobre los claims
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_RolDegradadoPierdeAccesoAdmin(t *testing.T) {
	store := newUserStore(sessionUser(testUserID, "admin"))
	app := buildTestApp(store, "admin")
	token := tokenForRole(t, "admin")

	resp := doRequest(t, app, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	store.put(sessionUser(testUserID, "vendedor"))
	resp = doRequest(t, app, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el token de admin no sirve tras degradar el rol")
}

func TestAuthMiddleware_UsuarioInactivo_Retorna403(t *testing.T) {
	u := sessionUser(testUserID, "admin")
	u.Status = entity.UserStatusInactive
	app := buildTestApp(newUserStore(u), "admin")

	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "USER_INACTIVE")
}

func TestAuthMiddleware_UsuarioEliminado_Retorna401(t *testing.T) {
	store := newUserStore(sessionUser(testUserID, "admin"))
	store.remove(testUserID)
	app := buildTestApp(store, "admin")

	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FalloDeLaBase_Retorna500(t *testing.T) {
	store := newUserStore(sessionUser(testUserID, "admin"))
	store.err = errors.New("conexión cerrada")
	app := buildTestApp(store, "admin")

	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
