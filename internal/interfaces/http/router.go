package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/internal/application/analytics"
	"github.com/jhoicas/pipeline-crm/internal/application/auth"
	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/application/proposal"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CompanyUC     *usecase.CompanyUseCase
	ContactUC     *usecase.ContactUseCase
	CatalogUC     *usecase.CatalogUseCase
	StageUC       *usecase.StageUseCase
	BusinessUC    *pipeline.BusinessUseCase
	InteractionUC *pipeline.InteractionUseCase
	DashboardUC   *analytics.DashboardUseCase
	ProposalUC    *proposal.UseCase
	Events        pipeline.EventSubscriber
	Users         UserLookup
	LoginLimiter  *IPLimiter
	Logger        *logger.Logger
	JWTSecret     string
	Heartbeat     time.Duration
	// HealthCheck opcional (ping a la base); nil = siempre ok.
	HealthCheck func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	login := []fiber.Handler{authHandler.Login}
	if deps.LoginLimiter != nil {
		login = append([]fiber.Handler{deps.LoginLimiter.Middleware()}, login...)
	}
	api.Post("/auth/login", login...)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Users))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Perfil y usuarios
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/me", userHandler.Me)
	protected.Put("/me", userHandler.UpdateMe)
	users := protected.Group("/users")
	users.Get("/", adminOnly, userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/assignable", userHandler.Assignable)
	users.Put("/:id/password", authHandler.ChangePassword)
	users.Put("/:id/role", adminOnly, userHandler.UpdateRole)
	users.Put("/:id/status", adminOnly, userHandler.UpdateStatus)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Empresas y contactos
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ContactUC)
	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.Search)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Get("/:id/contacts", companyHandler.ListContacts)
	companies.Post("/:id/contacts", companyHandler.CreateContact)
	contacts := protected.Group("/contacts")
	contacts.Put("/:id", companyHandler.UpdateContact)
	contacts.Delete("/:id", companyHandler.DeleteContact)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.StageUC)
	services := protected.Group("/services")
	services.Get("/", catalogHandler.ListServices)
	services.Post("/", adminOnly, catalogHandler.CreateService)
	services.Put("/:id", adminOnly, catalogHandler.UpdateService)
	services.Delete("/:id", adminOnly, catalogHandler.DeactivateService)
	services.Post("/:id/plans", adminOnly, catalogHandler.AddPlan)
	services.Put("/:id/plans/:planId", adminOnly, catalogHandler.UpdatePlan)
	stages := protected.Group("/stages")
	stages.Get("/", catalogHandler.ListStages)
	stages.Post("/", adminOnly, catalogHandler.CreateStage)
	stages.Put("/:id", adminOnly, catalogHandler.UpdateStage)

	// Pipeline y negocios
	businessHandler := NewBusinessHandler(deps.BusinessUC, deps.InteractionUC, deps.ProposalUC)
	protected.Get("/pipeline", businessHandler.Board)
	if deps.Events != nil {
		eventsHandler := NewEventsHandler(deps.Events, deps.Logger, deps.Heartbeat)
		protected.Get("/pipeline/events", eventsHandler.Stream)
	}
	businesses := protected.Group("/businesses")
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/:id", businessHandler.Get)
	businesses.Put("/:id", businessHandler.Update)
	businesses.Delete("/:id", businessHandler.Delete)
	businesses.Patch("/:id/stage", businessHandler.ChangeStage)
	businesses.Get("/:id/interactions", businessHandler.ListInteractions)
	businesses.Post("/:id/interactions", businessHandler.AddInteraction)
	businesses.Get("/:id/proposal", businessHandler.Proposal)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
}
