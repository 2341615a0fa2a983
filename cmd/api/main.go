package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/pipeline-crm/internal/application/analytics"
	"github.com/jhoicas/pipeline-crm/internal/application/auth"
	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/application/proposal"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/pipeline-crm/internal/infrastructure/pdf"
	"github.com/jhoicas/pipeline-crm/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pipeline-crm/internal/interfaces/http"
	"github.com/jhoicas/pipeline-crm/pkg/config"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

type eventBroker interface {
	pipeline.EventPublisher
	pipeline.EventSubscriber
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	stageRepo := postgres.NewStageRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	interactionRepo := postgres.NewInteractionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Broker de eventos: Redis si está configurado (varias instancias), si no en memoria.
	var broker eventBroker
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rb := events.NewRedisBroker(rdb, cfg.Redis.Channel, log.Named("redis"))
		if err := rb.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		broker = rb
		log.Info().Str("channel", cfg.Redis.Channel).Msg("eventos del pipeline vía Redis")
	} else {
		broker = events.NewMemoryBroker(log.Named("events"))
		log.Info().Msg("eventos del pipeline en memoria (una sola instancia)")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Bootstrap.AdminEmail != "" && cfg.Bootstrap.AdminPassword != "" {
		created, err := authUC.BootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador inicial creado")
		}
	}

	repos := pipeline.Repos{
		Businesses:   businessRepo,
		Companies:    companyRepo,
		Contacts:     contactRepo,
		Interactions: interactionRepo,
		Services:     serviceRepo,
		Stages:       stageRepo,
		Users:        userRepo,
	}
	businessUC := pipeline.NewBusinessUseCase(repos, txRunner, broker, log.Named("pipeline"))
	interactionUC := pipeline.NewInteractionUseCase(businessRepo, interactionRepo, broker, log.Named("pipeline"))
	dashboardUC := appanalytics.NewDashboardUseCase(businessRepo, serviceRepo, stageRepo, userRepo, cfg.App.Location())

	// PDF de la propuesta comercial
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	proposalUC := proposal.NewUseCase(businessRepo, companyRepo, contactRepo, serviceRepo, userRepo, pdfGenerator)

	loginLimiter := httpRouter.NewIPLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	loginLimiter.StartJanitor(ctx, 2*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: el stream SSE queda abierto.
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Pipeline CRM API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(userRepo, businessRepo, txRunner, broker, log.Named("users")),
		CompanyUC:     usecase.NewCompanyUseCase(companyRepo, contactRepo),
		ContactUC:     usecase.NewContactUseCase(contactRepo, companyRepo),
		CatalogUC:     usecase.NewCatalogUseCase(serviceRepo),
		StageUC:       usecase.NewStageUseCase(stageRepo),
		BusinessUC:    businessUC,
		InteractionUC: interactionUC,
		DashboardUC:   dashboardUC,
		ProposalUC:    proposalUC,
		Events:        broker,
		Users:         userRepo,
		LoginLimiter:  loginLimiter,
		Logger:        log,
		JWTSecret:     cfg.JWT.Secret,
		HealthCheck:   pool.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	// Cerrar el broker termina los streams SSE abiertos antes del shutdown.
	if err := broker.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar broker de eventos")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
