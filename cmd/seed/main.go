// seed carga un catálogo de servicios y planes de ejemplo y dos vendedores de prueba.
// Es idempotente: servicios con el mismo nombre y emails ya registrados se saltan.
//
// Uso: go run ./cmd/seed [password-vendedores]
// Por defecto los vendedores quedan con la contraseña "vendedor123".
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/pipeline-crm/pkg/config"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
	"github.com/jhoicas/pipeline-crm/pkg/textnorm"
)

type seedPlan struct {
	name     string
	price    string
	duration string
	features []string
}

type seedService struct {
	name        string
	description string
	plans       []seedPlan
}

var catalog = []seedService{
	{
		name:        "Diagnóstico de Dados",
		description: "Mapeamento das fontes de dados e maturidade analítica",
		plans: []seedPlan{
			{"Básico", "2500.00", "2 semanas", []string{"Entrevistas com as áreas", "Relatório de maturidade"}},
			{"Completo", "6000.00", "1 mês", []string{"Entrevistas com as áreas", "Inventário de fontes", "Roadmap de 12 meses"}},
		},
	},
	{
		name:        "Automação com IA",
		description: "Agentes e fluxos automatizados sobre processos comerciais",
		plans: []seedPlan{
			{"Starter", "4900.00", "1 mês", []string{"1 fluxo automatizado", "Suporte por e-mail"}},
			{"Pro", "12000.00", "3 meses", []string{"Até 5 fluxos", "Integração com CRM", "Suporte prioritário"}},
		},
	},
	{
		name:        "Consultoria BI",
		description: "Dashboards e indicadores de gestão",
		plans: []seedPlan{
			{"Mensal", "3500.00", "mensal", []string{"Horas de consultoria", "Manutenção de dashboards"}},
		},
	},
}

var sellers = []dto.CreateUserRequest{
	{Email: "carlos@example.com", Name: "Carlos Lima", Role: entity.RoleVendedor, Phone: "+55 11 98888-1111"},
	{Email: "juliana@example.com", Name: "Juliana Rocha", Role: entity.RoleVendedor, Phone: "+55 21 97777-2222"},
}

func main() {
	password := "vendedor123"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	catalogUC := usecase.NewCatalogUseCase(postgres.NewServiceRepository(pool))
	if err := seedCatalog(ctx, catalogUC, log); err != nil {
		log.Fatal().Err(err).Msg("catálogo")
	}

	userUC := usecase.NewUserUseCase(
		postgres.NewUserRepository(pool),
		postgres.NewBusinessRepository(pool),
		postgres.NewTxRunner(pool),
		nil, log,
	)
	for _, in := range sellers {
		in.Password = password
		if _, err := userUC.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrEmailAlreadyExists) {
				log.Info().Str("email", in.Email).Msg("vendedor ya existe")
				continue
			}
			log.Fatal().Err(err).Str("email", in.Email).Msg("crear vendedor")
		}
		log.Info().Str("email", in.Email).Msg("vendedor creado")
	}

	log.Info().Msg("seed terminado")
}

func seedCatalog(ctx context.Context, uc *usecase.CatalogUseCase, log *logger.Logger) error {
	admin := entity.Actor{Role: entity.RoleAdmin}
	existing, err := uc.List(ctx, admin, true)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, s := range existing {
		have[textnorm.Fold(s.Name)] = true
	}

	for _, s := range catalog {
		if have[textnorm.Fold(s.name)] {
			log.Info().Str("service", s.name).Msg("servicio ya existe")
			continue
		}
		svc, err := uc.Create(ctx, dto.ServiceRequest{Name: s.name, Description: s.description})
		if err != nil {
			return fmt.Errorf("servicio %q: %w", s.name, err)
		}
		for _, p := range s.plans {
			_, err := uc.AddPlan(ctx, svc.ID, dto.PlanRequest{
				Name:     p.name,
				Price:    decimal.RequireFromString(p.price),
				Duration: p.duration,
				Features: p.features,
			})
			if err != nil {
				return fmt.Errorf("plan %q de %q: %w", p.name, s.name, err)
			}
		}
		log.Info().Str("service", s.name).Int("plans", len(s.plans)).Msg("servicio creado")
	}
	return nil
}
