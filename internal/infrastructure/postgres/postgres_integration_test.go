//go:build integration

package postgres

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/config"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	users := NewUserRepository(pool)
	companies := NewCompanyRepository(pool)
	services := NewServiceRepository(pool)
	stages := NewStageRepository(pool)
	businesses := NewBusinessRepository(pool)
	interactions := NewInteractionRepository(pool)
	tx := NewTxRunner(pool)

	// Etapas sembradas por la migración.
	list, err := stages.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 9)
	require.Equal(t, "mapeada", list[0].ID)
	require.Equal(t, entity.StageKindWon, list[7].Kind)

	ana := &entity.User{ID: uuid.NewString(), Email: "ana@crm.test", PasswordHash: "x", Name: "Ana",
		Role: entity.RoleVendedor, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	bruno := &entity.User{ID: uuid.NewString(), Email: "bruno@crm.test", PasswordHash: "x", Name: "Bruno",
		Role: entity.RoleVendedor, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, ana))
	require.NoError(t, users.Create(ctx, bruno))
	require.ErrorIs(t, users.Create(ctx, &entity.User{ID: uuid.NewString(), Email: "ana@crm.test",
		Role: entity.RoleVendedor, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}), domain.ErrEmailAlreadyExists)

	n, err := users.CountByRole(ctx, entity.RoleVendedor)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	missing, err := users.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	require.Nil(t, missing)

	svc := &entity.Service{ID: uuid.NewString(), Name: "BI", Active: true, CreatedAt: now, UpdatedAt: now,
		Plans: []entity.Plan{{ID: uuid.NewString(), Name: "Pro", Price: decimal.RequireFromString("1500.50"),
			Features: []string{"Suporte"}, Active: true}}}
	require.NoError(t, services.Create(ctx, svc))
	gotSvc, err := services.GetByID(ctx, svc.ID)
	require.NoError(t, err)
	require.Len(t, gotSvc.Plans, 1)
	require.True(t, decimal.RequireFromString("1500.50").Equal(gotSvc.Plans[0].Price))
	require.Equal(t, []string{"Suporte"}, gotSvc.Plans[0].Features)

	company := &entity.Company{ID: uuid.NewString(), Name: "Açaí Ltda", NameKey: "acai ltda",
		CreatedBy: ana.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, companies.Create(ctx, company))
	require.ErrorIs(t, companies.Create(ctx, &entity.Company{ID: uuid.NewString(), Name: "ACAI LTDA",
		NameKey: "acai ltda", CreatedBy: ana.ID, CreatedAt: now, UpdatedAt: now}), domain.ErrDuplicate)

	found, err := companies.Search(ctx, "acai", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	found, err = companies.Search(ctx, "100%", 10)
	require.NoError(t, err)
	require.Empty(t, found, "los comodines de LIKE se escapan")

	// Alta de negocio + interacción en una transacción.
	b := &entity.Business{ID: uuid.NewString(), Name: "Projeto", CompanyID: company.ID, ServiceID: svc.ID,
		PlanID: svc.Plans[0].ID, StageID: "mapeada", SetupFee: decimal.NewFromInt(100),
		AssignedTo: ana.ID, CreatedBy: ana.ID, CreatedAt: now, UpdatedAt: now}
	err = tx.RunPipeline(ctx, func(br repository.BusinessRepository, _ repository.CompanyRepository,
		_ repository.ContactRepository, ir repository.InteractionRepository) error {
		if err := br.Create(ctx, b); err != nil {
			return err
		}
		return ir.Create(ctx, &entity.Interaction{ID: uuid.NewString(), BusinessID: b.ID, UserID: ana.ID,
			Type: entity.InteractionStageChange, Title: "x",
			Metadata:   map[string]string{entity.MetaPreviousStage: "a", entity.MetaNewStage: "b"},
			OccurredAt: now, CreatedAt: now})
	})
	require.NoError(t, err)

	history, err := interactions.ListByBusiness(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "b", history[0].Metadata[entity.MetaNewStage])

	// Un fallo dentro de la transacción no deja nada escrito.
	ghost := *b
	ghost.ID = uuid.NewString()
	err = tx.RunPipeline(ctx, func(br repository.BusinessRepository, _ repository.CompanyRepository,
		_ repository.ContactRepository, _ repository.InteractionRepository) error {
		if err := br.Create(ctx, &ghost); err != nil {
			return err
		}
		return domain.ErrConflict
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	gone, err := businesses.GetByID(ctx, ghost.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	cards, err := businesses.ListCards(ctx, repository.BusinessFilter{AssignedTo: ana.ID})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Açaí Ltda", cards[0].CompanyName)
	require.Equal(t, "Ana", cards[0].AssignedName)
	require.True(t, decimal.RequireFromString("1500.50").Equal(cards[0].PlanPrice))

	// El usuario con negocios no se puede borrar sin reasignar.
	require.ErrorIs(t, users.Delete(ctx, ana.ID), domain.ErrConflict)

	err = tx.RunUserRemoval(ctx, func(ur repository.UserRepository, br repository.BusinessRepository,
		dr repository.DeletedUserRepository) error {
		moved, err := br.Reassign(ctx, ana.ID, bruno.ID, now)
		if err != nil {
			return err
		}
		require.Len(t, moved, 1)
		if err := ur.Delete(ctx, ana.ID); err != nil {
			return err
		}
		return dr.Create(ctx, &entity.DeletedUser{UserID: ana.ID, Email: ana.Email, Name: ana.Name,
			DeletedAt: now, DeletedBy: bruno.ID, BusinessesReassignedTo: bruno.ID, BusinessesCount: len(moved)})
	})
	require.NoError(t, err)

	count, err := businesses.CountByAssignee(ctx, bruno.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, businesses.Delete(ctx, b.ID))
	history, err = interactions.ListByBusiness(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, history, "las interacciones se borran en cascada")
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dpool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := dpool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=pipeline_crm",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dpool.Purge(resource) })

	port, err := strconv.Atoi(resource.GetPort("5432/tcp"))
	require.NoError(t, err)

	cfg := config.DBConfig{
		Host: "localhost", Port: port, User: "postgres", Password: "postgres",
		DBName: "pipeline_crm", SSLMode: "disable", MaxConns: 4,
	}

	var pool *pgxpool.Pool
	require.NoError(t, dpool.Retry(func() error {
		p, err := NewPool(context.Background(), cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}))
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(context.Background(), pool, logger.Nop()))
	return pool
}
