package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/internal/mocks"
)

var fixedNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func dashboardFixture() (*DashboardUseCase, *mocks.BusinessRepository, *mocks.UserRepository) {
	businesses := new(mocks.BusinessRepository)
	services := new(mocks.ServiceRepository)
	stages := new(mocks.StageRepository)
	users := new(mocks.UserRepository)

	ctx := context.Background()
	services.On("List", ctx).Return([]*entity.Service{
		{ID: "s1", Name: "Consultoria", Plans: []entity.Plan{
			{ID: "p1", Price: decimal.NewFromInt(1000)},
			{ID: "p2", Price: decimal.NewFromInt(3000)},
		}},
	}, nil)
	stages.On("List", ctx).Return([]entity.PipelineStage{
		{ID: "mapeada", Kind: entity.StageKindOpen, Active: true, Position: 1},
		{ID: "fechada", Kind: entity.StageKindWon, Active: true, Position: 8},
		{ID: "perdida", Kind: entity.StageKindLost, Active: true, Position: 9},
	}, nil)

	uc := NewDashboardUseCase(businesses, services, stages, users, time.UTC)
	uc.now = func() time.Time { return fixedNow }
	return uc, businesses, users
}

func TestGetSummary_Admin(t *testing.T) {
	ctx := context.Background()
	uc, businesses, users := dashboardFixture()

	businesses.On("List", ctx, repository.BusinessFilter{}).Return([]*entity.Business{
		{ID: "b1", StageID: "mapeada", ServiceID: "s1", PlanID: "p2", AssignedTo: "u1", CreatedAt: fixedNow, UpdatedAt: fixedNow},
		{ID: "b2", StageID: "fechada", ServiceID: "s1", PlanID: "p1", AssignedTo: "u2", CreatedAt: fixedNow.AddDate(0, -2, 0), UpdatedAt: fixedNow},
		{ID: "b3", StageID: "perdida", ServiceID: "s1", PlanID: "p1", AssignedTo: "u1", CreatedAt: fixedNow.AddDate(0, -2, 0), UpdatedAt: fixedNow},
	}, nil)
	users.On("List", ctx).Return([]*entity.User{
		{ID: "u1", Name: "Ana"},
		{ID: "u2", Name: "Bruno"},
	}, nil)

	out, err := uc.GetSummary(ctx, entity.Actor{UserID: "a1", Role: entity.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalClients)
	assert.Equal(t, 1, out.NewClientsThisMonth)
	assert.Equal(t, 1, out.TotalSales)
	assert.Equal(t, 1, out.SalesThisMonth)
	assert.True(t, decimal.RequireFromString("33.33").Equal(out.ConversionRate))
	assert.True(t, decimal.NewFromInt(2000).Equal(out.AverageTicket))
	assert.True(t, decimal.NewFromInt(3000).Equal(out.PipelineValue), "solo etapas abiertas")
	assert.Equal(t, map[string]int{"Consultoria": 1}, out.SalesByService)
	require.Len(t, out.TopPerformers, 2)
	assert.Equal(t, "Bruno", out.TopPerformers[0].Name)
	assert.Equal(t, "Outubro 2026", out.DateLabel)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), out.MonthStart)
}

func TestGetSummary_VendedorSinRanking(t *testing.T) {
	ctx := context.Background()
	uc, businesses, users := dashboardFixture()
	businesses.On("List", ctx, repository.BusinessFilter{AssignedTo: "u1"}).Return([]*entity.Business{}, nil)

	out, err := uc.GetSummary(ctx, entity.Actor{UserID: "u1", Role: entity.RoleVendedor})
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalClients)
	assert.True(t, out.ConversionRate.IsZero())
	assert.Empty(t, out.TopPerformers)
	users.AssertNotCalled(t, "List", ctx)
}

func TestGetSummary_ErrorDeRepositorio(t *testing.T) {
	ctx := context.Background()
	uc, businesses, _ := dashboardFixture()
	businesses.On("List", ctx, repository.BusinessFilter{AssignedTo: "u1"}).Return(nil, errors.New("db caída"))

	_, err := uc.GetSummary(ctx, entity.Actor{UserID: "u1", Role: entity.RoleVendedor})
	assert.ErrorContains(t, err, "dashboard: negocios")
}
