// Package analytics arma el dashboard comercial: carga en paralelo los datos visibles
// para el usuario y delega el cálculo en domain/metrics.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	apppipeline "github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/metrics"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

// DashboardUseCase genera los indicadores del mes en curso.
//
// Fuente de datos: repositorios de negocios, servicios, etapas y usuarios (solo lectura).
type DashboardUseCase struct {
	businessRepo repository.BusinessRepository
	serviceRepo  repository.ServiceRepository
	stageRepo    repository.StageRepository
	userRepo     repository.UserRepository
	loc          *time.Location
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc define los cortes mensuales.
func NewDashboardUseCase(
	businessRepo repository.BusinessRepository,
	serviceRepo repository.ServiceRepository,
	stageRepo repository.StageRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		stageRepo:    stageRepo,
		userRepo:     userRepo,
		loc:          loc,
		now:          time.Now,
	}
}

// GetSummary construye el DashboardResponse del actor.
//
// Consultas en paralelo:
//  1. negocios visibles (todos para admin, los propios para vendedor)
//  2. servicios con planes
//  3. etapas
//  4. usuarios, solo para admin (ranking de vendedores)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Actor) (*dto.DashboardResponse, error) {
	type businessesResult struct {
		rows []*entity.Business
		err  error
	}
	type servicesResult struct {
		rows []*entity.Service
		err  error
	}
	type stagesResult struct {
		rows []entity.PipelineStage
		err  error
	}
	type usersResult struct {
		rows []*entity.User
		err  error
	}

	businessesCh := make(chan businessesResult, 1)
	servicesCh := make(chan servicesResult, 1)
	stagesCh := make(chan stagesResult, 1)
	usersCh := make(chan usersResult, 1)

	go func() {
		rows, err := uc.businessRepo.List(ctx, apppipeline.Scope(actor))
		businessesCh <- businessesResult{rows, err}
	}()
	go func() {
		rows, err := uc.serviceRepo.List(ctx)
		servicesCh <- servicesResult{rows, err}
	}()
	go func() {
		rows, err := uc.stageRepo.List(ctx)
		stagesCh <- stagesResult{rows, err}
	}()
	go func() {
		if !actor.IsAdmin() {
			usersCh <- usersResult{}
			return
		}
		rows, err := uc.userRepo.List(ctx)
		usersCh <- usersResult{rows, err}
	}()

	businesses := <-businessesCh
	services := <-servicesCh
	stages := <-stagesCh
	users := <-usersCh

	if businesses.err != nil {
		return nil, fmt.Errorf("dashboard: negocios: %w", businesses.err)
	}
	if services.err != nil {
		return nil, fmt.Errorf("dashboard: servicios: %w", services.err)
	}
	if stages.err != nil {
		return nil, fmt.Errorf("dashboard: etapas: %w", stages.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}

	now := uc.now()
	res := metrics.Compute(metrics.Input{
		Now:               now,
		Location:          uc.loc,
		Businesses:        businesses.rows,
		Services:          services.rows,
		Stages:            stages.rows,
		Users:             users.rows,
		IncludePerformers: actor.IsAdmin(),
	})

	performers := make([]dto.PerformerDTO, 0, len(res.TopPerformers))
	for _, p := range res.TopPerformers {
		performers = append(performers, dto.PerformerDTO{UserID: p.UserID, Name: p.Name, Sales: p.Sales, Clients: p.Clients})
	}

	return &dto.DashboardResponse{
		TotalClients:        res.TotalClients,
		NewClientsThisMonth: res.NewClientsThisMonth,
		TotalSales:          res.TotalSales,
		SalesThisMonth:      res.SalesThisMonth,
		ConversionRate:      res.ConversionRate,
		AverageTicket:       res.AverageTicket,
		PipelineValue:       res.PipelineValue,
		ClientsByStage:      res.ClientsByStage,
		SalesByService:      res.SalesByService,
		TopPerformers:       performers,
		MonthStart:          res.MonthStart,
		MonthEnd:            res.MonthEnd,
		DateLabel:           monthLabel(now.In(uc.loc)),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Outubro 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
