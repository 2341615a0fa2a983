// Package proposal genera la propuesta comercial en PDF de un negocio.
package proposal

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
	"github.com/jhoicas/pipeline-crm/pkg/textnorm"
)

// UseCase carga el negocio con su empresa, contacto, servicio y plan y delega el render.
type UseCase struct {
	businessRepo repository.BusinessRepository
	companyRepo  repository.CompanyRepository
	contactRepo  repository.ContactRepository
	serviceRepo  repository.ServiceRepository
	userRepo     repository.UserRepository
	generator    PDFGenerator
	now          func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	businessRepo repository.BusinessRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{
		businessRepo: businessRepo,
		companyRepo:  companyRepo,
		contactRepo:  contactRepo,
		serviceRepo:  serviceRepo,
		userRepo:     userRepo,
		generator:    generator,
		now:          time.Now,
	}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound      si el negocio o su empresa no existen.
//   - domain.ErrForbidden     si el vendedor no es el responsable.
//   - domain.ErrInvalidInput  si el plan del negocio ya no existe en el servicio.
func (uc *UseCase) Download(ctx context.Context, actor entity.Actor, businessID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Negocio ─────────────────────────────────────────────────────────────
	b, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, "", fmt.Errorf("propuesta: obtener negocio: %w", err)
	}
	if b == nil {
		return nil, "", domain.ErrNotFound
	}
	if !pipeline.CanAccess(actor, b) {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. Empresa y contacto ──────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, b.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("propuesta: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	var contact *entity.Contact
	if b.ContactID != "" {
		contact, err = uc.contactRepo.GetByID(ctx, b.ContactID)
		if err != nil {
			return nil, "", fmt.Errorf("propuesta: obtener contacto: %w", err)
		}
	}

	// ── 3. Servicio y plan ─────────────────────────────────────────────────────
	service, err := uc.serviceRepo.GetByID(ctx, b.ServiceID)
	if err != nil {
		return nil, "", fmt.Errorf("propuesta: obtener servicio: %w", err)
	}
	if service == nil {
		return nil, "", fmt.Errorf("%w: el servicio del negocio ya no existe", domain.ErrInvalidInput)
	}
	plan := service.PlanByID(b.PlanID)
	if plan == nil {
		return nil, "", fmt.Errorf("%w: el plan del negocio ya no existe", domain.ErrInvalidInput)
	}

	assigned, err := uc.userRepo.GetByID(ctx, b.AssignedTo)
	if err != nil {
		return nil, "", fmt.Errorf("propuesta: obtener vendedor: %w", err)
	}
	if assigned == nil {
		return nil, "", domain.ErrUserNotFound
	}

	// ── 4. Render ──────────────────────────────────────────────────────────────
	doc := Document{
		Business:   b,
		Company:    company,
		Contact:    contact,
		Service:    service,
		Plan:       *plan,
		SellerName: assigned.Name,
		SetupFee:   b.SetupFee,
		Total:      plan.Price.Add(b.SetupFee).Round(2),
		IssuedAt:   uc.now(),
	}
	pdfBytes, err = uc.generator.GenerateProposalPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("propuesta: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("proposta_%s.pdf", textnorm.Slug(company.Name))
	return pdfBytes, filename, nil
}
