package proposal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// Document datos ya resueltos que se imprimen en la propuesta comercial.
type Document struct {
	Business   *entity.Business
	Company    *entity.Company
	Contact    *entity.Contact // puede ser nil
	Service    *entity.Service
	Plan       entity.Plan
	SellerName string
	SetupFee   decimal.Decimal
	Total      decimal.Decimal // precio del plan + setup
	IssuedAt   time.Time
}

// PDFGenerator arma el PDF de la propuesta.
type PDFGenerator interface {
	GenerateProposalPDF(ctx context.Context, doc Document) ([]byte, error)
}
