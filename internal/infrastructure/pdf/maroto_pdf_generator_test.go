package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/application/proposal"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "R$ 999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "R$ 1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "R$ -1.000,00", formatMoney(decimal.NewFromInt(-1000)))
}

func TestGenerateProposalPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Consultoria XYZ")
	doc := proposal.Document{
		Business: &entity.Business{ID: "b1", Name: "Projeto BI"},
		Company:  &entity.Company{ID: "c1", Name: "Acme", TaxID: "12.345.678/0001-90"},
		Contact:  &entity.Contact{Name: "Carla", WhatsApp: "+55 11 90000-0000"},
		Service:  &entity.Service{Name: "BI", Description: "Dashboards gerenciais"},
		Plan: entity.Plan{
			Name: "Pro", Price: decimal.NewFromInt(1500), Duration: "6 meses",
			Features: []string{"Suporte", "Treinamento"},
		},
		SellerName: "Ana",
		SetupFee:   decimal.NewFromInt(500),
		Total:      decimal.NewFromInt(2000),
		IssuedAt:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	out, err := g.GenerateProposalPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")

	doc.Contact = nil
	_, err = g.GenerateProposalPDF(context.Background(), doc)
	require.NoError(t, err, "sin contacto no hay QR")

	_, err = g.GenerateProposalPDF(context.Background(), proposal.Document{})
	assert.Error(t, err)
}
