// Package pdf implementa la propuesta comercial en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: PROPOSTA COMERCIAL + negocio  │  Fecha + vendedor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: empresa + CNPJ + segmento / región                 │
//	│  CONTACTO: nombre + cargo + email / WhatsApp                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SERVICIO: nombre + descripción                              │
//	│  PLAN: nombre + duración + lista de features                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VALORES: plan / setup / TOTAL                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de WhatsApp (si hay) + observaciones             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pipeline-crm/internal/application/proposal"
	"github.com/jhoicas/pipeline-crm/internal/domain/pipeline"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa proposal.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer string // nombre de la empresa que emite la propuesta
}

var _ proposal.PDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer}
}

// GenerateProposalPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateProposalPDF(_ context.Context, doc proposal.Document) ([]byte, error) {
	if doc.Business == nil || doc.Company == nil || doc.Service == nil {
		return nil, fmt.Errorf("pdf: propuesta incompleta")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Proposta comercial - "+doc.Company.Name, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, g.issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(doc))
	if doc.Contact != nil {
		m.AddRows(contactRow(doc))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(serviceRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc proposal.Document, issuer string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("PROPOSTA COMERCIAL", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Business.Name, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(issuer, "—"), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Data: "+doc.IssuedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Responsável: "+nonEmpty(doc.SellerName, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func clientRow(doc proposal.Document) core.Row {
	c := doc.Company
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CNPJ: %s   |   Segmento: %s   |   Região: %s",
				nonEmpty(c.TaxID, "—"),
				nonEmpty(c.Segment, "—"),
				nonEmpty(c.Region, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func contactRow(doc proposal.Document) core.Row {
	k := doc.Contact
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CONTATO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)   |   Email: %s   |   WhatsApp: %s",
				k.Name,
				nonEmpty(k.Position, "—"),
				nonEmpty(k.Email, "—"),
				nonEmpty(k.WhatsApp, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// serviceRows: servicio, plan y una fila por feature.
func serviceRows(doc proposal.Document) []core.Row {
	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New("SERVIÇO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Service.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		)),
	}
	if d := strings.TrimSpace(doc.Service.Description); d != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(d, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Plano %s   |   Duração: %s", doc.Plan.Name, nonEmpty(doc.Plan.Duration, "—")), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		}),
	)))
	for _, f := range doc.Plan.Features {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("• "+f, props.Text{Size: 8, Left: 3, Top: 0.5}),
		)))
	}
	return rows
}

func totalsRow(doc proposal.Document) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Plano:"),
			label("Setup:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value(formatMoney(doc.Plan.Price)),
			value(formatMoney(doc.SetupFee)),
			grandValue(formatMoney(doc.Total)),
		),
		col.New(3),
	)
}

// footerRows: QR con el enlace de WhatsApp del contacto (si tiene) y la validez.
func footerRows(doc proposal.Document) []core.Row {
	legend := text.New("Proposta válida por 30 dias a partir da data de emissão.", props.Text{
		Size: 7, Color: colorGray, Top: 2,
	})

	var link string
	if doc.Contact != nil {
		link = pipeline.WhatsAppLink(doc.Contact.WhatsApp)
	}
	if link == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(legend))}
	}
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(link, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Fale com a gente pelo WhatsApp:\n"+link, props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		),
		row.New(8).Add(col.New(12).Add(legend)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea en reales: "R$ 1.234,50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return "R$ " + sign + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
