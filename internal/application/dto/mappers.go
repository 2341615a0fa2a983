package dto

import (
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/pipeline"
)

// FromUser convierte la entidad en DTO (sin hash).
func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromCompany(c *entity.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Segment:   c.Segment,
		Region:    c.Region,
		Size:      c.Size,
		Revenue:   c.Revenue,
		Pains:     c.Pains,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromContact(c *entity.Contact) ContactResponse {
	return ContactResponse{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		Email:        c.Email,
		WhatsApp:     c.WhatsApp,
		WhatsAppLink: pipeline.WhatsAppLink(c.WhatsApp),
		LinkedIn:     c.LinkedIn,
		Position:     c.Position,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromContacts nunca devuelve nil: la lista vacía se serializa como [].
func FromContacts(list []*entity.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, FromContact(c))
	}
	return out
}

func FromPlan(p entity.Plan) PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PlanResponse{
		ID:        p.ID,
		ServiceID: p.ServiceID,
		Name:      p.Name,
		Price:     p.Price,
		Duration:  p.Duration,
		Features:  features,
		Active:    p.Active,
	}
}

// FromService convierte el servicio con los planes indicados.
func FromService(s *entity.Service, plans []entity.Plan) *ServiceResponse {
	if s == nil {
		return nil
	}
	out := &ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Active:      s.Active,
		Plans:       make([]PlanResponse, 0, len(plans)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, p := range plans {
		out.Plans = append(out.Plans, FromPlan(p))
	}
	return out
}

func FromStage(s entity.PipelineStage) StageResponse {
	return StageResponse{
		ID:       s.ID,
		Name:     s.Name,
		Color:    s.Color,
		Position: s.Position,
		Kind:     s.Kind,
		Active:   s.Active,
	}
}

func FromBusiness(b *entity.Business) BusinessResponse {
	return BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		CompanyID:   b.CompanyID,
		ContactID:   b.ContactID,
		ServiceID:   b.ServiceID,
		PlanID:      b.PlanID,
		StageID:     b.StageID,
		SetupFee:    b.SetupFee,
		Description: b.Description,
		AssignedTo:  b.AssignedTo,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromCard(c entity.BusinessCard) BusinessCardResponse {
	return BusinessCardResponse{
		ID:             c.ID,
		Name:           c.Name,
		StageID:        c.StageID,
		AssignedTo:     c.AssignedTo,
		AssignedName:   c.AssignedName,
		CompanyID:      c.CompanyID,
		CompanyName:    c.CompanyName,
		CompanySegment: c.CompanySegment,
		CompanyRegion:  c.CompanyRegion,
		ContactName:    c.ContactName,
		ContactEmail:   c.ContactEmail,
		WhatsAppLink:   pipeline.WhatsAppLink(c.ContactWhatsApp),
		LinkedIn:       c.ContactLinkedIn,
		ServiceName:    c.ServiceName,
		PlanName:       c.PlanName,
		PlanPrice:      c.PlanPrice,
		UpdatedAt:      c.UpdatedAt,
	}
}

func FromInteraction(i *entity.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:          i.ID,
		BusinessID:  i.BusinessID,
		UserID:      i.UserID,
		UserName:    i.UserName,
		Type:        i.Type,
		Title:       i.Title,
		Description: i.Description,
		Metadata:    i.Metadata,
		OccurredAt:  i.OccurredAt,
		CreatedAt:   i.CreatedAt,
	}
}

func FromInteractions(list []*entity.Interaction) []InteractionResponse {
	out := make([]InteractionResponse, 0, len(list))
	for _, i := range list {
		out = append(out, FromInteraction(i))
	}
	return out
}

// FromBoard convierte el tablero agrupado.
func FromBoard(b pipeline.Board) *BoardResponse {
	out := &BoardResponse{
		Columns: make([]BoardColumnResponse, 0, len(b.Columns)),
		Orphans: make([]BusinessCardResponse, 0, len(b.Orphans)),
		Total:   b.Total(),
	}
	for _, col := range b.Columns {
		cards := make([]BusinessCardResponse, 0, len(col.Cards))
		for _, c := range col.Cards {
			cards = append(cards, FromCard(c))
		}
		out.Columns = append(out.Columns, BoardColumnResponse{
			Stage: FromStage(col.Stage),
			Count: len(cards),
			Cards: cards,
		})
	}
	for _, c := range b.Orphans {
		out.Orphans = append(out.Orphans, FromCard(c))
	}
	return out
}
