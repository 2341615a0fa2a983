package pipeline

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// CanAccess informa si el actor puede ver o modificar el negocio:
// el admin ve todo, el vendedor solo lo que tiene asignado.
func CanAccess(actor entity.Actor, b *entity.Business) bool {
	if b == nil {
		return false
	}
	return actor.IsAdmin() || b.AssignedTo == actor.UserID
}

// ChangeStage mueve b a targetID y devuelve la interacción stage_change a
// registrar. Si b ya está en esa etapa devuelve nil, nil y no toca b.
func ChangeStage(
	b *entity.Business,
	stages []entity.PipelineStage,
	targetID string,
	actor entity.Actor,
	now time.Time,
	newID func() string,
) (*entity.Interaction, error) {
	target, ok := FindActive(stages, targetID)
	if !ok {
		return nil, domain.ErrStageInactive
	}
	if b.StageID == target.ID {
		return nil, nil
	}
	previous := b.StageID
	b.StageID = target.ID
	b.UpdatedAt = now
	return StageChangeInteraction(b.ID, previous, target.ID, stages, actor, now, newID()), nil
}

// StageChangeInteraction construye la interacción que documenta un cambio de etapa.
func StageChangeInteraction(
	businessID, from, to string,
	stages []entity.PipelineStage,
	actor entity.Actor,
	now time.Time,
	id string,
) *entity.Interaction {
	return &entity.Interaction{
		ID:          id,
		BusinessID:  businessID,
		UserID:      actor.UserID,
		UserName:    actor.Name,
		Type:        entity.InteractionStageChange,
		Title:       "Cambio de etapa",
		Description: fmt.Sprintf(`Negocio movido de "%s" a "%s"`, StageName(stages, from), StageName(stages, to)),
		Metadata: map[string]string{
			entity.MetaPreviousStage: from,
			entity.MetaNewStage:      to,
		},
		OccurredAt: now,
		CreatedAt:  now,
	}
}

var nonDigits = regexp.MustCompile(`\D`)

// WhatsAppLink enlace wa.me para el número; vacío si no tiene dígitos.
func WhatsAppLink(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}
