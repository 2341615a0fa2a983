package entity

import "time"

// Tipos de evento publicados al canal en tiempo real del pipeline.
const (
	EventBusinessCreated      = "business.created"
	EventBusinessUpdated      = "business.updated"
	EventBusinessStageChanged = "business.stage_changed"
	EventBusinessDeleted      = "business.deleted"
	EventInteractionCreated   = "interaction.created"
)

// PipelineEvent cambio ocurrido en el tablero. AssignedTo y PreviousAssignedTo
// permiten filtrar qué suscriptores lo reciben; el anterior responsable también
// se entera de la reasignación para sacar la tarjeta de su tablero.
type PipelineEvent struct {
	Type               string    `json:"type"`
	BusinessID         string    `json:"business_id"`
	AssignedTo         string    `json:"assigned_to"`
	PreviousAssignedTo string    `json:"previous_assigned_to,omitempty"`
	StageID            string    `json:"stage_id,omitempty"`
	ActorID            string    `json:"actor_id"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// VisibleTo informa si el evento debe entregarse a un usuario con ese rol.
func (e PipelineEvent) VisibleTo(userID, role string) bool {
	if role == RoleAdmin {
		return true
	}
	if userID == "" {
		return false
	}
	return e.AssignedTo == userID || e.PreviousAssignedTo == userID
}
