package entity

import "time"

// Tipos de interacción.
const (
	InteractionNote        = "note"
	InteractionCall        = "call"
	InteractionEmail       = "email"
	InteractionMeeting     = "meeting"
	InteractionStageChange = "stage_change"
)

// Claves de metadata de un stage_change.
const (
	MetaPreviousStage = "previous_stage"
	MetaNewStage      = "new_stage"
)

// Interaction entrada del historial de un Business.
type Interaction struct {
	ID          string
	BusinessID  string
	UserID      string
	UserName    string
	Type        string
	Title       string
	Description string
	Metadata    map[string]string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// ManualInteractionType informa si t puede registrarse a mano
// (stage_change solo lo genera el sistema).
func ManualInteractionType(t string) bool {
	switch t {
	case InteractionNote, InteractionCall, InteractionEmail, InteractionMeeting:
		return true
	}
	return false
}
