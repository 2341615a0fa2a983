package entity

// Tipos de etapa: las métricas de ventas usan Kind, no el ID.
const (
	StageKindOpen = "open"
	StageKindWon  = "won"
	StageKindLost = "lost"
)

// PipelineStage columna del tablero. ID es un slug estable ("negociacao").
type PipelineStage struct {
	ID       string
	Name     string
	Color    string
	Position int
	Kind     string
	Active   bool
}

// IsClosed informa si la etapa cierra el negocio (ganado o perdido).
func (s PipelineStage) IsClosed() bool {
	return s.Kind == StageKindWon || s.Kind == StageKindLost
}

// ValidStageKind informa si kind es un tipo conocido.
func ValidStageKind(kind string) bool {
	return kind == StageKindOpen || kind == StageKindWon || kind == StageKindLost
}
