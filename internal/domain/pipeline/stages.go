// Package pipeline contiene las reglas del tablero de ventas: orden de etapas,
// agrupación de tarjetas y el cambio de etapa de un negocio.
package pipeline

import (
	"sort"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// ActiveStages devuelve las etapas activas ordenadas por position (y por ID en empate).
func ActiveStages(all []entity.PipelineStage) []entity.PipelineStage {
	out := make([]entity.PipelineStage, 0, len(all))
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FirstActive devuelve la primera etapa activa del tablero.
func FirstActive(all []entity.PipelineStage) (entity.PipelineStage, bool) {
	active := ActiveStages(all)
	if len(active) == 0 {
		return entity.PipelineStage{}, false
	}
	return active[0], true
}

// FindActive busca una etapa activa por ID.
func FindActive(all []entity.PipelineStage, id string) (entity.PipelineStage, bool) {
	s, ok := Find(all, id)
	if !ok || !s.Active {
		return entity.PipelineStage{}, false
	}
	return s, true
}

// Find busca una etapa por ID, esté activa o no.
func Find(all []entity.PipelineStage, id string) (entity.PipelineStage, bool) {
	for _, s := range all {
		if s.ID == id {
			return s, true
		}
	}
	return entity.PipelineStage{}, false
}

// StageName nombre visible de la etapa; el ID si ya no existe.
func StageName(all []entity.PipelineStage, id string) string {
	if s, ok := Find(all, id); ok {
		return s.Name
	}
	return id
}

// KindIndex mapea ID de etapa -> kind.
func KindIndex(all []entity.PipelineStage) map[string]string {
	m := make(map[string]string, len(all))
	for _, s := range all {
		m[s.ID] = s.Kind
	}
	return m
}
