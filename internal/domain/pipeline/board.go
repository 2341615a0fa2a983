package pipeline

import (
	"sort"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// Column columna del tablero con sus tarjetas.
type Column struct {
	Stage entity.PipelineStage
	Cards []entity.BusinessCard
}

// Board tablero agrupado. Orphans son negocios cuya etapa está inactiva o ya
// no existe: no se pierden, se muestran aparte.
type Board struct {
	Columns []Column
	Orphans []entity.BusinessCard
}

// Total número de tarjetas del tablero, huérfanas incluidas.
func (b Board) Total() int {
	n := len(b.Orphans)
	for _, c := range b.Columns {
		n += len(c.Cards)
	}
	return n
}

// BuildBoard agrupa las tarjetas por etapa activa. Dentro de cada columna las
// tarjetas quedan por updated_at desc.
func BuildBoard(stages []entity.PipelineStage, cards []entity.BusinessCard) Board {
	active := ActiveStages(stages)
	board := Board{Columns: make([]Column, len(active))}
	idx := make(map[string]int, len(active))
	for i, s := range active {
		board.Columns[i] = Column{Stage: s, Cards: []entity.BusinessCard{}}
		idx[s.ID] = i
	}

	sorted := make([]entity.BusinessCard, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	for _, card := range sorted {
		i, ok := idx[card.StageID]
		if !ok {
			board.Orphans = append(board.Orphans, card)
			continue
		}
		board.Columns[i].Cards = append(board.Columns[i].Cards, card)
	}
	return board
}
