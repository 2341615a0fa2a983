package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineEventVisibleTo(t *testing.T) {
	ev := PipelineEvent{Type: EventBusinessUpdated, BusinessID: "b1", AssignedTo: "nuevo", PreviousAssignedTo: "anterior"}

	assert.True(t, ev.VisibleTo("nuevo", RoleVendedor))
	assert.True(t, ev.VisibleTo("anterior", RoleVendedor))
	assert.True(t, ev.VisibleTo("cualquiera", RoleAdmin))
	assert.False(t, ev.VisibleTo("otro", RoleVendedor))

	sinAnterior := PipelineEvent{Type: EventBusinessCreated, BusinessID: "b2", AssignedTo: "nuevo"}
	assert.False(t, sinAnterior.VisibleTo("", RoleVendedor))
}
