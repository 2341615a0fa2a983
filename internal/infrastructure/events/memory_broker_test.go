package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/infrastructure/events"
)

func receive(t *testing.T, ch <-chan entity.PipelineEvent) entity.PipelineEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout esperando evento")
		return entity.PipelineEvent{}
	}
}

func TestMemoryBroker_FanOut(t *testing.T) {
	b := events.NewMemoryBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := b.Subscribe(ctx)
	require.NoError(t, err)
	c, err := b.Subscribe(ctx)
	require.NoError(t, err)

	ev := entity.PipelineEvent{Type: entity.EventBusinessStageChanged, BusinessID: "b1", StageID: "poc"}
	require.NoError(t, b.Publish(context.Background(), ev))

	assert.Equal(t, ev, receive(t, a))
	assert.Equal(t, ev, receive(t, c))
}

func TestMemoryBroker_CancelarCierraCanal(t *testing.T) {
	b := events.NewMemoryBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	require.Eventually(t, func() bool { return b.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestMemoryBroker_SuscriptorLentoNoBloquea(t *testing.T) {
	b := events.NewMemoryBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := b.Subscribe(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < events.SubscriberBuffer*2; i++ {
			_ = b.Publish(context.Background(), entity.PipelineEvent{Type: entity.EventBusinessUpdated})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish se bloqueó con un suscriptor que no lee")
	}
}

func TestMemoryBroker_Close(t *testing.T) {
	b := events.NewMemoryBroker(nil)
	ch, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Close())
	_, ok := <-ch
	assert.False(t, ok)
	assert.NoError(t, b.Publish(context.Background(), entity.PipelineEvent{}), "publicar tras cerrar no falla")

	late, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	_, ok = <-late
	assert.False(t, ok)
}
