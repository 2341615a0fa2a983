// Package events reparte los eventos del pipeline a las conexiones SSE abiertas.
// RedisBroker sirve para varias instancias de la API; MemoryBroker para un solo proceso.
package events

import (
	"context"
	"sync"

	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

// SubscriberBuffer eventos que puede acumular un suscriptor lento antes de perder eventos.
const SubscriberBuffer = 64

var (
	_ pipeline.EventPublisher  = (*MemoryBroker)(nil)
	_ pipeline.EventSubscriber = (*MemoryBroker)(nil)
)

// MemoryBroker fan-out en proceso.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[chan entity.PipelineEvent]struct{}
	closed bool
	log    *logger.Logger
}

// NewMemoryBroker construye el broker.
func NewMemoryBroker(log *logger.Logger) *MemoryBroker {
	if log == nil {
		log = logger.Nop()
	}
	return &MemoryBroker{subs: map[chan entity.PipelineEvent]struct{}{}, log: log}
}

// Publish entrega ev a cada suscriptor sin bloquear: si su buffer está lleno, se descarta.
func (b *MemoryBroker) Publish(_ context.Context, ev entity.PipelineEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn().Str("event", ev.Type).Msg("suscriptor lento, evento descartado")
		}
	}
	return nil
}

// Subscribe devuelve un canal que se cierra cuando ctx termina o el broker se cierra.
func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan entity.PipelineEvent, error) {
	ch := make(chan entity.PipelineEvent, SubscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(ch)
	}()
	return ch, nil
}

// Subscribers cantidad de suscripciones abiertas.
func (b *MemoryBroker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close cierra todas las suscripciones.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

func (b *MemoryBroker) remove(ch chan entity.PipelineEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}
