package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

var (
	_ pipeline.EventPublisher  = (*RedisBroker)(nil)
	_ pipeline.EventSubscriber = (*RedisBroker)(nil)
)

// RedisBroker publica los eventos en un canal Pub/Sub de Redis; cada instancia de la API
// se suscribe y los reenvía a sus clientes SSE.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisBroker construye el broker sobre un cliente ya conectado.
func NewRedisBroker(rdb *redis.Client, channel string, log *logger.Logger) *RedisBroker {
	if log == nil {
		log = logger.Nop()
	}
	if channel == "" {
		channel = "crm:pipeline:events"
	}
	return &RedisBroker{rdb: rdb, channel: channel, log: log}
}

func (b *RedisBroker) Publish(ctx context.Context, ev entity.PipelineEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: serializar: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("events: publicar en redis: %w", err)
	}
	return nil
}

// Subscribe abre una suscripción propia; se cierra cuando ctx termina.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan entity.PipelineEvent, error) {
	ps := b.rdb.Subscribe(ctx, b.channel)
	// Esperar la confirmación para no perder eventos publicados justo después.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("events: suscribir a redis: %w", err)
	}

	out := make(chan entity.PipelineEvent, SubscriberBuffer)
	go func() {
		defer close(out)
		defer func() { _ = ps.Close() }()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev entity.PipelineEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("evento inválido en redis")
					continue
				}
				select {
				case out <- ev:
				default:
					b.log.Warn().Str("event", ev.Type).Msg("suscriptor lento, evento descartado")
				}
			}
		}
	}()
	return out, nil
}

// Ping verifica la conexión (health check y arranque).
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Close cierra el cliente de Redis.
func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
