package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

// DefaultHeartbeat intervalo del comentario keep-alive del stream.
const DefaultHeartbeat = 15 * time.Second

// EventsHandler stream Server-Sent Events con los cambios del tablero.
type EventsHandler struct {
	sub       pipeline.EventSubscriber
	log       *logger.Logger
	heartbeat time.Duration
}

// NewEventsHandler construye el handler. heartbeat <= 0 usa DefaultHeartbeat.
func NewEventsHandler(sub pipeline.EventSubscriber, log *logger.Logger, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EventsHandler{sub: sub, log: log.Named("sse"), heartbeat: heartbeat}
}

// Stream godoc
// @Summary      Eventos del pipeline en tiempo real (SSE)
// @Description  El vendedor solo recibe eventos de negocios asignados a él.
// @Tags         pipeline
// @Produce      text/event-stream
// @Success      200
// @Security     BearerAuth
// @Router       /api/pipeline/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	actor := GetActor(c)

	// El contexto de fasthttp no se cancela cuando el cliente se va; la
	// desconexión se detecta al fallar el Flush.
	ctx, cancel := context.WithCancel(context.Background())
	events, err := h.sub.Subscribe(ctx)
	if err != nil {
		cancel()
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log
	heartbeat := h.heartbeat
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		log.Debug().Str("user_id", actor.UserID).Msg("suscriptor conectado")
		defer log.Debug().Str("user_id", actor.UserID).Msg("suscriptor desconectado")

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		fmt.Fprint(w, ": conectado\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !ev.VisibleTo(actor.UserID, actor.Role) {
					continue
				}
				data, err := json.Marshal(ev)
				if err != nil {
					log.Warn().Err(err).Msg("evento no serializable")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
