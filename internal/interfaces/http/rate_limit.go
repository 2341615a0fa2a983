package http

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
)

// IPLimiter token-bucket por IP para el login. Las entradas inactivas se limpian
// con StartJanitor.
type IPLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter crea el limitador con rps tokens por segundo y ráfaga burst.
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	return &IPLimiter{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

// Allow consume un token de la IP.
func (l *IPLimiter) Allow(ip string) bool {
	ok, _ := l.Take(ip)
	return ok
}

// Take consume un token de la IP. Si no hay, devuelve cuánto falta para el próximo.
func (l *IPLimiter) Take(ip string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	ent, ok := l.entries[ip]
	if !ok {
		ent = &limiterEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.entries[ip] = ent
	}
	ent.lastSeen = now
	l.mu.Unlock()

	r := ent.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

// Cleanup borra las IPs sin actividad desde hace idleTTL.
func (l *IPLimiter) Cleanup() {
	cutoff := time.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor limpia periódicamente hasta que ctx se cancele.
func (l *IPLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// Middleware responde 429 RATE_LIMITED cuando la IP agotó sus tokens.
func (l *IPLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, wait := l.Take(c.IP()); !ok {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds(wait))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados intentos, espere un momento"})
		}
		return c.Next()
	}
}

// retryAfterSeconds redondea hacia arriba a segundos enteros, mínimo 1.
func retryAfterSeconds(d time.Duration) string {
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
