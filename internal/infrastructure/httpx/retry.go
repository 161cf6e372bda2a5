// Package httpx reúne utilidades HTTP compartidas por los clientes de proveedores externos
// (Kroger, FRED): ritmo de peticiones, reintentos ante 429 y lectura acotada de cuerpos.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
)

const (
	// MaxBodyBytes límite de lectura de respuestas de proveedores.
	MaxBodyBytes = 8 << 20
	maxBackoff   = 30 * time.Second
)

// Sleeper pausa respetando la cancelación del contexto. Inyectable en tests.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext implementación real de Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewPacer limitador de una petición por intervalo, ráfaga 1. delay <= 0 desactiva el ritmo.
func NewPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Backoff espera exponencial para el intento n (1s, 2s, 4s, ...), con tope de 30s.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		return maxBackoff
	}
	d := time.Second << (attempt - 1)
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// RetryAfter interpreta la cabecera Retry-After: segundos enteros o fecha HTTP.
// ok=false si está vacía o no se puede interpretar.
func RetryAfter(header string, now time.Time) (time.Duration, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	at, err := http.ParseTime(header)
	if err != nil {
		return 0, false
	}
	d := at.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}

// ── Reintentos ante 429 ───────────────────────────────────────────────────────

// RetryPolicy reintenta peticiones que responden 429 Too Many Requests.
type RetryPolicy struct {
	MaxAttempts int     // intentos totales, incluido el primero
	Sleep       Sleeper // nil = SleepContext
	Now         func() time.Time
	// OnRetry se invoca antes de cada espera (opcional; para logging).
	OnRetry func(attempt int, wait time.Duration)
}

// Do ejecuta send hasta obtener una respuesta distinta de 429. La respuesta devuelta
// conserva el cuerpo abierto; el llamador debe cerrarlo. Si se agotan los intentos
// devuelve un error que envuelve domain.ErrRateLimited.
func (p RetryPolicy) Do(ctx context.Context, send func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	for attempt := 1; ; attempt++ {
		resp, err := send(ctx)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		wait, ok := RetryAfter(resp.Header.Get("Retry-After"), now())
		Drain(resp)
		if attempt >= attempts {
			return nil, fmt.Errorf("%w: %d intentos", domain.ErrRateLimited, attempt)
		}
		if !ok {
			wait = Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// Drain descarta y cierra el cuerpo para reutilizar la conexión.
func Drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
	_ = resp.Body.Close()
}

// ReadBody lee el cuerpo (acotado a MaxBodyBytes) y lo cierra.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
}

// Snippet primeros bytes de un cuerpo para mensajes de error.
func Snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
