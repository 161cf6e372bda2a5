// Package fred consulta series de precios del St. Louis Fed (FRED), p.ej. APU0000708111:
// precio promedio de la docena de huevos grado A grandes en ciudades de EE.UU.
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/httpx"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

// missingValue marca de FRED para observaciones sin dato.
const missingValue = "."

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Config parámetros del cliente.
type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	RequestDelay time.Duration
	MaxAttempts  int
	Sleep        httpx.Sleeper
}

// Client adaptador de la API de FRED.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pacer      *rate.Limiter
	retry      httpx.RetryPolicy
	now        func() time.Time
}

var _ ports.BenchmarkSource = (*Client)(nil)

// NewClient construye el cliente.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	l := log.Component("fred")
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		pacer:      httpx.NewPacer(cfg.RequestDelay),
		retry: httpx.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Sleep:       cfg.Sleep,
			OnRetry: func(attempt int, wait time.Duration) {
				l.Warn().Int("attempt", attempt).Dur("wait", wait).Msg("429 de FRED, reintentando")
			},
		},
		now: time.Now,
	}
}

// FetchObservations descarga la serie desde start (cero = completa). Los valores "." se omiten.
func (c *Client) FetchObservations(ctx context.Context, seriesID string, start time.Time) ([]entity.BenchmarkObservation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	if !start.IsZero() {
		params.Set("observation_start", start.Format("2006-01-02"))
	}
	reqURL := c.baseURL + "/series/observations?" + params.Encode()

	resp, err := c.retry.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("FRED: crear petición: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("FRED: llamada HTTP: %w", err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("FRED: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("FRED: %w: status %d: %s", domain.ErrProviderStatus, resp.StatusCode, httpx.Snippet(body))
	}

	var parsed observationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("FRED: decodificar respuesta: %w", err)
	}

	fetchedAt := c.now().UTC()
	out := make([]entity.BenchmarkObservation, 0, len(parsed.Observations))
	for _, o := range parsed.Observations {
		if strings.TrimSpace(o.Value) == missingValue {
			continue
		}
		date, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			return nil, fmt.Errorf("FRED: fecha inválida %q: %w", o.Date, err)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(o.Value))
		if err != nil {
			return nil, fmt.Errorf("FRED: valor inválido %q en %s: %w", o.Value, o.Date, err)
		}
		out = append(out, entity.BenchmarkObservation{
			SeriesID:        seriesID,
			ObservationDate: date,
			Value:           value,
			FetchedAt:       fetchedAt,
		})
	}
	return out, nil
}
