// Package kroger implementa el adaptador hacia la Kroger Public API: intercambio de
// credenciales OAuth2 (client credentials) y búsqueda paginada de productos por tienda.
package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/httpx"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

// Tokens fuente de bearer tokens usada por el cliente.
type Tokens interface {
	GetValid(ctx context.Context) (string, error)
	Invalidate(token string)
}

// ClientConfig parámetros del cliente de productos.
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration // por petición; 0 = 30s
	RequestDelay time.Duration // ritmo entre peticiones
	MaxAttempts  int           // intentos ante 429
	HTTPClient   *http.Client  // nil = cliente propio con Timeout
	Sleep        httpx.Sleeper // nil = espera real
}

// Client adaptador de la Product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     Tokens
	pacer      *rate.Limiter
	retry      httpx.RetryPolicy
	log        *logger.Logger
}

var _ ports.ProductSearcher = (*Client)(nil)

// NewClient construye el cliente.
func NewClient(cfg ClientConfig, tokens Tokens, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	l := log.Component("kroger")
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		pacer:      httpx.NewPacer(cfg.RequestDelay),
		retry: httpx.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Sleep:       cfg.Sleep,
			OnRetry: func(attempt int, wait time.Duration) {
				l.Warn().Int("attempt", attempt).Dur("wait", wait).Msg("429 del proveedor, reintentando")
			},
		},
		log: l,
	}
}

// SearchProducts consulta una página de productos.
//
//   - 401: invalida el token, obtiene uno nuevo y reintenta una sola vez; un segundo 401
//     devuelve domain.ErrUnauthorized.
//   - 429: espera Retry-After (o exponencial) hasta agotar intentos → domain.ErrRateLimited.
//   - Otro status no exitoso → domain.ErrProviderStatus.
func (c *Client) SearchProducts(ctx context.Context, q ports.ProductQuery) ([]entity.Product, error) {
	reqURL := c.searchURL(q)

	for refreshed := false; ; refreshed = true {
		token, err := c.tokens.GetValid(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := c.retry.Do(ctx, func(ctx context.Context) (*http.Response, error) {
			return c.get(ctx, reqURL, token)
		})
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			httpx.Drain(resp)
			if refreshed {
				return nil, fmt.Errorf("kroger: %w", domain.ErrUnauthorized)
			}
			c.log.Warn().Str("location_id", q.LocationID).Msg("401 del proveedor, renovando token")
			c.tokens.Invalidate(token)
			continue

		case resp.StatusCode < 200 || resp.StatusCode > 299:
			body, _ := httpx.ReadBody(resp)
			return nil, fmt.Errorf("kroger: %w: status %d: %s", domain.ErrProviderStatus, resp.StatusCode, httpx.Snippet(body))
		}

		body, err := httpx.ReadBody(resp)
		if err != nil {
			return nil, fmt.Errorf("kroger: leer respuesta: %w", err)
		}
		var parsed productsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("kroger: decodificar respuesta: %w", err)
		}
		products := make([]entity.Product, 0, len(parsed.Data))
		for _, p := range parsed.Data {
			products = append(products, p.toEntity())
		}
		return products, nil
	}
}

func (c *Client) get(ctx context.Context, reqURL, token string) (*http.Response, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kroger: crear petición: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kroger: llamada HTTP: %w", err)
	}
	return resp, nil
}

func (c *Client) searchURL(q ports.ProductQuery) string {
	params := url.Values{}
	params.Set("filter.locationId", q.LocationID)
	params.Set("filter.term", q.Term)
	params.Set("filter.limit", strconv.Itoa(q.Limit))
	params.Set("filter.start", strconv.Itoa(q.Start))
	if q.InStoreOnly {
		params.Set("filter.fulfillment", "inStore")
	}
	return c.baseURL + "/products?" + params.Encode()
}
