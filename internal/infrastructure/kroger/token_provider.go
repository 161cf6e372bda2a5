package kroger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

const (
	// expirySkew margen antes del vencimiento a partir del cual se renueva el token.
	expirySkew = 60 * time.Second
	// defaultTokenTTL vigencia asumida si el servidor no envía expires_in.
	defaultTokenTTL = 30 * time.Minute
	// defaultTokenTimeout límite de cada intercambio si no se configura otro.
	defaultTokenTimeout = 30 * time.Second
)

// TokenProviderConfig credenciales OAuth2 client-credentials.
type TokenProviderConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scope        string
	Timeout      time.Duration    // 0 = 30s; se ignora si HTTPClient no es nil
	HTTPClient   *http.Client     // nil = cliente con Timeout
	Cache        ports.TokenCache // nil = solo caché en memoria
	Now          func() time.Time // nil = time.Now
}

// TokenProvider obtiene y cachea el bearer token. Seguro para uso concurrente:
// el caché está protegido por mutex y los refrescos concurrentes se colapsan en uno.
type TokenProvider struct {
	oauth      clientcredentials.Config
	httpClient *http.Client
	cache      ports.TokenCache
	cacheKey   string
	now        func() time.Time
	log        *logger.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	rejected  string // último token invalidado tras un 401

	group singleflight.Group
}

// NewTokenProvider construye el proveedor. No hace I/O.
func NewTokenProvider(cfg TokenProviderConfig, log *logger.Logger) *TokenProvider {
	var scopes []string
	if cfg.Scope != "" {
		scopes = []string{cfg.Scope}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTokenTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &TokenProvider{
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: withRawBasicAuth(httpClient, cfg.ClientID, cfg.ClientSecret),
		cache:      cfg.Cache,
		cacheKey:   "kroger:token:" + cfg.ClientID,
		now:        now,
		log:        log.Component("kroger.token"),
	}
}

// GetValid devuelve el token en caché si le quedan más de 60s; si no, lo renueva.
func (p *TokenProvider) GetValid(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.validLocked() {
		tok := p.token
		p.mu.Unlock()
		return tok, nil
	}
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// Invalidate descarta el token si sigue siendo el indicado (tras un 401).
func (p *TokenProvider) Invalidate(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejected = token
	if p.token == token {
		p.token = ""
		p.expiresAt = time.Time{}
	}
}

// Refresh fuerza la obtención de un token nuevo. Llamadas concurrentes comparten un único intercambio.
func (p *TokenProvider) Refresh(ctx context.Context) (string, error) {
	v, err, _ := p.group.Do("token", func() (any, error) {
		p.mu.Lock()
		if p.validLocked() {
			tok := p.token
			p.mu.Unlock()
			return tok, nil
		}
		rejected := p.rejected
		p.mu.Unlock()

		if tok, exp, ok := p.fromSharedCache(ctx, rejected); ok {
			p.store(tok, exp)
			return tok, nil
		}
		return p.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *TokenProvider) validLocked() bool {
	return p.token != "" && p.now().Add(expirySkew).Before(p.expiresAt)
}

func (p *TokenProvider) store(token string, expiresAt time.Time) {
	p.mu.Lock()
	p.token = token
	p.expiresAt = expiresAt
	p.mu.Unlock()
}

func (p *TokenProvider) exchange(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.oauth.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", fmt.Errorf("%w: status %d", domain.ErrTokenExchange, re.Response.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: respuesta sin access_token", domain.ErrTokenExchange)
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = p.now().Add(defaultTokenTTL)
	}
	p.store(tok.AccessToken, expiresAt)
	p.log.Info().Time("expires_at", expiresAt).Msg("token OAuth renovado")

	if p.cache != nil {
		if err := p.cache.Set(ctx, p.cacheKey, tok.AccessToken, expiresAt); err != nil {
			p.log.Warn().Err(err).Msg("no se pudo publicar el token en la caché compartida")
		}
	}
	return tok.AccessToken, nil
}

func (p *TokenProvider) fromSharedCache(ctx context.Context, rejected string) (string, time.Time, bool) {
	if p.cache == nil {
		return "", time.Time{}, false
	}
	tok, exp, ok, err := p.cache.Get(ctx, p.cacheKey)
	if err != nil {
		p.log.Warn().Err(err).Msg("caché compartida de tokens no disponible")
		return "", time.Time{}, false
	}
	if !ok || tok == "" || tok == rejected || !p.now().Add(expirySkew).Before(exp) {
		return "", time.Time{}, false
	}
	return tok, exp, true
}

// basicAuthTransport reescribe la cabecera Authorization como base64(id:secret) sin
// escapar. oauth2.AuthStyleInHeader aplica url.QueryEscape a ambos valores antes de
// codificarlos y el servidor de tokens espera las credenciales tal cual.
type basicAuthTransport struct {
	id, secret string
	base       http.RoundTripper
}

func (t basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.id, t.secret)
	return t.base.RoundTrip(r)
}

func withRawBasicAuth(c *http.Client, id, secret string) *http.Client {
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *c
	wrapped.Transport = basicAuthTransport{id: id, secret: secret, base: base}
	return &wrapped
}
