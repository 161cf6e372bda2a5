// Package redis implementa la caché compartida de tokens OAuth sobre Redis, para que
// varias invocaciones del scraper (shards START_AT/END_AT) reutilicen un mismo bearer token.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
)

var _ ports.TokenCache = (*TokenCache)(nil)

type cachedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenCache adaptador de ports.TokenCache.
type TokenCache struct {
	client *goredis.Client
	now    func() time.Time
}

// Connect abre el cliente desde una URL redis:// o rediss:// y verifica la conexión.
func Connect(ctx context.Context, redisURL string) (*TokenCache, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: REDIS_URL inválida: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewTokenCache(client), nil
}

// NewTokenCache envuelve un cliente existente.
func NewTokenCache(client *goredis.Client) *TokenCache {
	return &TokenCache{client: client, now: time.Now}
}

// Close cierra el cliente.
func (c *TokenCache) Close() error { return c.client.Close() }

func (c *TokenCache) Get(ctx context.Context, key string) (string, time.Time, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	var ct cachedToken
	if err := json.Unmarshal(raw, &ct); err != nil {
		return "", time.Time{}, false, fmt.Errorf("redis: decodificar %s: %w", key, err)
	}
	return ct.Token, ct.ExpiresAt, ct.Token != "", nil
}

// Set guarda el token con TTL hasta su vencimiento. Un token ya vencido no se guarda.
func (c *TokenCache) Set(ctx context.Context, key, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(cachedToken{Token: token, ExpiresAt: expiresAt.UTC()})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
