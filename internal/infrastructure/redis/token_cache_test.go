package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/redis"
)

func TestConnect_URLInvalida(t *testing.T) {
	_, err := redis.Connect(context.Background(), "http://localhost:6379")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

// Un token vencido no genera tráfico hacia Redis.
func TestSet_TokenVencidoNoSeGuarda(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	cache := redis.NewTokenCache(client)
	assert.NoError(t, cache.Set(context.Background(), "kroger:token:id", "tok", time.Now().Add(-time.Minute)))
}

func TestGet_ServidorNoDisponible(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	_, _, ok, err := redis.NewTokenCache(client).Get(context.Background(), "kroger:token:id")
	assert.Error(t, err)
	assert.False(t, ok)
}
