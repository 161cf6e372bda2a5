package ports

import (
	"context"
	"time"
)

// TokenCache caché compartida del bearer token entre invocaciones paralelas (shards).
// Un adaptador que no encuentra la llave devuelve ok=false sin error.
type TokenCache interface {
	Get(ctx context.Context, key string) (token string, expiresAt time.Time, ok bool, err error)
	Set(ctx context.Context, key, token string, expiresAt time.Time) error
}
