// Package cache provee un cache clave/valor con dos backends:
// memoria (go-cache, un solo proceso) y Redis (compartido entre réplicas).
//
// Se usa para los códigos OTP y para el dashboard de cada residencia.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// Client define las operaciones de cache.
type Client interface {
	// Get retorna ErrNotFound si la key no existe.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda un valor. ttl 0 usa el TTL por defecto del backend.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// CompareAndSet reemplaza el valor sólo si sigue siendo old. Atómico.
	CompareAndSet(ctx context.Context, key string, old, value []byte, ttl time.Duration) (bool, error)

	// CompareAndDelete borra la key sólo si su valor sigue siendo old. Atómico.
	CompareAndDelete(ctx context.Context, key string, old []byte) (bool, error)

	Ping(ctx context.Context) error
	Close() error

	// Driver retorna "memory" o "redis".
	Driver() string
}

// Config configuración para crear un cliente.
type Config struct {
	Kind       string // "memory" | "redis"
	Addr       string
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration
}

// New crea un cliente según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

// GetJSON lee y decodifica un valor JSON.
func GetJSON[T any](ctx context.Context, c Client, key string) (T, error) {
	var out T
	b, err := c.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return out, nil
}

// SetJSON codifica y guarda un valor JSON.
func SetJSON(ctx context.Context, c Client, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.Set(ctx, key, b, ttl)
}
