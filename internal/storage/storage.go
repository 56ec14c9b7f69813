// Package storage accede a los archivos subidos por los usuarios (actas de
// designación de syndic). La subida la hace el cliente directo al bucket;
// acá sólo borramos y generamos URLs firmadas de lectura.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotConfigured = errors.New("storage: not configured")

// Files operaciones sobre archivos guardados.
type Files interface {
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Driver() string
}

// Config de storage.
type Config struct {
	Driver    string // s3 | noop
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// New crea el backend según cfg.Driver.
func New(ctx context.Context, cfg Config) (Files, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cfg)
	case "", "noop":
		return Noop{}, nil
	default:
		return nil, errors.New("storage: unknown driver " + cfg.Driver)
	}
}

// Noop no guarda nada. PresignGet devuelve ErrNotConfigured.
type Noop struct{}

func (Noop) Delete(context.Context, string) error { return nil }

func (Noop) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (Noop) Driver() string { return "noop" }
