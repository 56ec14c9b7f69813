package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
)

func TestCheck(t *testing.T) {
	issuer := jwtx.NewIssuer("syndik-test", []byte("0123456789abcdef0123456789abcdef"), time.Minute)
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		deps   Deps
		status string
		checks map[string]string
	}{
		{
			name:   "all ok",
			deps:   Deps{DBCheck: ok, CacheCheck: ok, Issuer: issuer},
			status: StatusReady,
			checks: map[string]string{"db": "ok", "cache": "ok", "jwt": "ok"},
		},
		{
			name:   "memory cache",
			deps:   Deps{DBCheck: ok, Issuer: issuer},
			status: StatusReady,
			checks: map[string]string{"db": "ok", "cache": "disabled", "jwt": "ok"},
		},
		{
			name:   "cache down degrades",
			deps:   Deps{DBCheck: ok, CacheCheck: down, Issuer: issuer},
			status: StatusDegraded,
			checks: map[string]string{"db": "ok", "cache": "error: connection refused", "jwt": "ok"},
		},
		{
			name:   "db down",
			deps:   Deps{DBCheck: down, CacheCheck: ok, Issuer: issuer},
			status: StatusUnavailable,
			checks: map[string]string{"db": "error: connection refused", "cache": "ok", "jwt": "ok"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.deps).Check(context.Background())
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.checks, got.Checks)
		})
	}
}
