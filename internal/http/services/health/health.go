// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

const (
	StatusReady       = "ready"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

type Service interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps: DBCheck es crítico; CacheCheck no (el dashboard funciona sin cache).
type Deps struct {
	DBCheck    func(ctx context.Context) error
	CacheCheck func(ctx context.Context) error
	Issuer     *jwtx.Issuer
	Timeout    time.Duration
}

type service struct {
	deps Deps
}

func New(d Deps) Service {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &service{deps: d}
}

func (s *service) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("health"), logger.Op("Check"))

	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	resp := dto.HealthResponse{Status: StatusReady, Checks: map[string]string{}}

	// 1) DB (crítico)
	if s.deps.DBCheck == nil {
		resp.Checks["db"] = "error: not initialized"
		resp.Status = StatusUnavailable
	} else if err := s.deps.DBCheck(ctx); err != nil {
		resp.Checks["db"] = fmt.Sprintf("error: %v", err)
		resp.Status = StatusUnavailable
		log.Error("db unavailable", logger.Err(err))
	} else {
		resp.Checks["db"] = "ok"
	}

	// 2) Cache
	if s.deps.CacheCheck == nil {
		resp.Checks["cache"] = "disabled"
	} else if err := s.deps.CacheCheck(ctx); err != nil {
		resp.Checks["cache"] = fmt.Sprintf("error: %v", err)
		s.degrade(&resp)
		log.Warn("cache unavailable", logger.Err(err))
	} else {
		resp.Checks["cache"] = "ok"
	}

	// 3) Firma de tokens
	if s.deps.Issuer == nil {
		resp.Checks["jwt"] = "error: issuer not initialized"
		resp.Status = StatusUnavailable
	} else if err := s.selfcheck(); err != nil {
		resp.Checks["jwt"] = err.Error()
		resp.Status = StatusUnavailable
		log.Error("jwt selfcheck failed", logger.Err(err))
	} else {
		resp.Checks["jwt"] = "ok"
	}
	return resp
}

func (s *service) degrade(resp *dto.HealthResponse) {
	if resp.Status == StatusReady {
		resp.Status = StatusDegraded
	}
}

func (s *service) selfcheck() error {
	tok, _, err := s.deps.Issuer.IssueAccess("selfcheck", "admin", "")
	if err != nil {
		return fmt.Errorf("sign failed: %w", err)
	}
	claims, err := s.deps.Issuer.Parse(tok)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	if claims.Subject != "selfcheck" {
		return fmt.Errorf("verify failed: unexpected subject %q", claims.Subject)
	}
	return nil
}
