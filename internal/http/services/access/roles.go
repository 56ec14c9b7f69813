package access

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

// DefaultRoleTTL cuánto vive el rol cacheado de un perfil.
const DefaultRoleTTL = 30 * time.Second

// RoleLookup devuelve el rol vigente de un perfil. El claim del JWT puede
// estar desactualizado tras un cambio de rol; éste no.
type RoleLookup interface {
	// CurrentRole retorna repository.ErrNotFound si el perfil ya no existe.
	CurrentRole(ctx context.Context, userID string) (repository.Role, error)
	// Forget descarta el rol cacheado; llamar después de cada SetRole.
	Forget(ctx context.Context, userID string)
}

type roleLookup struct {
	repos store.Repositories
	cache cache.Client
	ttl   time.Duration
}

// NewRoleLookup lee de la base y cachea el resultado ttl. c nil = siempre a la base.
func NewRoleLookup(repos store.Repositories, c cache.Client, ttl time.Duration) RoleLookup {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &roleLookup{repos: repos, cache: c, ttl: ttl}
}

func roleKey(userID string) string { return "role:" + userID }

func (l *roleLookup) CurrentRole(ctx context.Context, userID string) (repository.Role, error) {
	if l.cache != nil {
		b, err := l.cache.Get(ctx, roleKey(userID))
		if err == nil {
			if r := repository.Role(b); r.Valid() {
				return r, nil
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			logger.From(ctx).Warn("role cache read failed", logger.UserID(userID), logger.Err(err))
		}
	}

	p, err := l.repos.Profiles().GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if l.cache != nil {
		if err := l.cache.Set(ctx, roleKey(userID), []byte(p.Role), l.ttl); err != nil {
			logger.From(ctx).Warn("role cache write failed", logger.UserID(userID), logger.Err(err))
		}
	}
	return p.Role, nil
}

func (l *roleLookup) Forget(ctx context.Context, userID string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, roleKey(userID)); err != nil {
		logger.From(ctx).Warn("role cache delete failed", logger.UserID(userID), logger.Err(err))
	}
}
