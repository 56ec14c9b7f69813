// Package app arma la aplicación completa a partir de la configuración:
// store, cache, mailer, storage, services, controllers y router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/config"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/controllers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	"github.com/dropDatabas3/syndik/internal/http/router"
	"github.com/dropDatabas3/syndik/internal/http/services"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/rate"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/storage"
	"github.com/dropDatabas3/syndik/internal/store"

	// drivers de store
	_ "github.com/dropDatabas3/syndik/internal/store/memory"
	_ "github.com/dropDatabas3/syndik/internal/store/pg"
)

// App es la aplicación cableada.
type App struct {
	Config  *config.Config
	Store   store.Store
	Cache   cache.Client
	Metrics *metrics.Metrics
	Handler http.Handler

	closers []func() error
}

// OpenStore abre el store configurado (también lo usan migrate y bootstrap-admin).
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	return store.Open(ctx, store.Config{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MinConns:     cfg.Storage.MinConns,
	})
}

// New construye la app. Ante error cierra lo que ya abrió.
func New(ctx context.Context, cfg *config.Config, version string) (_ *App, err error) {
	log := logger.From(ctx).With(logger.Component("app"))
	a := &App{Config: cfg, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// 1) Store
	a.Store, err = OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.Store.Close)
	if m, ok := a.Store.(store.Migratable); ok && cfg.Storage.MigrateOnStart {
		applied, err := m.Migrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied", logger.Count(len(applied)))
	}
	if p, ok := a.Store.(interface{ Pool() *pgxpool.Pool }); ok {
		if err := a.Metrics.RegisterPool(p.Pool()); err != nil {
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
	}

	// 2) Cache + rate limiter
	a.Cache, err = cache.New(ctx, cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.Cache.DefaultTTL,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.Cache.Close)

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if rc, ok := a.Cache.(*cache.Redis); ok {
			limiter = rate.NewRedisLimiter(rc.Underlying(), cfg.Cache.Redis.Prefix+"rl:")
		} else {
			limiter = rate.NewMemoryLimiter()
		}
	}

	// 3) Email
	sender, err := newSender(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mailer := email.NewService(sender, email.NewRenderer(), cfg.Billing.Currency)
	mailer.OnFailure(func(tpl string) { a.Metrics.EmailsFailed.WithLabelValues(tpl).Inc() })

	// 4) Archivos
	files, err := storage.New(ctx, storage.Config{
		Driver:    cfg.Files.Driver,
		Bucket:    cfg.Files.Bucket,
		Region:    cfg.Files.Region,
		Endpoint:  cfg.Files.Endpoint,
		AccessKey: cfg.Files.AccessKey,
		SecretKey: cfg.Files.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	// 5) Services -> controllers -> router
	issuer := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.JWT.AccessTTL)
	svcs := services.New(services.Deps{
		Store:   a.Store,
		Cache:   a.Cache,
		Issuer:  issuer,
		Mailer:  mailer,
		Files:   files,
		Metrics: a.Metrics,
		BaseURL: cfg.App.BaseURL,
		Hasher:  password.NewHasher(cfg.Security.BcryptCost),
		Policy: password.Policy{
			MinLength:     cfg.Security.PasswordMinLength,
			RequireDigit:  cfg.Security.RequireDigit,
			RequireLetter: cfg.Security.RequireLetter,
		},
		OTPLength:      cfg.OTP.Length,
		OTPTTL:         cfg.OTP.TTL,
		OTPMaxAttempts: cfg.OTP.MaxAttempts,
		DashboardTTL:   cfg.Cache.DashboardTTL,
		PresignTTL:     cfg.Files.PresignTTL,
	})

	a.Handler = router.New(router.Deps{
		Controllers: controllers.New(svcs, version),
		Issuer:      issuer,
		Resolver:    svcs.Access,
		Roles:       svcs.Roles,
		Metrics:     a.Metrics,
		Limiter:     limiter,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Tracing:     cfg.Tracing.Enabled,
		GlobalRate:  mw.RateRule{Limit: cfg.Rate.MaxRequests, Window: cfg.Rate.Window},
		LoginRate:   mw.RateRule{Limit: cfg.Rate.Login.Limit, Window: cfg.Rate.Login.Window},
		OTPRate:     mw.RateRule{Limit: cfg.Rate.OTP.Limit, Window: cfg.Rate.OTP.Window},
	})

	log.Info("app ready",
		logger.String("store", a.Store.Driver()),
		logger.String("cache", a.Cache.Driver()),
		logger.String("email", sender.Name()),
		logger.String("files", files.Driver()),
		logger.Bool("rate_limit", limiter != nil))
	return a, nil
}

func newSender(ctx context.Context, cfg *config.Config) (email.Sender, error) {
	switch cfg.Email.Driver {
	case "smtp":
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Email.SMTP.Host,
			Port:     cfg.Email.SMTP.Port,
			Username: cfg.Email.SMTP.Username,
			Password: cfg.Email.SMTP.Password,
			From:     cfg.Email.From,
			TLSMode:  cfg.Email.SMTP.TLSMode,
		}), nil
	case "ses":
		return email.NewSESSender(ctx, cfg.Email.SES.Region, cfg.Email.From)
	case "noop", "":
		return email.NoopSender{}, nil
	}
	return nil, fmt.Errorf("email: unknown driver %q", cfg.Email.Driver)
}

// Server arma el http.Server con los timeouts configurados.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              a.Config.Server.Addr,
		Handler:           a.Handler,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// Close libera recursos en orden inverso.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
