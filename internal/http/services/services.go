// Package services agrupa todos los services HTTP.
// Este es el "composition root" de services:
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	router.New(router.Deps{Controllers: ctrls, ...})
package services

import (
	"context"
	"time"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/http/services/auth"
	"github.com/dropDatabas3/syndik/internal/http/services/complaints"
	"github.com/dropDatabas3/syndik/internal/http/services/dashboard"
	"github.com/dropDatabas3/syndik/internal/http/services/documents"
	"github.com/dropDatabas3/syndik/internal/http/services/expenses"
	"github.com/dropDatabas3/syndik/internal/http/services/fees"
	"github.com/dropDatabas3/syndik/internal/http/services/health"
	"github.com/dropDatabas3/syndik/internal/http/services/incidents"
	"github.com/dropDatabas3/syndik/internal/http/services/payments"
	"github.com/dropDatabas3/syndik/internal/http/services/residences"
	"github.com/dropDatabas3/syndik/internal/http/services/residents"
	"github.com/dropDatabas3/syndik/internal/http/services/users"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/storage"
	"github.com/dropDatabas3/syndik/internal/store"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Store   store.Store
	Cache   cache.Client
	Issuer  *jwtx.Issuer
	Mailer  email.Mailer
	Files   storage.Files
	Metrics *metrics.Metrics

	// ─── Configuración ───
	BaseURL        string
	Hasher         password.Hasher
	Policy         password.Policy
	OTPLength      int
	OTPTTL         time.Duration
	OTPMaxAttempts int
	DashboardTTL   time.Duration
	PresignTTL     time.Duration
	RoleTTL        time.Duration // 0 = access.DefaultRoleTTL

	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Access     access.Resolver
	Roles      access.RoleLookup
	Auth       auth.Services
	Residences residences.Service
	Residents  residents.Service
	Fees       fees.Service
	Payments   payments.Service
	Dashboard  dashboard.Service
	Expenses   expenses.Service
	Incidents  incidents.Service
	Complaints complaints.Service
	Documents  documents.Service
	Users      users.Service
	Health     health.Service
}

// New crea el agregador de services.
func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Files == nil {
		d.Files = storage.Noop{}
	}
	st := d.Store

	var cacheCheck func(ctx context.Context) error
	if d.Cache != nil {
		cacheCheck = d.Cache.Ping
	}

	roles := access.NewRoleLookup(st, d.Cache, d.RoleTTL)

	return &Services{
		Access: access.NewResolver(st),
		Roles:  roles,
		Auth: auth.NewServices(auth.Deps{
			Store:          st,
			Issuer:         d.Issuer,
			Cache:          d.Cache,
			Mailer:         d.Mailer,
			Hasher:         d.Hasher,
			Policy:         d.Policy,
			Metrics:        d.Metrics,
			OTPLength:      d.OTPLength,
			OTPTTL:         d.OTPTTL,
			OTPMaxAttempts: d.OTPMaxAttempts,
			Now:            d.Now,
		}),
		Residences: residences.New(residences.Deps{Store: st, Roles: roles}),
		Residents:  residents.New(residents.Deps{Store: st, Mailer: d.Mailer, BaseURL: d.BaseURL, Now: d.Now}),
		Fees:       fees.New(fees.Deps{Store: st, Now: d.Now}),
		Payments:   payments.New(payments.Deps{Store: st, Mailer: d.Mailer, Metrics: d.Metrics, Now: d.Now}),
		Dashboard: dashboard.New(dashboard.Deps{
			Store:   st,
			Cache:   d.Cache,
			TTL:     d.DashboardTTL,
			Metrics: d.Metrics,
			Now:     d.Now,
		}),
		Expenses:   expenses.New(expenses.Deps{Store: st, Now: d.Now}),
		Incidents:  incidents.New(incidents.Deps{Store: st, Now: d.Now}),
		Complaints: complaints.New(complaints.Deps{Store: st, Now: d.Now}),
		Documents: documents.New(documents.Deps{
			Store:      st,
			Files:      d.Files,
			Mailer:     d.Mailer,
			Metrics:    d.Metrics,
			PresignTTL: d.PresignTTL,
			Roles:      roles,
			Now:        d.Now,
		}),
		Users: users.New(users.Deps{Store: st, Roles: roles}),
		Health: health.New(health.Deps{
			DBCheck:    st.Ping,
			CacheCheck: cacheCheck,
			Issuer:     d.Issuer,
		}),
	}
}
