// Package auth contiene registro, login con password y códigos OTP.
package auth

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/email"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/store"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Store   store.Store
	Issuer  *jwtx.Issuer
	Cache   cache.Client
	Mailer  email.Mailer
	Hasher  password.Hasher
	Policy  password.Policy
	Metrics *metrics.Metrics // nil = sin métricas

	OTPLength      int
	OTPTTL         time.Duration
	OTPMaxAttempts int

	Now func() time.Time
}

// Services agrupa los services del dominio auth.
type Services struct {
	Auth AuthService
	OTP  OTPService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.OTPLength <= 0 {
		d.OTPLength = 6
	}
	if d.OTPTTL <= 0 {
		d.OTPTTL = 10 * time.Minute
	}
	if d.OTPMaxAttempts <= 0 {
		d.OTPMaxAttempts = 5
	}
	otp := NewOTPService(d)
	return Services{
		Auth: NewAuthService(d, otp),
		OTP:  otp,
	}
}
