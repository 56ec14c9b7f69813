package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	tokens "github.com/dropDatabas3/syndik/internal/security/token"
)

// Propósitos de un código OTP.
const (
	PurposeVerifyEmail = "verify_email"
	PurposeLogin       = "login"
)

func validPurpose(p string) bool { return p == PurposeVerifyEmail || p == PurposeLogin }

// OTPService emite y valida códigos de un solo uso guardados en cache.
type OTPService interface {
	// Request genera y envía un código. Un email desconocido no es error.
	Request(ctx context.Context, emailAddr, purpose string) error

	// Consume valida el código y lo invalida. Retorna el perfil dueño del email.
	Consume(ctx context.Context, emailAddr, code, purpose string) (*repository.Profile, error)
}

// challenge es lo que se guarda en cache; nunca el código en claro.
type challenge struct {
	Hash      string    `json:"hash"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

type otpService struct {
	deps Deps
}

func NewOTPService(d Deps) OTPService {
	return &otpService{deps: d}
}

func otpKey(purpose, emailAddr string) string {
	return "otp:" + purpose + ":" + emailAddr
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *otpService) Request(ctx context.Context, emailAddr, purpose string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.otp"), logger.Op("Request"))

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrMissingFields
	}
	if !validPurpose(purpose) {
		return ErrInvalidPurpose
	}

	p, err := s.deps.Store.Profiles().GetByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("otp requested for unknown email", logger.Email(emailAddr))
		return nil
	}
	if err != nil {
		return err
	}
	if purpose == PurposeVerifyEmail && p.EmailVerified {
		return nil
	}
	return s.issue(ctx, p, purpose)
}

// issue genera el código, lo guarda hasheado y lo envía.
func (s *otpService) issue(ctx context.Context, p *repository.Profile, purpose string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.otp"), logger.UserID(p.ID))

	code, err := tokens.NumericCode(s.deps.OTPLength)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	ch := challenge{
		Hash:      tokens.HashCode(purpose+":"+p.Email, code),
		ExpiresAt: s.deps.Now().Add(s.deps.OTPTTL),
	}
	if err := cache.SetJSON(ctx, s.deps.Cache, otpKey(purpose, p.Email), ch, s.deps.OTPTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.deps.Mailer.SendOTP(ctx, email.Recipient{Email: p.Email, Name: p.FullName}, code, purpose, s.deps.OTPTTL); err != nil {
		return err
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.OTPSent.WithLabelValues(purpose).Inc()
	}
	log.Info("otp sent", logger.String("purpose", purpose))
	return nil
}

// consumeRetries reintentos cuando otro request modificó el challenge entre lectura y escritura.
const consumeRetries = 3

// tryConsume hace una ronda de lectura y compare-and-*. done=false indica que el
// challenge cambió en el medio y hay que releerlo.
func (s *otpService) tryConsume(ctx context.Context, key, hash string) (done bool, err error) {
	raw, err := s.deps.Cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return true, ErrInvalidCode
	}
	if err != nil {
		return true, fmt.Errorf("load otp: %w", err)
	}
	var ch challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return true, fmt.Errorf("decode otp: %w", err)
	}

	now := s.deps.Now()
	if !now.Before(ch.ExpiresAt) {
		_, _ = s.deps.Cache.CompareAndDelete(ctx, key, raw)
		return true, ErrInvalidCode
	}

	if tokens.EqualHash(ch.Hash, hash) {
		// sólo quien borra el challenge se queda con el código
		ok, err := s.deps.Cache.CompareAndDelete(ctx, key, raw)
		if err != nil {
			return true, fmt.Errorf("consume otp: %w", err)
		}
		if !ok {
			return false, ErrInvalidCode
		}
		return true, nil
	}

	ch.Attempts++
	if ch.Attempts >= s.deps.OTPMaxAttempts {
		ok, err := s.deps.Cache.CompareAndDelete(ctx, key, raw)
		if err != nil {
			return true, fmt.Errorf("drop otp: %w", err)
		}
		return ok, ErrTooManyAttempts
	}
	next, err := json.Marshal(ch)
	if err != nil {
		return true, fmt.Errorf("encode otp: %w", err)
	}
	ok, err := s.deps.Cache.CompareAndSet(ctx, key, raw, next, ch.ExpiresAt.Sub(now))
	if err != nil {
		return true, fmt.Errorf("store otp attempts: %w", err)
	}
	return ok, ErrInvalidCode
}

func (s *otpService) Consume(ctx context.Context, emailAddr, code, purpose string) (*repository.Profile, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.otp"), logger.Op("Consume"))

	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" || code == "" {
		return nil, ErrMissingFields
	}
	if !validPurpose(purpose) {
		return nil, ErrInvalidPurpose
	}

	key := otpKey(purpose, emailAddr)
	hash := tokens.HashCode(purpose+":"+emailAddr, code)
	var (
		done bool
		err  error
	)
	for i := 0; i < consumeRetries && !done; i++ {
		done, err = s.tryConsume(ctx, key, hash)
	}
	if !done {
		err = ErrInvalidCode
	}
	if err != nil {
		if errors.Is(err, ErrTooManyAttempts) {
			log.Warn("otp attempts exhausted")
		}
		return nil, err
	}

	p, err := s.deps.Store.Profiles().GetByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	return p, err
}
