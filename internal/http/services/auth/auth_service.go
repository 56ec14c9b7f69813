package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/security/password"
)

// AuthService define registro, login y perfil propio.
type AuthService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.ProfileResponse, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error)
	VerifyOTP(ctx context.Context, in dto.OTPVerifyRequest) (*dto.OTPVerifyResponse, error)
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error
}

type authService struct {
	deps Deps
	otp  *otpService
}

func NewAuthService(d Deps, otp OTPService) AuthService {
	s := &authService{deps: d}
	if o, ok := otp.(*otpService); ok {
		s.otp = o
	} else {
		s.otp = &otpService{deps: d}
	}
	return s
}

func (s *authService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.ProfileResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Register"))

	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	if reasons := s.deps.Policy.Validate(in.Password); len(reasons) > 0 {
		return nil, &PolicyError{Reasons: reasons}
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.deps.Store.Profiles().Create(ctx, repository.CreateProfileInput{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         repository.RoleResident,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	log = log.With(logger.UserID(p.ID))

	if err := s.otp.issue(ctx, p, PurposeVerifyEmail); err != nil {
		// el usuario puede pedir otro código con /otp/request
		log.Warn("verification code not sent", logger.Err(err))
	}
	log.Info("profile registered")

	out := dto.Profile(*p)
	return &out, nil
}

func (s *authService) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Login"))

	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	p, err := s.deps.Store.Profiles().GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("profile not found", logger.Email(in.Email))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	log = log.With(logger.UserID(p.ID))

	if err := s.deps.Hasher.Verify(p.PasswordHash, in.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			log.Debug("password check failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !p.EmailVerified {
		log.Info("email not verified")
		return nil, ErrEmailNotVerified
	}
	return s.issueToken(p)
}

func (s *authService) issueToken(p *repository.Profile) (*dto.TokenResponse, error) {
	tok, exp, err := s.deps.Issuer.IssueAccess(p.ID, string(p.Role), p.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
	}
	return &dto.TokenResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		Profile:     dto.Profile(*p),
	}, nil
}

// VerifyOTP con purpose=login también marca el email como verificado:
// recibir el código prueba la posesión del buzón.
func (s *authService) VerifyOTP(ctx context.Context, in dto.OTPVerifyRequest) (*dto.OTPVerifyResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("VerifyOTP"))

	p, err := s.otp.Consume(ctx, in.Email, in.Code, in.Purpose)
	if err != nil {
		return nil, err
	}
	if !p.EmailVerified {
		if err := s.deps.Store.Profiles().SetEmailVerified(ctx, p.ID, true); err != nil {
			return nil, err
		}
		p.EmailVerified = true
		log.Info("email verified", logger.UserID(p.ID))
	}

	out := &dto.OTPVerifyResponse{Verified: true}
	if in.Purpose == PurposeLogin {
		tok, err := s.issueToken(p)
		if err != nil {
			return nil, err
		}
		out.Token = tok
	}
	return out, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	p, err := s.deps.Store.Profiles().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	links, err := s.deps.Store.Links().ListByProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &dto.MeResponse{Profile: dto.Profile(*p), Residences: make([]dto.MembershipResponse, 0, len(links))}
	for _, l := range links {
		m := dto.MembershipResponse{
			LinkID:        l.ID,
			ResidenceID:   l.ResidenceID,
			Apartment:     l.Apartment,
			Verified:      l.Verified,
			CreditBalance: l.CreditBalance,
		}
		if res, err := s.deps.Store.Residences().GetByID(ctx, l.ResidenceID); err == nil {
			m.ResidenceName = res.Name
		}
		out.Residences = append(out.Residences, m)
	}

	if p.Role == repository.RoleSyndic {
		res, err := s.deps.Store.Residences().GetBySyndic(ctx, p.ID)
		switch {
		case err == nil:
			out.ManagesID = res.ID
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	return out, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("ChangePassword"), logger.UserID(userID))

	if in.NewPassword == "" {
		return ErrMissingFields
	}
	p, err := s.deps.Store.Profiles().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	// Perfiles invitados no tienen password: entran por OTP y fijan la primera aquí.
	if p.PasswordHash != "" {
		if err := s.deps.Hasher.Verify(p.PasswordHash, in.CurrentPassword); err != nil {
			if errors.Is(err, password.ErrMismatch) {
				return ErrInvalidCredentials
			}
			return err
		}
	}
	if reasons := s.deps.Policy.Validate(in.NewPassword); len(reasons) > 0 {
		return &PolicyError{Reasons: reasons}
	}
	hash, err := s.deps.Hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.deps.Store.Profiles().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	log.Info("password changed")
	return nil
}
