// Package auth contiene los controllers de registro, login y OTP.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/auth"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// AuthController maneja /v1/auth/*.
type AuthController struct {
	auth svc.AuthService
	otp  svc.OTPService
}

func NewAuthController(s svc.Services) *AuthController {
	return &AuthController{auth: s.Auth, otp: s.OTP}
}

// Register maneja POST /v1/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Register"))

	var req dto.RegisterRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	prof, err := c.auth.Register(ctx, req)
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, prof)
}

// Login maneja POST /v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	tok, err := c.auth.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, tok)
}

// RequestOTP maneja POST /v1/auth/otp/request. Siempre 202 para no filtrar emails.
func (c *AuthController) RequestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.OTPRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.otp.Request(ctx, req.Email, req.Purpose); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// VerifyOTP maneja POST /v1/auth/otp/verify
func (c *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.OTPVerifyRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.auth.VerifyOTP(ctx, req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Me maneja GET /v1/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	me, err := c.auth.Me(ctx, p.UserID)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, me)
}

// ChangePassword maneja POST /v1/auth/password
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.ChangePassword"))

	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	var req dto.ChangePasswordRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.auth.ChangePassword(ctx, p.UserID, req); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	log.Info("password changed")
	w.WriteHeader(http.StatusNoContent)
}

func mapError(err error) error {
	var policy *svc.PolicyError
	switch {
	case errors.As(err, &policy):
		return httperrors.ErrPasswordTooWeak.WithDetail(strings.Join(policy.Reasons, ","))
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, svc.ErrInvalidEmail), errors.Is(err, svc.ErrInvalidPurpose):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	case errors.Is(err, svc.ErrInvalidCredentials):
		return httperrors.ErrInvalidCredentials
	case errors.Is(err, svc.ErrEmailNotVerified):
		return httperrors.ErrEmailNotVerified
	case errors.Is(err, svc.ErrEmailTaken):
		return httperrors.ErrEmailAlreadyInUse
	case errors.Is(err, svc.ErrInvalidCode):
		return httperrors.ErrInvalidCode
	case errors.Is(err, svc.ErrTooManyAttempts):
		return httperrors.ErrTooManyAttempts
	case errors.Is(err, svc.ErrTokenIssueFailed):
		return httperrors.ErrInternalServerError.WithCause(err)
	}
	return err
}
