package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"` // verify_email | login
}

type OTPVerifyRequest struct {
	Email   string `json:"email"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type TokenResponse struct {
	AccessToken string          `json:"accessToken"`
	TokenType   string          `json:"tokenType"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Profile     ProfileResponse `json:"profile"`
}

// OTPVerifyResponse Token sólo viene con purpose=login.
type OTPVerifyResponse struct {
	Verified bool           `json:"verified"`
	Token    *TokenResponse `json:"token,omitempty"`
}

type ProfileResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type MembershipResponse struct {
	LinkID        string       `json:"linkId"`
	ResidenceID   string       `json:"residenceId"`
	ResidenceName string       `json:"residenceName"`
	Apartment     string       `json:"apartment"`
	Verified      bool         `json:"verified"`
	CreditBalance money.Amount `json:"creditBalance"`
}

type MeResponse struct {
	Profile    ProfileResponse      `json:"profile"`
	Residences []MembershipResponse `json:"residences"`
	ManagesID  string               `json:"managedResidenceId,omitempty"`
}
