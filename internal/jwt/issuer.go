// Package jwt emite y valida los access tokens (HS256) del API.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid_jwt")
	ErrExpired       = errors.New("expired")
	ErrInvalidIssuer = errors.New("invalid_issuer")
)

// Claims del access token.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwtv5.RegisteredClaims
}

// Issuer firma tokens con un secreto compartido.
type Issuer struct {
	Iss       string
	AccessTTL time.Duration
	secret    []byte
	now       func() time.Time
}

func NewIssuer(iss string, secret []byte, accessTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &Issuer{Iss: iss, AccessTTL: accessTTL, secret: secret, now: time.Now}
}

// IssueAccess firma un token para el perfil. Retorna el token y su expiración.
func (i *Issuer) IssueAccess(sub, role, email string) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.AccessTTL)
	claims := Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   sub,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}

// Parse valida firma, issuer y expiración (con 30s de tolerancia).
func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwtv5.ParseWithClaims(token, claims,
		func(t *jwtv5.Token) (any, error) { return i.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithLeeway(30*time.Second),
		jwtv5.WithTimeFunc(i.now),
	)
	switch {
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwtv5.ErrTokenInvalidIssuer):
		return nil, ErrInvalidIssuer
	case err != nil || !tok.Valid:
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
