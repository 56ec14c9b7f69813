package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch la contraseña no coincide con el hash.
var ErrMismatch = errors.New("password mismatch")

// Hasher genera y verifica hashes bcrypt.
type Hasher struct{ Cost int }

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

func (h Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify retorna ErrMismatch si no coincide. Un hash vacío (perfil invitado) nunca coincide.
func (h Hasher) Verify(hash, plain string) error {
	if hash == "" {
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
