package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
)

// NumericCode genera un código de n dígitos con crypto/rand.
func NumericCode(n int) (string, error) {
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}

// HashCode devuelve sha256(scope|code) en hex; scope evita reutilizar un código entre emails.
func HashCode(scope, code string) string {
	sum := sha256.Sum256([]byte(scope + "|" + code))
	return hex.EncodeToString(sum[:])
}

// EqualHash compara en tiempo constante.
func EqualHash(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
