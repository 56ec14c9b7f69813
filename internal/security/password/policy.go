package password

import (
	"strings"
	"unicode"
)

type Policy struct {
	MinLength     int
	RequireLetter bool
	RequireDigit  bool
}

var common = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "123456789": {}, "qwertyuiop": {},
	"azertyuiop": {}, "iloveyou": {}, "motdepasse": {}, "11111111": {}, "00000000": {},
}

// Validate retorna los motivos de rechazo; vacío = válida.
func (p Policy) Validate(s string) (reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasL, hasD bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		}
	}
	if p.RequireLetter && !hasL {
		reasons = append(reasons, "missing_letter")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if _, ok := common[strings.ToLower(strings.TrimSpace(s))]; ok {
		reasons = append(reasons, "too_common")
	}
	return reasons
}
