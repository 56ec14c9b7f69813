// Package money representa montos en centimos de la moneda configurada (MAD por defecto).
// Los montos viajan en JSON como numeros decimales con hasta 2 decimales ("1000.50")
// y se guardan como enteros para que sumas y repartos sean exactos.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount es un monto en centimos.
type Amount int64

// DefaultCurrency es la moneda usada cuando la config no define otra.
const DefaultCurrency = "MAD"

var ErrInvalidAmount = errors.New("money: invalid amount")

// FromUnits crea un Amount desde unidades enteras (ej: 1000 MAD).
func FromUnits(units int64) Amount { return Amount(units * 100) }

// maxUnits es el mayor entero de unidades que cabe en centimos sin desbordar int64.
const maxUnits = (math.MaxInt64 - 99) / 100

// Parse convierte "1000", "1000.5" o "1000.50" en centimos.
// Rechaza mas de 2 decimales, signos repetidos, valores vacios y montos que no entran en int64.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if !digits(intPart) || (hasFrac && (!digits(fracPart) || len(fracPart) > 2)) {
		return 0, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || units > maxUnits {
		return 0, ErrInvalidAmount
	}
	var cents int64
	if hasFrac {
		if len(fracPart) == 1 {
			fracPart += "0"
		}
		cents, _ = strconv.ParseInt(fracPart, 10, 64)
	}
	v := units*100 + cents
	if neg {
		v = -v
	}
	return Amount(v), nil
}

// digits es true si s no esta vacio y solo tiene 0-9.
func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String formatea con 2 decimales: 100050 -> "1000.50".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float devuelve el monto en unidades, solo para metricas y porcentajes.
func (a Amount) Float() float64 { return float64(a) / 100 }

// IsNegative indica si el monto es < 0.
func (a Amount) IsNegative() bool { return a < 0 }

// Min devuelve el menor de dos montos.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// MarshalJSON emite el monto como numero JSON con 2 decimales.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON acepta numeros JSON o strings numericos.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" {
		*a = 0
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
