package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Route(v string) zap.Field           { return zap.String("route", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func Bytes(v int) zap.Field              { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }

// ─── Dominio ───

func UserID(v string) zap.Field      { return zap.String("user_id", v) }
func Role(v string) zap.Field        { return zap.String("role", v) }
func ResidenceID(v string) zap.Field { return zap.String("residence_id", v) }
func PaymentID(v string) zap.Field   { return zap.String("payment_id", v) }
func DocumentID(v string) zap.Field  { return zap.String("document_id", v) }
func Period(v string) zap.Field      { return zap.String("period", v) }

// Amount registra un monto en céntimos.
func Amount(cents int64) zap.Field { return zap.Int64("amount_cents", cents) }

// Email loguea el email enmascarado (j…@e….com).
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// MaskEmail deja la primera letra del usuario y del dominio.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		if len(s) <= 3 {
			return strings.Repeat("*", len(s))
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 1 {
		local = local[:1] + "…"
	}
	host, tld, ok := strings.Cut(domain, ".")
	if ok && len(host) > 1 {
		domain = host[:1] + "…." + tld
	}
	return local + "@" + domain
}

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Layer: controller, service, store.
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Err(err error) zap.Field  { return zap.Error(err) }
func Count(v int) zap.Field    { return zap.Int("count", v) }
func ID(v string) zap.Field    { return zap.String("id", v) }

// ─── Genéricos ───

func String(k, v string) zap.Field    { return zap.String(k, v) }
func Int(k string, v int) zap.Field   { return zap.Int(k, v) }
func Bool(k string, v bool) zap.Field { return zap.Bool(k, v) }
func Any(k string, v any) zap.Field   { return zap.Any(k, v) }
