package email

import (
	"errors"
	"net"
	"strings"
)

// SMTPDiag clasifica un error SMTP.
type SMTPDiag struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary bool   // conviene reintentar
}

// DiagnoseSMTP analiza el texto del error y sus códigos enhanced-status.
func DiagnoseSMTP(err error) SMTPDiag {
	if err == nil {
		return SMTPDiag{Code: "unknown"}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return SMTPDiag{Code: "timeout", Temporary: true}
	}

	s := strings.ToLower(err.Error())
	has := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case has("timeout"):
		return SMTPDiag{Code: "timeout", Temporary: true}
	case has("connection refused", "no such host", "dial tcp"):
		return SMTPDiag{Code: "dial", Temporary: true}
	case has("x509:", "tls: handshake", "certificate"):
		return SMTPDiag{Code: "tls"}
	case has("5.7.8", "535", "authentication failed", "username and password not accepted"):
		return SMTPDiag{Code: "auth"}
	case has("4.7.0", "rate limit", "try again later", "421", "451"):
		return SMTPDiag{Code: "rate_limited", Temporary: true}
	case has("5.1.1", "user unknown", "mailbox not found"):
		return SMTPDiag{Code: "invalid_recipient"}
	case has("5.7.1", "message rejected", "dmarc", "spf"):
		return SMTPDiag{Code: "rejected"}
	}
	if ne != nil {
		return SMTPDiag{Code: "network", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}
