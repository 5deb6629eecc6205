package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redacted replaces masked values.
const Redacted = "[REDACTED]"

// Redactor masks credentials in log attributes. Keys are matched
// case-insensitively; string values are scanned for bearer and basic
// credentials.
type Redactor struct {
	keys     map[string]struct{}
	patterns []*regexp.Regexp
}

// NewRedactor returns a redactor for the gateway's credential fields.
func NewRedactor() *Redactor {
	return &Redactor{
		keys: map[string]struct{}{
			"authorization":         {},
			"proxy_authorization":   {},
			"x-proxy-authorization": {},
			"password":              {},
			"redis_password":        {},
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(bearer|basic)\s+[A-Za-z0-9._~+/=-]+`),
		},
	}
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := r.keys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() == slog.KindString {
		if s := r.RedactString(a.Value.String()); s != a.Value.String() {
			return slog.String(a.Key, s)
		}
	}
	return a
}

// RedactString masks credentials embedded in s.
func (r *Redactor) RedactString(s string) string {
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, "$1 "+Redacted)
	}
	return s
}
