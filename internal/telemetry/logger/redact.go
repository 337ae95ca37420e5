package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Keys whose values are secrets and are always fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
}

// Keys that carry client data. Stored values can be arbitrarily large and
// private, so only a short preview is logged.
var payloadKeys = map[string]bool{
	"value":   true,
	"payload": true,
	"args":    true,
	"request": true,
	"reply":   true,
}

// PreviewLen is how many bytes of a payload are kept in log output.
const PreviewLen = 32

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive rewrites one attribute before it is written.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	s := a.Value.String()
	if IsSensitiveKey(a.Key) {
		if s == "" {
			return a
		}
		return slog.String(a.Key, redactedValue)
	}
	if payloadKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Preview(s))
	}
	return a
}

// Preview quotes s and truncates it to PreviewLen bytes, noting the full
// length when it was cut.
func Preview(s string) string {
	if len(s) <= PreviewLen {
		return strconv.Quote(s)
	}
	return strconv.Quote(s[:PreviewLen]) + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

// IsSensitiveKey checks if a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
