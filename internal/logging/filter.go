// Package logging provides zerolog utilities that keep secrets found in
// server configurations (passwords, keystore secrets, credential references)
// out of console output and log files.
package logging

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match secrets as they appear in configuration documents
// and in rendered log lines.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// password: value, keystore-password=value, "key-password":"value"
	regexp.MustCompile(`(?i)[a-z-]*(password|passwd|secret|clear-text)"?\s*[:=]\s*["']?[^\s"',}]{4,}["']?`),

	// credential-reference: {store: x, alias: y, clear-text: z} collapsed to one line
	regexp.MustCompile(`(?i)credential-reference"?\s*[:=]\s*\{[^}]*\}`),

	// PEM private keys
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),

	// Basic and bearer authorization values
	regexp.MustCompile(`(?i)(basic|bearer)\s+[a-zA-Z0-9+/=_-]{16,}`),
}

// sensitiveAttributes contains configuration attribute names whose values are always redacted.
var sensitiveAttributes = []string{ //nolint:gochecknoglobals // Package-level names for reuse
	"password",
	"passwd",
	"secret",
	"credential-reference",
	"clear-text",
	"private-key",
	"keystore-password",
	"key-password",
	"truststore-password",
	"authorization",
}

// SensitiveDataHook is a zerolog hook that flags events whose message
// carries something that looks like a secret. Zerolog hooks cannot rewrite
// the message; FilteringWriter does the redaction on output.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveAttribute reports whether a configuration attribute name denotes a secret.
func IsSensitiveAttribute(name string) bool {
	lower := strings.ToLower(name)
	for _, sensitive := range sensitiveAttributes {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue renders an attribute value for logging, redacting secrets.
//
// Usage:
//
//	logger.Info().Str("value", logging.SafeValue(name, value)).Msg("attribute written")
func SafeValue(name string, value any) string {
	if IsSensitiveAttribute(name) {
		return RedactedValue
	}
	return FilterSensitiveValue(fmt.Sprint(value))
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from output.
// It wraps the rotating log file so secrets never reach disk.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a FilteringWriter over w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports the original length so callers do
// not see a short write when redaction shrinks the output.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err := fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
