// Package redact strips sensitive material from error messages before
// they reach logs. Store errors in particular can carry connection
// strings and raw SQL; neither belongs in log output.
package redact

import "regexp"

// Redaction placeholders
const (
	redactedCredential = "[REDACTED_CREDENTIAL]"
	redactedJWT        = "[REDACTED_JWT]"
	redactedSQL        = "[REDACTED_SQL]"
)

var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Standard three-part base64url JWT tokens
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// SQL statement fragments leaked from driver errors
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE)\s[\s\w,.*()=<>$'"]+?(?:FROM|INTO|SET|WHERE)[\s\w,.*()=<>$'"]*`,
	)
)

// String returns the input with sensitive fragments replaced by
// placeholders.
func String(s string) string {
	s = dbConnRegex.ReplaceAllString(s, redactedCredential+"@")
	s = jwtTokenRegex.ReplaceAllString(s, redactedJWT)
	s = sqlRegex.ReplaceAllString(s, redactedSQL)
	return s
}

// Error redacts an error's message. Returns the empty string for a nil
// error so it can be used directly in log attributes.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
