// Package redact scrubs sensitive information from strings before they
// are logged or surfaced in error responses. Upstream SDK errors in
// particular tend to echo API keys and connection URLs back verbatim.
package redact

import "regexp"

// Placeholders substituted for matched secrets.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

// Precompiled patterns for the secrets this service actually handles.
var (
	// Connection URLs with inline credentials (postgres, redis).
	connURLRegex = regexp.MustCompile(`(?i)(postgres(ql)?|redis(s)?)://[^@\s]+@`)

	// Provider API keys: Groq (gsk_), OpenAI (sk-), Google (AIza).
	providerKeyRegex = regexp.MustCompile(`\b(gsk_[A-Za-z0-9]{8,}|sk-[A-Za-z0-9_-]{8,}|AIza[A-Za-z0-9_-]{8,})\b`)

	// Generic key=value style credentials.
	credentialRegex = regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|authorization)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Bearer tokens in the standard three-part JWT shape.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Artifact store paths leaking the filesystem layout.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){3,}`)

	replacements = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{connURLRegex, RedactedCredentialPlaceholder},
		{providerKeyRegex, RedactedKeyPlaceholder},
		// JWTs before the generic credential pattern: the credential
		// value class admits dots, so a token prefixed by a keyword like
		// "authorization" would otherwise be consumed whole and lose the
		// JWT placeholder.
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{credentialRegex, RedactedCredentialPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
