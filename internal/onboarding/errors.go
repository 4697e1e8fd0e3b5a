package onboarding

import "errors"

// Sentinel errors for onboarding operations. These are part of the public
// API and should be checked with errors.Is().
var (
	// ErrSessionNotFound indicates the session id is absent from the store,
	// or the session was present but past its expiry.
	ErrSessionNotFound = errors.New("onboarding session not found or expired")

	// ErrQuestionNotFound indicates a session cursor that does not resolve
	// against the catalog. The catalog is static, so this is an internal
	// consistency error rather than a caller mistake.
	ErrQuestionNotFound = errors.New("onboarding question not found")
)
