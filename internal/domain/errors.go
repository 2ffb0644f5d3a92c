package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unknown duty status, certifying an empty day).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrCertifiedLogLock is returned when a mutation targets a day whose log has
// been certified. Certified days are immutable; the caller must uncertify the
// day first. Handlers should map this to HTTP 409.
var ErrCertifiedLogLock = errors.New("logs are certified; uncertify to make changes")

// ErrEmptySignature is returned by certification when the signature is blank
// or whitespace-only. Handlers should map this to HTTP 422.
var ErrEmptySignature = errors.New("certification signature is required")

// ErrAlreadyCertified is returned when certifying a day that is already
// certified. The existing certification is left untouched.
// Handlers should map this to HTTP 409.
var ErrAlreadyCertified = errors.New("daily log is already certified")

// ErrInvalidTransition is reserved for duty-status transitions that become
// restricted in the future. No transition is currently restricted beyond the
// certified-log lock, so nothing returns it yet; it exists so callers can
// branch on it explicitly rather than inferring from message text.
var ErrInvalidTransition = errors.New("invalid duty status transition")

// ErrClockUnavailable is returned when the clock source cannot supply the
// current time. Mutating and calculating operations fail fast on it rather
// than guessing a time, which would corrupt the limit math.
// Handlers should map this to HTTP 503.
var ErrClockUnavailable = errors.New("clock source unavailable")
