package api

// The backend reports failures as {"detail": "..."} bodies. Each error type
// below carries the extracted detail (or a generic fallback) and marks which
// class of failure it was, so call sites can show it inline without further
// digging.

// ValidationError is a registration or login input the backend rejected
// (duplicate email, bad credentials). Non-fatal; the user may retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError is a missing, invalid, or expired credential on an
// authenticated call.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// RequestError is everything else: network unreachable, malformed server
// response, or an unexpected HTTP status.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }
