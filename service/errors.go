package service

import "errors"

// Authentication and authorization failures. Handlers collapse the
// authentication family into one undifferentiated 401 so a caller cannot
// tell which check failed.
var (
	ErrNoCredential       = errors.New("no credential provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownPrincipal   = errors.New("unknown principal")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidRole        = errors.New("invalid role")
)
