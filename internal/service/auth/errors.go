package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrAuthDisabled indicates no JWT secret is configured, so bearer
	// tokens cannot be accepted and every requester is a guest
	ErrAuthDisabled = errors.New("bearer authentication is not configured")
)
