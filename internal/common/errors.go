// Package common defines shared constants and sentinel errors used across
// client layers of GreenHub. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors raised before any request is built.
	ErrValidation = errors.New("validation error")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInFlight         = errors.New("operation already in progress")

	// Token inspection errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
