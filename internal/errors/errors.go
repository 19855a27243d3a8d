package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Xero session helper
var (
	// Configuration errors - fail fast, never retried
	ErrMissingCredentials = errors.New("client id and secret are required")
	ErrNoRedirectURI      = errors.New("no redirect URI configured")
	ErrEmptyCode          = errors.New("authorization code is empty")

	// Token errors
	ErrAuthenticationRequired = errors.New("authentication required: restart the authorization flow")
	ErrInvalidToken           = errors.New("invalid token")

	// Tenant errors
	ErrNoTenants      = errors.New("no connected tenants")
	ErrTenantNotFound = errors.New("tenant not found")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
