package service

import "errors"

// ValidationError represents a client-facing input error. Nothing is
// mutated when one is returned.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a client-facing validation error,
// directly or anywhere in its wrap chain
func IsValidation(err error) bool {
	var validation ValidationError
	return errors.As(err, &validation)
}
