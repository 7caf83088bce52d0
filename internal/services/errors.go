package services

import (
	"context"
	"errors"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/store"
)

const (
	msgEmailInUse = "Email already in use"
	msgTimeout    = "The request timed out, please retry"
	msgInternal   = "Internal server error"
)

// classify turns a store or driver error into an *apperr.Error.
// Errors that are already classified pass through untouched.
func classify(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	err = store.Translate(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict(msgEmailInUse)
	case errors.Is(err, store.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return apperr.Timeout(msgTimeout, err)
	}
	return apperr.Internal(msgInternal, err)
}
