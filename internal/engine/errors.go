package engine

import (
	"errors"
	"fmt"

	"github.com/nhle/missionboard/internal/store"
)

var (
	// ErrNotFound means the referenced entity does not exist or is cancelled.
	// It is the store's sentinel, so store lookups surface it unchanged.
	ErrNotFound = store.ErrNotFound

	// ErrUnauthorized means the entity exists but belongs to another user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation means the input was rejected before any store mutation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the request collides with existing state.
	ErrConflict = errors.New("conflict")
)

// ValidationError describes malformed input for a single field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

// Unwrap lets errors.Is match ErrValidation.
func (e ValidationError) Unwrap() error { return ErrValidation }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func unauthorized(kind, id string) error {
	return fmt.Errorf("%s %s does not belong to you: %w", kind, id, ErrUnauthorized)
}
