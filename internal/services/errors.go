package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sentinel errors classifying operation failures. Handlers map these to
// HTTP statuses with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrBudgetExceeded      = errors.New("campaign budget exceeded")
	ErrDuplicateInvitation = errors.New("creator already invited to this campaign")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// asNotFound converts a missing-row error into the typed not-found sentinel
// so callers cannot mistake absence for success.
func asNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}
