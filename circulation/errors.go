package circulation

import (
	"errors"
	"fmt"
)

// Error classes. Every specific error below wraps exactly one of them, so callers can match
// either the class or the concrete failure with errors.Is.
var (
	// ErrValidation marks input rejected at construction time.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate marks an insert with an identifier that is already present.
	ErrDuplicate = errors.New("already exists")

	// ErrNotFound marks an operation on an identifier that is absent.
	ErrNotFound = errors.New("not found")

	// ErrStateConflict marks an operation that the current circulation state does not permit.
	ErrStateConflict = errors.New("state conflict")
)

var (
	ErrBirthDateInFuture          = fmt.Errorf("%w: birth date is in the future", ErrValidation)
	ErrUnknownGender              = fmt.Errorf("%w: unknown gender", ErrValidation)
	ErrUnknownGenre               = fmt.Errorf("%w: unknown genre", ErrValidation)
	ErrPublishedBeforeAuthorBirth = fmt.Errorf("%w: publication year is before the author's birth year", ErrValidation)
	ErrPublishedInFuture          = fmt.Errorf("%w: publication year is in the future", ErrValidation)
	ErrEmptyTitle                 = fmt.Errorf("%w: title must not be empty", ErrValidation)
	ErrInvalidQuantity            = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrNilEntity                  = fmt.Errorf("%w: entity must not be nil", ErrValidation)
	ErrMissingID                  = fmt.Errorf("%w: identifier must not be empty", ErrValidation)
)

var (
	ErrBookAlreadyExists   = fmt.Errorf("book %w", ErrDuplicate)
	ErrAuthorAlreadyExists = fmt.Errorf("author %w", ErrDuplicate)
	ErrUserAlreadyExists   = fmt.Errorf("user %w", ErrDuplicate)
)

var (
	ErrBookNotFound   = fmt.Errorf("book %w", ErrNotFound)
	ErrAuthorNotFound = fmt.Errorf("author %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrGroupNotFound  = fmt.Errorf("book group %w", ErrNotFound)
)

var (
	ErrBookOnLoan              = fmt.Errorf("%w: book is on loan", ErrStateConflict)
	ErrUserHasOutstandingLoans = fmt.Errorf("%w: user has outstanding loans", ErrStateConflict)
	ErrUserHasNoLoans          = fmt.Errorf("%w: user holds no loans", ErrStateConflict)
	ErrUserDoesNotHoldBook     = fmt.Errorf("%w: user does not hold this book", ErrStateConflict)
	ErrInconsistentState       = fmt.Errorf("%w: circulation bookkeeping is inconsistent", ErrStateConflict)
)

// errorType classifies err for metric labels and span attributes.
func errorType(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStateConflict):
		return "state_conflict"
	default:
		return "unknown"
	}
}
