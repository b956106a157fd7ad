package errs

import (
	"errors"
)

// Kind groups errors by how the API boundary reports them and whether the
// caller may retry.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindPolicyViolation
	KindConcurrency
)

var (
	ErrNotFound = errors.New("not found")

	// conflicts: the request contradicts current state
	ErrNotAvailable         = errors.New("no available copies")
	ErrReservedByOther      = errors.New("book is held for another member's reservation")
	ErrAlreadyReturned      = errors.New("transaction already closed")
	ErrAlreadyOverdue       = errors.New("loan is overdue and cannot be renewed")
	ErrBookAvailable        = errors.New("book has available copies, issue it directly")
	ErrDuplicateReservation = errors.New("member already holds an active reservation for this book")
	ErrNotReservationOwner  = errors.New("reservation belongs to another member")
	ErrFineSettled          = errors.New("fine is already paid or waived")

	// policy violations: a configured limit was reached
	ErrMemberIneligible    = errors.New("member is not eligible to borrow")
	ErrRenewalLimitReached = errors.New("renewal limit reached")
	ErrReservationLimit    = errors.New("reservation limit reached")

	// the losing side of a write race; safe to retry once
	ErrConcurrencyConflict = errors.New("concurrent modification, retry")
)

// KindOf classifies err into the API taxonomy.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotAvailable),
		errors.Is(err, ErrReservedByOther),
		errors.Is(err, ErrAlreadyReturned),
		errors.Is(err, ErrAlreadyOverdue),
		errors.Is(err, ErrBookAvailable),
		errors.Is(err, ErrDuplicateReservation),
		errors.Is(err, ErrNotReservationOwner),
		errors.Is(err, ErrFineSettled):
		return KindConflict
	case errors.Is(err, ErrMemberIneligible),
		errors.Is(err, ErrRenewalLimitReached),
		errors.Is(err, ErrReservationLimit):
		return KindPolicyViolation
	case errors.Is(err, ErrConcurrencyConflict):
		return KindConcurrency
	default:
		return KindUnknown
	}
}
