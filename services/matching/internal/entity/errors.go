package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrDuplicatePending  = errors.New("seeker already has a pending request on this listing")
	ErrDuplicateFeedback = errors.New("feedback already submitted for this transaction")
	ErrNotRequestable    = errors.New("listing is not open for requests")
	ErrNotReceived       = errors.New("donation has not been received yet")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnavailable       = errors.New("store unavailable")
)
