package services

import "errors"

// Engine error taxonomy. Every failure is recoverable at the caller and
// leaves no partial writes; only storage-layer failures propagate as
// wrapped unrecoverable errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("actor lacks the required role")

	ErrInvalidField   = errors.New("field value fails validation")
	ErrInvalidRating  = errors.New("rating score must be an integer between 1 and 5")
	ErrContentTooLong = errors.New("message content exceeds 1000 characters")

	ErrFieldLocked            = errors.New("field is finalized and cannot be changed")
	ErrCapacityBelowOccupancy = errors.New("max participants cannot be set below the current participant count")

	ErrNotOpen      = errors.New("operation not allowed in the proposal's current status")
	ErrTerminalTrip = errors.New("proposal is in a terminal status")

	ErrFull              = errors.New("proposal is at capacity")
	ErrAlreadyJoined     = errors.New("already a participant of this proposal")
	ErrNotAParticipant   = errors.New("not a participant of this proposal")
	ErrSoleEditor        = errors.New("cannot remove the only editor while other participants remain")
	ErrTripNotEnded      = errors.New("trip has not ended yet")
	ErrInvalidTransition = errors.New("unknown status action")
)
