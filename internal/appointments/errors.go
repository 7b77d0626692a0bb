package appointments

import "errors"

var (
	// ErrNotFound is returned for an unknown appointment id.
	ErrNotFound = errors.New("appointment not found")

	// ErrScheduleConflict is returned when the agent already has an
	// overlapping scheduled appointment; the caller must pick another slot.
	ErrScheduleConflict = errors.New("appointment slot conflicts with an existing booking")

	// ErrInvalidTransition is returned for a state-machine violation,
	// e.g. completing a cancelled appointment.
	ErrInvalidTransition = errors.New("invalid appointment status transition")

	// ErrPastSchedule is returned when the requested slot is not in the future.
	ErrPastSchedule = errors.New("appointment must be scheduled in the future")

	// ErrLeadBusy is returned when another action holds the lead's
	// dispatch lease; the request is safe to retry.
	ErrLeadBusy = errors.New("another action for this lead is in flight")
)
