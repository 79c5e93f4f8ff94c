package domain

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("access denied")

	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotAlreadyBooked = errors.New("slot already booked")
	ErrSlotBlocked       = errors.New("slot blocked")
	ErrSlotExpired       = errors.New("slot start time has passed")
	ErrInvalidPatient    = errors.New("invalid patient")
	ErrTransientConflict = errors.New("transient conflict, retry later")

	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

	// ErrDoubleBooking means storage holds two active bookings for one slot.
	ErrDoubleBooking = errors.New("slot referenced by more than one active booking")

	ErrRuleNotFound   = errors.New("schedule rule not found")
	ErrClinicNotFound = errors.New("clinic not found")
	ErrClinicInactive = errors.New("clinic inactive")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrRangeTooLarge  = errors.New("date range too large")

	ErrFileStorageUnavailable = errors.New("file storage is not configured")
)
