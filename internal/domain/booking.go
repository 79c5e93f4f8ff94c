package domain

import (
	"errors"
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCanceled:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s != BookingStatusCanceled
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCanceled
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCanceled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCanceled},
}

// CanTransition returns ErrInvalidStateTransition unless from -> to is an
// edge of the booking lifecycle.
func CanTransition(from, to BookingStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
}

type BookingType string

const (
	BookingTypeInPerson BookingType = "IN_PERSON"
	BookingTypeOnline   BookingType = "ONLINE"
)

func (t BookingType) IsValid() bool {
	return t == BookingTypeInPerson || t == BookingTypeOnline
}

type Booking struct {
	ID          int64         `json:"id"`
	TimeSlotID  int64         `json:"time_slot_id"`
	PatientID   int64         `json:"patient_id"`
	DoctorID    int64         `json:"doctor_id"`
	ClinicID    int64         `json:"clinic_id"`
	Status      BookingStatus `json:"status"`
	Type        BookingType   `json:"type"`
	Notes       string        `json:"notes,omitempty"`
	Price       float64       `json:"price"`
	StartAt     time.Time     `json:"start_at"`
	EndAt       time.Time     `json:"end_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CanceledAt  *time.Time    `json:"canceled_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

func (b Booking) Ref() BookingRef {
	return BookingRef{BookingID: b.ID, TimeSlotID: b.TimeSlotID, Status: b.Status}
}

const MaxBookingNotesLength = 1000

type BookingDetails struct {
	Type  BookingType `json:"type" example:"IN_PERSON"`
	Notes string      `json:"notes,omitempty"`
}

type CreateBookingDTO struct {
	SlotID int64       `json:"slot_id" binding:"required"`
	Type   BookingType `json:"type" binding:"required,oneof=IN_PERSON ONLINE"`
	Notes  string      `json:"notes"`
}

// ClaimRequest carries everything the store needs to insert a booking
// atomically for a slot.
type ClaimRequest struct {
	SlotID    int64
	PatientID int64
	Details   BookingDetails
	Price     float64
	Now       time.Time
}

type BookingFilter struct {
	PatientID *int64
	DoctorID  *int64
	ClinicID  *int64
	Status    *BookingStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// CancelResult is the non-error outcome of a cancellation.
type CancelResult string

const (
	CancelResultCanceled        CancelResult = "CANCELED"
	CancelResultAlreadyCanceled CancelResult = "ALREADY_CANCELED"
)

// BookingOutcome names every result a booking attempt can have.
type BookingOutcome string

const (
	OutcomeBooked            BookingOutcome = "BOOKED"
	OutcomeSlotAlreadyBooked BookingOutcome = "SLOT_ALREADY_BOOKED"
	OutcomeSlotBlocked       BookingOutcome = "SLOT_BLOCKED"
	OutcomeSlotExpired       BookingOutcome = "SLOT_EXPIRED"
	OutcomeSlotNotFound      BookingOutcome = "SLOT_NOT_FOUND"
	OutcomeInvalidPatient    BookingOutcome = "INVALID_PATIENT"
	OutcomeTransientConflict BookingOutcome = "TRANSIENT_CONFLICT"
)

// BookingOutcomeOf maps the error returned by a booking attempt to its
// outcome. ok is false for errors that are not booking outcomes.
func BookingOutcomeOf(err error) (outcome BookingOutcome, ok bool) {
	switch {
	case err == nil:
		return OutcomeBooked, true
	case errors.Is(err, ErrSlotAlreadyBooked):
		return OutcomeSlotAlreadyBooked, true
	case errors.Is(err, ErrSlotBlocked):
		return OutcomeSlotBlocked, true
	case errors.Is(err, ErrSlotExpired):
		return OutcomeSlotExpired, true
	case errors.Is(err, ErrSlotNotFound):
		return OutcomeSlotNotFound, true
	case errors.Is(err, ErrInvalidPatient):
		return OutcomeInvalidPatient, true
	case errors.Is(err, ErrTransientConflict):
		return OutcomeTransientConflict, true
	}
	return "", false
}
