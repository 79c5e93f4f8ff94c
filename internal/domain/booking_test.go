package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCanceled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCanceled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusCompleted, BookingStatusCanceled, false},
		{BookingStatusCanceled, BookingStatusPending, false},
		{BookingStatusCanceled, BookingStatusConfirmed, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.ok && err != nil {
				t.Fatalf("expected transition allowed, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidStateTransition) {
				t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
			}
		})
	}
}

func TestBookingStatus_IsActive(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted} {
		if !s.IsActive() {
			t.Errorf("%s should occupy its slot", s)
		}
	}
	if BookingStatusCanceled.IsActive() {
		t.Error("CANCELED must not occupy its slot")
	}
}

func TestBookingOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want BookingOutcome
		ok   bool
	}{
		{nil, OutcomeBooked, true},
		{ErrSlotAlreadyBooked, OutcomeSlotAlreadyBooked, true},
		{fmt.Errorf("claim: %w", ErrSlotBlocked), OutcomeSlotBlocked, true},
		{ErrSlotExpired, OutcomeSlotExpired, true},
		{ErrInvalidPatient, OutcomeInvalidPatient, true},
		{fmt.Errorf("after 3 attempts: %w", ErrTransientConflict), OutcomeTransientConflict, true},
		{ErrSlotNotFound, OutcomeSlotNotFound, true},
		{errors.New("connection refused"), "", false},
	}

	for _, tt := range tests {
		got, ok := BookingOutcomeOf(tt.err)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BookingOutcomeOf(%v) = %q, %v; want %q, %v", tt.err, got, ok, tt.want, tt.ok)
		}
	}
}
