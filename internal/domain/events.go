package domain

import "time"

type SlotEventType string

const (
	SlotEventBooked          SlotEventType = "slot.booked"
	SlotEventReleased        SlotEventType = "slot.released"
	SlotEventBlocked         SlotEventType = "slot.blocked"
	SlotEventUnblocked       SlotEventType = "slot.unblocked"
	SlotEventScheduleChanged SlotEventType = "schedule.changed"
)

// SlotEvent notifies subscribers that a doctor's availability changed.
type SlotEvent struct {
	Type       SlotEventType `json:"type"`
	DoctorID   int64         `json:"doctor_id"`
	ClinicID   int64         `json:"clinic_id"`
	SlotID     int64         `json:"slot_id,omitempty"`
	StartAt    time.Time     `json:"start_at,omitempty"`
	EndAt      time.Time     `json:"end_at,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewSlotEvent(t SlotEventType, slot TimeSlot, at time.Time) SlotEvent {
	return SlotEvent{
		Type:       t,
		DoctorID:   slot.DoctorID,
		ClinicID:   slot.ClinicID,
		SlotID:     slot.ID,
		StartAt:    slot.StartAt,
		EndAt:      slot.EndAt,
		OccurredAt: at,
	}
}
