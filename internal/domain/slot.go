package domain

import "time"

const DateLayout = "2006-01-02"

type TimeSlot struct {
	ID             int64     `json:"id"`
	ScheduleRuleID int64     `json:"schedule_rule_id"`
	DoctorID       int64     `json:"doctor_id"`
	ClinicID       int64     `json:"clinic_id"`
	Date           string    `json:"date" example:"2026-03-02"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	IsBlocked      bool      `json:"is_blocked"`
	BookingID      *int64    `json:"booking_id,omitempty"`
}

// IsFree reports whether the slot can be claimed at the reference time now.
func (s TimeSlot) IsFree(now time.Time) bool {
	return !s.IsBlocked && s.BookingID == nil && s.StartAt.After(now)
}

func (s TimeSlot) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// SlotKey identifies a candidate slot before it has a stored ID.
type SlotKey struct {
	RuleID    int64
	StartUnix int64
}

func (s TimeSlot) Key() SlotKey {
	return SlotKey{RuleID: s.ScheduleRuleID, StartUnix: s.StartAt.Unix()}
}

// BookingRef is the minimal view of a booking needed to decide slot occupancy.
type BookingRef struct {
	BookingID  int64         `json:"booking_id"`
	TimeSlotID int64         `json:"time_slot_id"`
	Status     BookingStatus `json:"status"`
}

type DaySlots struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

type AvailableDay struct {
	Date      string `json:"date"`
	FreeSlots int    `json:"free_slots"`
}

// SlotView is a doctor-facing slot with its occupancy state.
type SlotView struct {
	TimeSlot
	State string `json:"state" example:"free"`
}

const (
	SlotStateFree    = "free"
	SlotStateBooked  = "booked"
	SlotStateBlocked = "blocked"
	SlotStatePast    = "past"
)

// TruncateToDay returns midnight of t's calendar day in t's location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
