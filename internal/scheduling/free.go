package scheduling

import (
	"sort"
	"time"

	"medbook/internal/domain"
)

// ListFreeSlots keeps the candidates that are not blocked, not referenced by
// an active booking and start after now. Input order is preserved.
func ListFreeSlots(
	candidates []domain.TimeSlot,
	bookings []domain.BookingRef,
	blocked map[int64]struct{},
	now time.Time,
) []domain.TimeSlot {
	occupied := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if b.Status.IsActive() {
			occupied[b.TimeSlotID] = struct{}{}
		}
	}

	free := make([]domain.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		if _, ok := blocked[slot.ID]; ok {
			continue
		}
		if _, ok := occupied[slot.ID]; ok {
			continue
		}
		if !slot.IsFree(now) {
			continue
		}
		free = append(free, slot)
	}
	return free
}

// DetectDoubleBookings returns, in ascending order, the IDs of slots that
// more than one active booking points at.
func DetectDoubleBookings(bookings []domain.BookingRef) []int64 {
	counts := make(map[int64]int)
	for _, b := range bookings {
		if b.Status.IsActive() {
			counts[b.TimeSlotID]++
		}
	}

	var dup []int64
	for slotID, n := range counts {
		if n > 1 {
			dup = append(dup, slotID)
		}
	}
	sort.Slice(dup, func(i, j int) bool { return dup[i] < dup[j] })
	return dup
}

// SlotState classifies a slot for the doctor's day view.
func SlotState(slot domain.TimeSlot, occupied bool, now time.Time) string {
	switch {
	case slot.IsBlocked:
		return domain.SlotStateBlocked
	case occupied || slot.BookingID != nil:
		return domain.SlotStateBooked
	case !slot.StartAt.After(now):
		return domain.SlotStatePast
	}
	return domain.SlotStateFree
}
