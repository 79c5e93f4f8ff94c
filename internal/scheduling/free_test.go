package scheduling

import (
	"reflect"
	"testing"
	"time"

	"medbook/internal/domain"
)

func materialized(t *testing.T, now time.Time) []domain.TimeSlot {
	t.Helper()
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "12:00", 30)}
	slots := ExpandForDate(rules, monday, now).Slots
	for i := range slots {
		slots[i].ID = int64(100 + i)
	}
	return slots
}

func TestListFreeSlots_NoBookings(t *testing.T) {
	now := monday.Add(-time.Hour)
	slots := materialized(t, now)

	free := ListFreeSlots(slots, nil, nil, now)
	if len(free) != len(slots) {
		t.Fatalf("expected all %d slots free, got %d", len(slots), len(free))
	}
}

func TestListFreeSlots_Filters(t *testing.T) {
	now := monday.Add(9*time.Hour + 45*time.Minute)
	slots := materialized(t, now)

	bookings := []domain.BookingRef{
		{BookingID: 1, TimeSlotID: 102, Status: domain.BookingStatusPending},
		{BookingID: 2, TimeSlotID: 103, Status: domain.BookingStatusCanceled},
		{BookingID: 3, TimeSlotID: 104, Status: domain.BookingStatusConfirmed},
	}
	blocked := map[int64]struct{}{105: {}}

	free := ListFreeSlots(slots, bookings, blocked, now)

	var ids []int64
	for _, s := range free {
		ids = append(ids, s.ID)
	}
	// 100 and 101 started before now; 102 and 104 are booked; 105 is blocked.
	if want := []int64{103}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected free %v, got %v", want, ids)
	}
}

func TestListFreeSlots_RespectsSlotFlags(t *testing.T) {
	now := monday.Add(-time.Hour)
	slots := materialized(t, now)
	bookingID := int64(55)
	slots[0].IsBlocked = true
	slots[1].BookingID = &bookingID

	free := ListFreeSlots(slots, nil, nil, now)
	if len(free) != 4 {
		t.Fatalf("expected 4 free slots, got %d", len(free))
	}
	if free[0].ID != 102 {
		t.Errorf("expected order preserved starting at 102, got %d", free[0].ID)
	}
}

func TestListFreeSlots_StartEqualToNowIsNotFree(t *testing.T) {
	now := monday.Add(9 * time.Hour)
	slots := materialized(t, now)

	free := ListFreeSlots(slots, nil, nil, now)
	if len(free) != 5 || free[0].ID != 101 {
		t.Fatalf("slot starting exactly at now must be excluded, got %d slots", len(free))
	}
}

func TestListFreeSlots_Idempotent(t *testing.T) {
	now := monday.Add(-time.Hour)
	slots := materialized(t, now)
	bookings := []domain.BookingRef{{BookingID: 1, TimeSlotID: 101, Status: domain.BookingStatusPending}}

	first := ListFreeSlots(slots, bookings, nil, now)
	second := ListFreeSlots(slots, bookings, nil, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("ListFreeSlots returned different results for identical inputs")
	}
	again := ListFreeSlots(first, bookings, nil, now)
	if !reflect.DeepEqual(first, again) {
		t.Fatal("filtering an already filtered list changed it")
	}
}

func TestDetectDoubleBookings(t *testing.T) {
	bookings := []domain.BookingRef{
		{BookingID: 1, TimeSlotID: 9, Status: domain.BookingStatusPending},
		{BookingID: 2, TimeSlotID: 9, Status: domain.BookingStatusConfirmed},
		{BookingID: 3, TimeSlotID: 4, Status: domain.BookingStatusCanceled},
		{BookingID: 4, TimeSlotID: 4, Status: domain.BookingStatusPending},
		{BookingID: 5, TimeSlotID: 2, Status: domain.BookingStatusCompleted},
		{BookingID: 6, TimeSlotID: 2, Status: domain.BookingStatusPending},
	}

	got := DetectDoubleBookings(bookings)
	if want := []int64{2, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if dup := DetectDoubleBookings(bookings[2:4]); len(dup) != 0 {
		t.Errorf("a canceled booking must not count, got %v", dup)
	}
}

func TestSlotState(t *testing.T) {
	now := monday.Add(10 * time.Hour)
	slot := domain.TimeSlot{ID: 1, StartAt: now.Add(time.Hour), EndAt: now.Add(90 * time.Minute)}

	if got := SlotState(slot, false, now); got != domain.SlotStateFree {
		t.Errorf("expected free, got %s", got)
	}
	if got := SlotState(slot, true, now); got != domain.SlotStateBooked {
		t.Errorf("expected booked, got %s", got)
	}
	past := slot
	past.StartAt = now.Add(-time.Hour)
	if got := SlotState(past, false, now); got != domain.SlotStatePast {
		t.Errorf("expected past, got %s", got)
	}
	blocked := slot
	blocked.IsBlocked = true
	if got := SlotState(blocked, true, now); got != domain.SlotStateBlocked {
		t.Errorf("expected blocked, got %s", got)
	}
}
