package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"medbook/internal/domain"
)

type bookingRepo struct{ s *Store }

func (r *bookingRepo) ClaimSlot(ctx context.Context, req domain.ClaimRequest) (*domain.Booking, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[req.SlotID]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}

	switch {
	case slot.IsBlocked:
		return nil, domain.ErrSlotBlocked
	case !slot.StartAt.After(req.Now):
		return nil, domain.ErrSlotExpired
	}
	if _, taken := r.s.activeBySlot[slot.ID]; taken {
		return nil, domain.ErrSlotAlreadyBooked
	}
	if !r.s.offered(slot) {
		return nil, fmt.Errorf("%w: rule %d no longer offers slot %d", domain.ErrSlotNotFound, slot.ScheduleRuleID, slot.ID)
	}

	booking := domain.Booking{
		ID:         r.s.nextID(),
		TimeSlotID: slot.ID,
		PatientID:  req.PatientID,
		DoctorID:   slot.DoctorID,
		ClinicID:   slot.ClinicID,
		Status:     domain.BookingStatusPending,
		Type:       req.Details.Type,
		Notes:      req.Details.Notes,
		Price:      req.Price,
		StartAt:    slot.StartAt,
		EndAt:      slot.EndAt,
		CreatedAt:  req.Now,
		UpdatedAt:  req.Now,
	}
	r.s.bookings[booking.ID] = booking
	r.s.activeBySlot[slot.ID] = booking.ID

	bookingID := booking.ID
	slot.BookingID = &bookingID
	r.s.slots[slot.ID] = slot

	return copyBooking(booking), nil
}

func (r *bookingRepo) Release(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, domain.CancelResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	booking, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, "", domain.ErrBookingNotFound
	}
	if booking.Status == domain.BookingStatusCanceled {
		return copyBooking(booking), domain.CancelResultAlreadyCanceled, nil
	}
	if err := domain.CanTransition(booking.Status, domain.BookingStatusCanceled); err != nil {
		return nil, "", err
	}

	canceledAt := now
	booking.Status = domain.BookingStatusCanceled
	booking.CanceledAt = &canceledAt
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = booking

	if r.s.activeBySlot[booking.TimeSlotID] == booking.ID {
		delete(r.s.activeBySlot, booking.TimeSlotID)
	}
	if slot, ok := r.s.slots[booking.TimeSlotID]; ok &&
		slot.BookingID != nil && *slot.BookingID == booking.ID && slot.StartAt.After(now) {
		slot.BookingID = nil
		r.s.slots[slot.ID] = slot
	}

	return copyBooking(booking), domain.CancelResultCanceled, nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *bookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var bookings []domain.Booking
	for _, b := range r.s.bookings {
		if !matches(b, filter) {
			continue
		}
		bookings = append(bookings, *copyBooking(b))
	}

	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].StartAt.Equal(bookings[j].StartAt) {
			return bookings[i].StartAt.Before(bookings[j].StartAt)
		}
		return bookings[i].ID < bookings[j].ID
	})

	total := len(bookings)
	return paginate(bookings, filter.Limit, filter.Offset), total, nil
}

func matches(b domain.Booking, f domain.BookingFilter) bool {
	switch {
	case f.PatientID != nil && b.PatientID != *f.PatientID:
		return false
	case f.DoctorID != nil && b.DoctorID != *f.DoctorID:
		return false
	case f.ClinicID != nil && b.ClinicID != *f.ClinicID:
		return false
	case f.Status != nil && b.Status != *f.Status:
		return false
	case f.From != nil && b.StartAt.Before(*f.From):
		return false
	case f.To != nil && !b.StartAt.Before(*f.To):
		return false
	}
	return true
}

func (r *bookingRepo) GetActiveBookingsForSlots(ctx context.Context, slotIDs []int64) ([]domain.BookingRef, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = struct{}{}
	}

	var refs []domain.BookingRef
	for _, b := range r.s.bookings {
		if _, ok := wanted[b.TimeSlotID]; ok && b.Status.IsActive() {
			refs = append(refs, b.Ref())
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].BookingID < refs[j].BookingID })
	return refs, nil
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, now time.Time) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidStateTransition, id, b.Status)
	}

	b.Status = to
	b.UpdatedAt = now
	if to == domain.BookingStatusCompleted {
		completedAt := now
		b.CompletedAt = &completedAt
	}
	r.s.bookings[id] = b
	return copyBooking(b), nil
}

func (r *bookingRepo) AutoConfirmPending(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, b := range r.s.bookings {
		if b.Status != domain.BookingStatusPending || !b.StartAt.After(now) {
			continue
		}
		if c, ok := r.s.clinics[b.ClinicID]; !ok || !c.AutoConfirm {
			continue
		}
		b.Status = domain.BookingStatusConfirmed
		b.UpdatedAt = now
		r.s.bookings[id] = b
		n++
	}
	return n, nil
}

func (r *bookingRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, b := range r.s.bookings {
		if b.Status != domain.BookingStatusConfirmed || b.EndAt.After(now) {
			continue
		}
		completedAt := now
		b.Status = domain.BookingStatusCompleted
		b.CompletedAt = &completedAt
		b.UpdatedAt = now
		r.s.bookings[id] = b
		n++
	}
	return n, nil
}
