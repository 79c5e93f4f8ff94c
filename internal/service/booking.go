package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medbook/config"
	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/pkg/validator"
)

type BookingServiceImpl struct {
	bookings repository.BookingRepository
	slots    repository.SlotRepository
	users    repository.UserRepository
	clinics  repository.ClinicRepository
	notifier *slotNotifier
	clock    Clock
	retry    retryPolicy
	logger   *zap.Logger
}

func NewBookingService(
	repos *repository.Repositories,
	notifier *slotNotifier,
	clock Clock,
	cfg config.BookingConfig,
	logger *zap.Logger,
) *BookingServiceImpl {
	return &BookingServiceImpl{
		bookings: repos.Booking,
		slots:    repos.Slot,
		users:    repos.User,
		clinics:  repos.Clinic,
		notifier: notifier,
		clock:    clock,
		retry: retryPolicy{
			attempts: cfg.ClaimRetries,
			backoff:  cfg.ClaimBackoff,
			timeout:  cfg.ClaimTimeout,
		},
		logger: logger,
	}
}

func (s *BookingServiceImpl) BookSlot(ctx context.Context, slotID, patientID int64, details domain.BookingDetails) (*domain.Booking, error) {
	if !details.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown booking type %q", domain.ErrValidation, details.Type)
	}
	details.Notes = strings.TrimSpace(validator.SanitizeString(details.Notes))
	if !validator.ValidateLength(details.Notes, domain.MaxBookingNotesLength) {
		return nil, fmt.Errorf("%w: notes exceed %d characters", domain.ErrValidation, domain.MaxBookingNotesLength)
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get slot", zap.Int64("slot_id", slotID), zap.Error(err))
		return nil, fmt.Errorf("get slot: %w", err)
	}

	// The store re-checks both under the slot lock.
	switch {
	case slot.IsBlocked:
		return nil, domain.ErrSlotBlocked
	case !slot.StartAt.After(s.clock()):
		return nil, domain.ErrSlotExpired
	}

	clinic, err := s.clinics.GetByID(ctx, slot.ClinicID)
	if err != nil {
		s.logger.Error("failed to get clinic", zap.Int64("clinic_id", slot.ClinicID), zap.Error(err))
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if !clinic.IsActive {
		return nil, fmt.Errorf("%w: %w", domain.ErrSlotBlocked, domain.ErrClinicInactive)
	}

	ok, err := s.users.PatientExists(ctx, patientID)
	if err != nil {
		s.logger.Error("failed to check patient", zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidPatient
	}

	req := domain.ClaimRequest{
		SlotID:    slotID,
		PatientID: patientID,
		Details:   details,
		Price:     clinic.PriceFor(details.Type),
	}

	onRetry := func(attempt int, err error) {
		s.logger.Warn("transient conflict while claiming slot",
			zap.Int64("slot_id", slotID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	booking, err := retryTransient(ctx, s.retry, onRetry, func(ctx context.Context) (*domain.Booking, error) {
		req.Now = s.clock()
		return s.bookings.ClaimSlot(ctx, req)
	})
	if err != nil {
		if outcome, ok := domain.BookingOutcomeOf(err); ok {
			s.logger.Info("slot not booked",
				zap.Int64("slot_id", slotID),
				zap.Int64("patient_id", patientID),
				zap.String("outcome", string(outcome)),
			)
			return nil, err
		}
		s.logger.Error("failed to claim slot", zap.Int64("slot_id", slotID), zap.Error(err))
		return nil, fmt.Errorf("claim slot: %w", err)
	}

	s.logger.Info("slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", slotID),
		zap.Int64("patient_id", patientID),
	)

	bookingID := booking.ID
	slot.BookingID = &bookingID
	s.notifier.slotChanged(ctx, domain.SlotEventBooked, *slot, booking.CreatedAt)

	return booking, nil
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, domain.CancelResult, error) {
	now := s.clock()

	booking, result, err := s.bookings.Release(ctx, bookingID, now)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) || errors.Is(err, domain.ErrInvalidStateTransition) {
			return nil, "", err
		}
		s.logger.Error("failed to cancel booking", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, "", fmt.Errorf("cancel booking: %w", err)
	}

	if result == domain.CancelResultAlreadyCanceled {
		return booking, result, nil
	}

	s.logger.Info("booking canceled", zap.Int64("booking_id", bookingID))

	if !booking.StartAt.After(now) {
		return booking, result, nil
	}

	slot, err := s.slots.GetByID(ctx, booking.TimeSlotID)
	if err != nil {
		s.logger.Warn("released slot not found for notification",
			zap.Int64("slot_id", booking.TimeSlotID),
			zap.Error(err),
		)
		return booking, result, nil
	}
	s.notifier.slotChanged(ctx, domain.SlotEventReleased, *slot, now)

	return booking, result, nil
}

func (s *BookingServiceImpl) ConfirmBooking(ctx context.Context, doctorID, bookingID int64) (*domain.Booking, error) {
	return s.advance(ctx, doctorID, bookingID, domain.BookingStatusConfirmed)
}

// CompleteBooking may be called before the appointment ends; the lifecycle
// job only completes bookings whose end has passed.
func (s *BookingServiceImpl) CompleteBooking(ctx context.Context, doctorID, bookingID int64) (*domain.Booking, error) {
	return s.advance(ctx, doctorID, bookingID, domain.BookingStatusCompleted)
}

func (s *BookingServiceImpl) advance(ctx context.Context, doctorID, bookingID int64, to domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.DoctorID != doctorID {
		return nil, domain.ErrForbidden
	}
	if err := domain.CanTransition(booking.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, to, s.clock())
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) || errors.Is(err, domain.ErrInvalidStateTransition) {
			return nil, err
		}
		s.logger.Error("failed to update booking status",
			zap.Int64("booking_id", bookingID),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.logger.Info("booking status changed",
		zap.Int64("booking_id", bookingID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(to)),
	)
	return updated, nil
}

func (s *BookingServiceImpl) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get booking", zap.Int64("booking_id", id), zap.Error(err))
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func (s *BookingServiceImpl) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *filter.Status)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, fmt.Errorf("%w: range end is before its start", domain.ErrValidation)
	}

	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list bookings", zap.Error(err))
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}

// RunLifecycle confirms pending bookings at auto-confirm clinics and
// completes confirmed bookings whose end time has passed.
func (s *BookingServiceImpl) RunLifecycle(ctx context.Context) (confirmed, completed int64, err error) {
	now := s.clock()

	confirmed, err = s.bookings.AutoConfirmPending(ctx, now)
	if err != nil {
		s.logger.Error("failed to auto-confirm bookings", zap.Error(err))
		return 0, 0, fmt.Errorf("auto-confirm bookings: %w", err)
	}

	completed, err = s.bookings.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("failed to complete elapsed bookings", zap.Error(err))
		return confirmed, 0, fmt.Errorf("complete bookings: %w", err)
	}

	if confirmed > 0 || completed > 0 {
		s.logger.Info("booking lifecycle advanced",
			zap.Int64("confirmed", confirmed),
			zap.Int64("completed", completed),
		)
	}
	return confirmed, completed, nil
}
