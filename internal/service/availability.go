package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medbook/config"
	"medbook/internal/cache"
	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/internal/scheduling"
)

const defaultAvailableDays = 14

type AvailabilityServiceImpl struct {
	rules        repository.ScheduleRepository
	slots        repository.SlotRepository
	bookings     repository.BookingRepository
	clinics      repository.ClinicRepository
	cache        cache.AvailabilityCache
	notifier     *slotNotifier
	clock        Clock
	maxRangeDays int
	logger       *zap.Logger
}

func NewAvailabilityService(
	repos *repository.Repositories,
	c cache.AvailabilityCache,
	notifier *slotNotifier,
	clock Clock,
	cfg config.BookingConfig,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		rules:        repos.Schedule,
		slots:        repos.Slot,
		bookings:     repos.Booking,
		clinics:      repos.Clinic,
		cache:        c,
		notifier:     notifier,
		clock:        clock,
		maxRangeDays: cfg.MaxRangeDays,
		logger:       logger,
	}
}

func (s *AvailabilityServiceImpl) GetAvailability(ctx context.Context, doctorID, clinicID int64, date string) ([]domain.TimeSlot, error) {
	clinic, loc, err := s.clinicFor(ctx, doctorID, clinicID)
	if err != nil {
		return nil, err
	}
	day, err := parseDay(date, loc)
	if err != nil {
		return nil, err
	}
	if !clinic.IsActive {
		return []domain.TimeSlot{}, nil
	}

	now := s.clock()
	key := day.Format(domain.DateLayout)

	cached, ok, err := s.cache.Get(ctx, doctorID, clinicID, key)
	if err != nil {
		s.logger.Warn("availability cache read failed", zap.Int64("doctor_id", doctorID), zap.Error(err))
	}
	if ok {
		// Entries can outlive the start of their earliest slots.
		return scheduling.ListFreeSlots(cached, nil, nil, now), nil
	}

	rules, err := s.rules.GetActiveRulesForDoctor(ctx, doctorID, clinicID)
	if err != nil {
		s.logger.Error("failed to load schedule rules", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("load schedule rules: %w", err)
	}

	res := scheduling.ExpandForDate(rules, day, now)
	s.logWarnings(doctorID, res.Warnings)

	free, err := s.freeSlots(ctx, doctorID, res.Slots, now)
	if err != nil {
		return nil, err
	}

	s.storeCached(ctx, doctorID, clinicID, key, free)
	return free, nil
}

func (s *AvailabilityServiceImpl) GetAvailableDays(ctx context.Context, doctorID, clinicID int64, from string, days int) ([]domain.AvailableDay, error) {
	if days == 0 {
		days = defaultAvailableDays
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: days must be positive", domain.ErrValidation)
	}
	if days > s.maxRangeDays {
		return nil, fmt.Errorf("%w: at most %d days per request", domain.ErrRangeTooLarge, s.maxRangeDays)
	}

	clinic, loc, err := s.clinicFor(ctx, doctorID, clinicID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	start := domain.TruncateToDay(now.In(loc))
	if from != "" {
		if start, err = parseDay(from, loc); err != nil {
			return nil, err
		}
	}
	if !clinic.IsActive {
		return []domain.AvailableDay{}, nil
	}

	rules, err := s.rules.GetActiveRulesForDoctor(ctx, doctorID, clinicID)
	if err != nil {
		s.logger.Error("failed to load schedule rules", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("load schedule rules: %w", err)
	}

	res := scheduling.ExpandForRange(rules, start, start.AddDate(0, 0, days-1), now)
	s.logWarnings(doctorID, res.Warnings)

	available := make([]domain.AvailableDay, 0, len(res.Days))
	for _, day := range res.Days {
		if len(day.Slots) == 0 {
			continue
		}
		free, err := s.freeSlots(ctx, doctorID, day.Slots, now)
		if err != nil {
			return nil, err
		}
		s.storeCached(ctx, doctorID, clinicID, day.Date, free)

		if len(free) > 0 {
			available = append(available, domain.AvailableDay{Date: day.Date, FreeSlots: len(free)})
		}
	}
	return available, nil
}

func (s *AvailabilityServiceImpl) ListDaySlots(ctx context.Context, doctorID, clinicID int64, date string) ([]domain.SlotView, error) {
	_, loc, err := s.clinicFor(ctx, doctorID, clinicID)
	if err != nil {
		return nil, err
	}
	day, err := parseDay(date, loc)
	if err != nil {
		return nil, err
	}

	rules, err := s.rules.GetActiveRulesForDoctor(ctx, doctorID, clinicID)
	if err != nil {
		s.logger.Error("failed to load schedule rules", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("load schedule rules: %w", err)
	}

	now := s.clock()
	res := scheduling.ExpandForDate(rules, day, now)
	s.logWarnings(doctorID, res.Warnings)

	views := make([]domain.SlotView, 0, len(res.Slots))
	if len(res.Slots) == 0 {
		return views, nil
	}

	stored, err := s.slots.Materialize(ctx, res.Slots)
	if err != nil {
		s.logger.Error("failed to materialize slots", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("materialize slots: %w", err)
	}

	refs, err := s.activeRefs(ctx, doctorID, stored)
	if err != nil {
		return nil, err
	}

	occupied := make(map[int64]struct{}, len(refs))
	for _, ref := range refs {
		occupied[ref.TimeSlotID] = struct{}{}
	}

	for _, slot := range stored {
		_, taken := occupied[slot.ID]
		views = append(views, domain.SlotView{
			TimeSlot: slot,
			State:    scheduling.SlotState(slot, taken, now),
		})
	}
	return views, nil
}

func (s *AvailabilityServiceImpl) BlockSlot(ctx context.Context, doctorID, slotID int64) (*domain.TimeSlot, error) {
	return s.setBlocked(ctx, doctorID, slotID, true)
}

func (s *AvailabilityServiceImpl) UnblockSlot(ctx context.Context, doctorID, slotID int64) (*domain.TimeSlot, error) {
	return s.setBlocked(ctx, doctorID, slotID, false)
}

func (s *AvailabilityServiceImpl) setBlocked(ctx context.Context, doctorID, slotID int64, blocked bool) (*domain.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get slot", zap.Int64("slot_id", slotID), zap.Error(err))
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.DoctorID != doctorID {
		return nil, domain.ErrForbidden
	}

	now := s.clock()
	if !slot.StartAt.After(now) {
		return nil, domain.ErrSlotExpired
	}
	if slot.IsBlocked == blocked {
		return slot, nil
	}

	updated, err := s.slots.SetBlocked(ctx, slotID, blocked)
	if err != nil {
		s.logger.Error("failed to change slot block", zap.Int64("slot_id", slotID), zap.Bool("blocked", blocked), zap.Error(err))
		return nil, fmt.Errorf("set slot blocked: %w", err)
	}

	eventType := domain.SlotEventUnblocked
	if blocked {
		eventType = domain.SlotEventBlocked
	}
	s.notifier.slotChanged(ctx, eventType, *updated, now)

	return updated, nil
}

// freeSlots stores the upcoming candidates and keeps the ones nobody holds.
func (s *AvailabilityServiceImpl) freeSlots(ctx context.Context, doctorID int64, candidates []domain.TimeSlot, now time.Time) ([]domain.TimeSlot, error) {
	upcoming := scheduling.ListFreeSlots(candidates, nil, nil, now)
	if len(upcoming) == 0 {
		return []domain.TimeSlot{}, nil
	}

	stored, err := s.slots.Materialize(ctx, upcoming)
	if err != nil {
		s.logger.Error("failed to materialize slots", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("materialize slots: %w", err)
	}

	refs, err := s.activeRefs(ctx, doctorID, stored)
	if err != nil {
		return nil, err
	}

	blocked := make(map[int64]struct{})
	for _, slot := range stored {
		if slot.IsBlocked {
			blocked[slot.ID] = struct{}{}
		}
	}

	return scheduling.ListFreeSlots(stored, refs, blocked, now), nil
}

func (s *AvailabilityServiceImpl) activeRefs(ctx context.Context, doctorID int64, slots []domain.TimeSlot) ([]domain.BookingRef, error) {
	ids := make([]int64, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}

	refs, err := s.bookings.GetActiveBookingsForSlots(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load active bookings", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("load active bookings: %w", err)
	}

	if dup := scheduling.DetectDoubleBookings(refs); len(dup) > 0 {
		s.logger.DPanic("double booking detected",
			zap.Int64("doctor_id", doctorID),
			zap.Int64s("slot_ids", dup),
		)
		return nil, fmt.Errorf("%w: slots %v", domain.ErrDoubleBooking, dup)
	}
	return refs, nil
}

func (s *AvailabilityServiceImpl) clinicFor(ctx context.Context, doctorID, clinicID int64) (*domain.Clinic, *time.Location, error) {
	clinic, err := s.clinics.GetByID(ctx, clinicID)
	if err != nil {
		if errors.Is(err, domain.ErrClinicNotFound) {
			return nil, nil, err
		}
		s.logger.Error("failed to get clinic", zap.Int64("clinic_id", clinicID), zap.Error(err))
		return nil, nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic.DoctorID != doctorID {
		return nil, nil, domain.ErrClinicNotFound
	}

	loc, err := clinic.Location()
	if err != nil {
		s.logger.Error("clinic has an unusable timezone", zap.Int64("clinic_id", clinicID), zap.Error(err))
		return nil, nil, err
	}
	return clinic, loc, nil
}

func (s *AvailabilityServiceImpl) storeCached(ctx context.Context, doctorID, clinicID int64, date string, slots []domain.TimeSlot) {
	if err := s.cache.Set(ctx, doctorID, clinicID, date, slots); err != nil {
		s.logger.Warn("availability cache write failed", zap.Int64("doctor_id", doctorID), zap.Error(err))
	}
}

func (s *AvailabilityServiceImpl) logWarnings(doctorID int64, warnings []scheduling.RuleWarning) {
	for _, w := range warnings {
		s.logger.Warn("skipping malformed schedule rule",
			zap.Int64("doctor_id", doctorID),
			zap.Int64("rule_id", w.RuleID),
			zap.String("reason", w.Reason),
		)
	}
}

func parseDay(date string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrValidation, date)
	}
	return day, nil
}
