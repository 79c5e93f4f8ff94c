package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medbook/internal/cache"
	"medbook/internal/domain"
)

// slotNotifier invalidates cached availability and tells live subscribers
// after a write changed which slots are free. Failures are logged only: the
// write has already been committed.
type slotNotifier struct {
	cache  cache.AvailabilityCache
	events SlotEventPublisher
	logger *zap.Logger
}

func newSlotNotifier(c cache.AvailabilityCache, events SlotEventPublisher, logger *zap.Logger) *slotNotifier {
	return &slotNotifier{cache: c, events: events, logger: logger}
}

func (n *slotNotifier) slotChanged(ctx context.Context, t domain.SlotEventType, slot domain.TimeSlot, at time.Time) {
	if err := n.cache.InvalidateDate(ctx, slot.DoctorID, slot.ClinicID, slot.Date); err != nil {
		n.logger.Warn("failed to invalidate availability cache",
			zap.Int64("doctor_id", slot.DoctorID),
			zap.String("date", slot.Date),
			zap.Error(err),
		)
	}
	n.events.PublishSlotEvent(domain.NewSlotEvent(t, slot, at))
}

func (n *slotNotifier) scheduleChanged(ctx context.Context, doctorID, clinicID int64, at time.Time) {
	if err := n.cache.InvalidateDoctor(ctx, doctorID); err != nil {
		n.logger.Warn("failed to invalidate availability cache",
			zap.Int64("doctor_id", doctorID),
			zap.Error(err),
		)
	}
	n.events.PublishSlotEvent(domain.SlotEvent{
		Type:       domain.SlotEventScheduleChanged,
		DoctorID:   doctorID,
		ClinicID:   clinicID,
		OccurredAt: at,
	})
}
