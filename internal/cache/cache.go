// Package cache holds short-lived copies of computed availability so repeated
// reads of a popular doctor's day do not expand and materialize every time.
// Entries are an optimization only: callers re-filter cached slots against
// the current time and every booking path invalidates before returning.
package cache

import (
	"context"
	"fmt"

	"medbook/internal/domain"
)

type AvailabilityCache interface {
	Get(ctx context.Context, doctorID, clinicID int64, date string) ([]domain.TimeSlot, bool, error)
	Set(ctx context.Context, doctorID, clinicID int64, date string, slots []domain.TimeSlot) error
	InvalidateDate(ctx context.Context, doctorID, clinicID int64, date string) error
	InvalidateDoctor(ctx context.Context, doctorID int64) error
	Close() error
}

func availabilityKey(doctorID, clinicID int64, date string) string {
	return fmt.Sprintf("availability:%d:%d:%s", doctorID, clinicID, date)
}

func doctorPattern(doctorID int64) string {
	return fmt.Sprintf("availability:%d:*", doctorID)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, int64, int64, string) ([]domain.TimeSlot, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, int64, int64, string, []domain.TimeSlot) error { return nil }

func (Nop) InvalidateDate(context.Context, int64, int64, string) error { return nil }

func (Nop) InvalidateDoctor(context.Context, int64) error { return nil }

func (Nop) Close() error { return nil }
