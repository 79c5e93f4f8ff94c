package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"medbook/internal/domain"
)

type scheduleRepo struct{ s *Store }

func (r *scheduleRepo) Create(ctx context.Context, rule domain.WeeklyScheduleRule) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rule.ID = r.s.nextID()
	r.s.rules[rule.ID] = rule
	return rule.ID, nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rule, ok := r.s.rules[id]
	if !ok {
		return nil, domain.ErrRuleNotFound
	}
	return &rule, nil
}

func (r *scheduleRepo) Update(ctx context.Context, rule domain.WeeklyScheduleRule, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rules[rule.ID]; !ok {
		return domain.ErrRuleNotFound
	}
	r.s.rules[rule.ID] = rule

	referenced := make(map[int64]struct{})
	for _, b := range r.s.bookings {
		referenced[b.TimeSlotID] = struct{}{}
	}
	for id, slot := range r.s.slots {
		if slot.ScheduleRuleID != rule.ID || !slot.StartAt.After(now) || slot.BookingID != nil || slot.IsBlocked {
			continue
		}
		if _, ok := referenced[id]; ok {
			continue
		}
		delete(r.s.slots, id)
		delete(r.s.slotKeys, slot.Key())
	}
	return nil
}

func (r *scheduleRepo) List(ctx context.Context, filter domain.RuleFilter) ([]domain.WeeklyScheduleRule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rules []domain.WeeklyScheduleRule
	for _, rule := range r.s.rules {
		if rule.DoctorID != filter.DoctorID {
			continue
		}
		if filter.ClinicID != nil && rule.ClinicID != *filter.ClinicID {
			continue
		}
		if !filter.IncludeInactive && !rule.IsActive() {
			continue
		}
		rules = append(rules, rule)
	}

	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.ClinicID != b.ClinicID {
			return a.ClinicID < b.ClinicID
		}
		if da, db := dayIndex(a.DayOfWeek), dayIndex(b.DayOfWeek); da != db {
			return da < db
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
	return rules, nil
}

func (r *scheduleRepo) GetActiveRulesForDoctor(ctx context.Context, doctorID, clinicID int64) ([]domain.WeeklyScheduleRule, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rules []domain.WeeklyScheduleRule
	for _, rule := range r.s.rules {
		if rule.DoctorID == doctorID && rule.ClinicID == clinicID && rule.IsActive() {
			rules = append(rules, rule)
		}
	}
	sortByID(rules, func(r domain.WeeklyScheduleRule) int64 { return r.ID })
	return rules, nil
}

type slotRepo struct{ s *Store }

func (r *slotRepo) Materialize(ctx context.Context, candidates []domain.TimeSlot) ([]domain.TimeSlot, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		id, ok := r.s.slotKeys[key]
		switch {
		case !ok:
			c.ID = r.s.nextID()
			c.IsBlocked = false
			c.BookingID = nil
			r.s.slots[c.ID] = c
			r.s.slotKeys[key] = c.ID
			id = c.ID
		case r.s.slots[id].BookingID == nil:
			// A rule edit can leave a row for this start with the old end.
			existing := r.s.slots[id]
			existing.EndAt = c.EndAt
			existing.Date = c.Date
			r.s.slots[id] = existing
		}

		stored := copySlot(r.s.slots[id])
		loc := c.StartAt.Location()
		stored.StartAt = stored.StartAt.In(loc)
		stored.EndAt = stored.EndAt.In(loc)
		result = append(result, stored)
	}
	return result, nil
}

func (r *slotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	slot = copySlot(slot)
	return &slot, nil
}

func (r *slotRepo) SetBlocked(ctx context.Context, id int64, blocked bool) (*domain.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	slot.IsBlocked = blocked
	r.s.slots[id] = slot

	slot = copySlot(slot)
	return &slot, nil
}

func dayIndex(d domain.DayOfWeek) int {
	wd, ok := d.Weekday()
	if !ok {
		return 8
	}
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortDoctors(doctors []domain.Doctor) {
	sort.Slice(doctors, func(i, j int) bool {
		if doctors[i].FullName != doctors[j].FullName {
			return doctors[i].FullName < doctors[j].FullName
		}
		return doctors[i].ID < doctors[j].ID
	})
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
