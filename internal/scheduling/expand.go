// Package scheduling turns weekly schedule rules into dated slots and decides
// which of them are free. Everything here is pure: the reference time is
// always passed in and nothing touches storage.
package scheduling

import (
	"sort"
	"time"

	"medbook/internal/domain"
)

// RuleWarning reports a rule that was skipped because it cannot produce slots.
type RuleWarning struct {
	RuleID int64
	Reason string
}

type ExpandResult struct {
	Slots    []domain.TimeSlot
	Warnings []RuleWarning
}

type RangeResult struct {
	Days     []domain.DaySlots
	Warnings []RuleWarning
}

// ExpandForDate produces the candidate slots of every active rule matching
// the weekday of date. date is read as a calendar day in date.Location();
// days before the day of now yield nothing. Slots are sorted by start time,
// ties broken by rule ID. Returned slots have no ID yet.
func ExpandForDate(rules []domain.WeeklyScheduleRule, date, now time.Time) ExpandResult {
	day := domain.TruncateToDay(date)
	today := domain.TruncateToDay(now.In(date.Location()))

	var res ExpandResult
	if day.Before(today) {
		return res
	}

	for _, rule := range rules {
		if !rule.IsActive() {
			continue
		}
		if reason := rule.Problem(); reason != "" {
			res.Warnings = append(res.Warnings, RuleWarning{RuleID: rule.ID, Reason: reason})
			continue
		}
		wd, _ := rule.DayOfWeek.Weekday()
		if wd != day.Weekday() {
			continue
		}
		res.Slots = append(res.Slots, expandRule(rule, day)...)
	}

	sortSlots(res.Slots)
	return res
}

// ExpandForRange applies ExpandForDate to every day from start to end
// inclusive. Days without slots are kept so callers see the full range.
func ExpandForRange(rules []domain.WeeklyScheduleRule, start, end, now time.Time) RangeResult {
	var res RangeResult
	first := domain.TruncateToDay(start)
	last := domain.TruncateToDay(end.In(start.Location()))
	if last.Before(first) {
		return res
	}

	seen := make(map[int64]struct{})
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		dayRes := ExpandForDate(rules, day, now)
		res.Days = append(res.Days, domain.DaySlots{
			Date:  day.Format(domain.DateLayout),
			Slots: dayRes.Slots,
		})
		for _, w := range dayRes.Warnings {
			if _, dup := seen[w.RuleID]; dup {
				continue
			}
			seen[w.RuleID] = struct{}{}
			res.Warnings = append(res.Warnings, w)
		}
	}
	return res
}

// expandRule steps through the rule window in elapsed time, so a day with a
// DST transition yields slots of the real duration and never a repeated or
// empty one. Wall times that do not exist on that day are normalized by
// time.Date.
func expandRule(rule domain.WeeklyScheduleRule, day time.Time) []domain.TimeSlot {
	step := time.Duration(rule.SlotDurationMinutes) * time.Minute
	start := rule.StartTime.On(day)
	end := rule.EndTime.On(day)
	date := day.Format(domain.DateLayout)

	var slots []domain.TimeSlot
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		slots = append(slots, domain.TimeSlot{
			ScheduleRuleID: rule.ID,
			DoctorID:       rule.DoctorID,
			ClinicID:       rule.ClinicID,
			Date:           date,
			StartAt:        cur,
			EndAt:          cur.Add(step),
		})
	}
	return slots
}

// RuleOffers reports whether rule, as it stands now, produces slot when
// expanded in loc. Slots stored before the rule was edited or deactivated
// fail this check and must not be claimed.
func RuleOffers(rule domain.WeeklyScheduleRule, slot domain.TimeSlot, loc *time.Location) bool {
	if slot.ScheduleRuleID != rule.ID || !rule.IsActive() || rule.Problem() != "" {
		return false
	}
	day, err := time.ParseInLocation(domain.DateLayout, slot.Date, loc)
	if err != nil {
		return false
	}
	if wd, _ := rule.DayOfWeek.Weekday(); wd != day.Weekday() {
		return false
	}
	for _, c := range expandRule(rule, day) {
		if c.StartAt.Equal(slot.StartAt) && c.EndAt.Equal(slot.EndAt) {
			return true
		}
	}
	return false
}

func sortSlots(slots []domain.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].StartAt.Equal(slots[j].StartAt) {
			return slots[i].StartAt.Before(slots[j].StartAt)
		}
		return slots[i].ScheduleRuleID < slots[j].ScheduleRuleID
	})
}
