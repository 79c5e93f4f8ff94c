package scheduling

import (
	"testing"
	"time"
	_ "time/tzdata"

	"medbook/internal/domain"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func rule(id int64, day domain.DayOfWeek, start, end string, minutes int) domain.WeeklyScheduleRule {
	s, err := domain.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := domain.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return domain.WeeklyScheduleRule{
		ID:                  id,
		DoctorID:            10,
		ClinicID:            20,
		DayOfWeek:           day,
		StartTime:           s,
		EndTime:             e,
		SlotDurationMinutes: minutes,
		Status:              domain.RuleStatusActive,
	}
}

func TestExpandForDate_HalfHourMorning(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "12:00", 30)}
	now := monday.Add(-24 * time.Hour)

	res := ExpandForDate(rules, monday, now)
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", res.Warnings)
	}
	if len(res.Slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(res.Slots))
	}

	wantStarts := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	for i, slot := range res.Slots {
		if got := slot.StartAt.Format("15:04"); got != wantStarts[i] {
			t.Errorf("slot %d: expected start %s, got %s", i, wantStarts[i], got)
		}
		if slot.Duration() != 30*time.Minute {
			t.Errorf("slot %d: expected 30m, got %v", i, slot.Duration())
		}
		if slot.Date != "2026-03-02" || slot.DoctorID != 10 || slot.ClinicID != 20 || slot.ScheduleRuleID != 1 {
			t.Errorf("slot %d: unexpected fields %+v", i, slot)
		}
	}
}

func TestExpandForDate_DropsTrailingPartialSlot(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "10:00", 40)}

	res := ExpandForDate(rules, monday, monday)
	if len(res.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(res.Slots))
	}
	if got := res.Slots[0].EndAt.Format("15:04"); got != "09:40" {
		t.Errorf("expected end 09:40, got %s", got)
	}
}

func TestExpandForDate_PastDateIsEmpty(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "12:00", 30)}
	now := monday.AddDate(0, 0, 1).Add(8 * time.Hour)

	res := ExpandForDate(rules, monday, now)
	if len(res.Slots) != 0 {
		t.Fatalf("expected no slots for past date, got %d", len(res.Slots))
	}
}

func TestExpandForDate_TodayStillExpands(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "12:00", 30)}
	now := monday.Add(10*time.Hour + 15*time.Minute)

	res := ExpandForDate(rules, monday, now)
	if len(res.Slots) != 6 {
		t.Fatalf("expansion of today must not filter by time, got %d slots", len(res.Slots))
	}
}

func TestExpandForDate_WeekdayMismatch(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Tuesday, "09:00", "12:00", 30)}

	res := ExpandForDate(rules, monday, monday)
	if len(res.Slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(res.Slots))
	}
}

func TestExpandForDate_IgnoresInactiveRules(t *testing.T) {
	r := rule(1, domain.Monday, "09:00", "12:00", 30)
	r.Status = domain.RuleStatusInactive

	res := ExpandForDate([]domain.WeeklyScheduleRule{r}, monday, monday)
	if len(res.Slots) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("expected nothing from an inactive rule, got %+v", res)
	}
}

func TestExpandForDate_SkipsMalformedRulesWithWarning(t *testing.T) {
	good := rule(1, domain.Monday, "14:00", "15:00", 30)
	inverted := rule(2, domain.Monday, "12:00", "09:00", 30)
	zero := rule(3, domain.Monday, "09:00", "12:00", 0)

	res := ExpandForDate([]domain.WeeklyScheduleRule{inverted, good, zero}, monday, monday)
	if len(res.Slots) != 2 {
		t.Fatalf("expected 2 slots from the valid rule, got %d", len(res.Slots))
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", res.Warnings)
	}
	if res.Warnings[0].RuleID != 2 || res.Warnings[1].RuleID != 3 {
		t.Errorf("unexpected warning order %+v", res.Warnings)
	}
}

func TestExpandForDate_OverlappingRulesBothEmitSorted(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{
		rule(7, domain.Monday, "10:00", "11:00", 30),
		rule(3, domain.Monday, "09:30", "10:30", 30),
	}

	res := ExpandForDate(rules, monday, monday)
	if len(res.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(res.Slots))
	}

	want := []struct {
		start string
		rule  int64
	}{{"09:30", 3}, {"10:00", 3}, {"10:00", 7}, {"10:30", 7}}
	for i, w := range want {
		s := res.Slots[i]
		if s.StartAt.Format("15:04") != w.start || s.ScheduleRuleID != w.rule {
			t.Errorf("slot %d: expected %s/rule %d, got %s/rule %d",
				i, w.start, w.rule, s.StartAt.Format("15:04"), s.ScheduleRuleID)
		}
	}
}

func TestExpandForDate_UsesDateLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "10:00", 60)}

	// 2026-03-01 22:00 UTC is already Monday in UTC+5.
	now := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	res := ExpandForDate(rules, date, now)
	if len(res.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(res.Slots))
	}
	want := time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC)
	if !res.Slots[0].StartAt.Equal(want) {
		t.Errorf("expected start %v, got %v", want, res.Slots[0].StartAt.UTC())
	}
}

func TestExpandForDate_EndOfDay(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "22:00", "24:00", 60)}

	res := ExpandForDate(rules, monday, monday)
	if len(res.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(res.Slots))
	}
	if !res.Slots[1].EndAt.Equal(monday.AddDate(0, 0, 1)) {
		t.Errorf("expected last slot to end at midnight, got %v", res.Slots[1].EndAt)
	}
}

func TestExpandForRange(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{
		rule(1, domain.Monday, "09:00", "10:00", 30),
		rule(2, domain.Wednesday, "09:00", "10:00", 60),
		rule(3, domain.Friday, "10:00", "09:00", 30),
	}

	res := ExpandForRange(rules, monday, monday.AddDate(0, 0, 6), monday)
	if len(res.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(res.Days))
	}

	counts := map[string]int{}
	for _, d := range res.Days {
		counts[d.Date] = len(d.Slots)
	}
	if counts["2026-03-02"] != 2 || counts["2026-03-04"] != 1 || counts["2026-03-03"] != 0 {
		t.Errorf("unexpected per-day counts %v", counts)
	}
	if res.Days[0].Date != "2026-03-02" || res.Days[6].Date != "2026-03-08" {
		t.Errorf("days out of order: first %s last %s", res.Days[0].Date, res.Days[6].Date)
	}

	if len(res.Warnings) != 1 || res.Warnings[0].RuleID != 3 {
		t.Errorf("expected one deduplicated warning for rule 3, got %+v", res.Warnings)
	}
}

func TestExpandForRange_Inverted(t *testing.T) {
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Monday, "09:00", "10:00", 30)}

	res := ExpandForRange(rules, monday, monday.AddDate(0, 0, -1), monday)
	if len(res.Days) != 0 {
		t.Fatalf("expected no days, got %d", len(res.Days))
	}
}

func assertContiguous(t *testing.T, slots []domain.TimeSlot, step time.Duration) {
	t.Helper()
	seen := make(map[domain.SlotKey]struct{})
	for i, slot := range slots {
		if slot.Duration() != step {
			t.Errorf("slot %d: expected %v, got %v (%s - %s)", i, step, slot.Duration(), slot.StartAt, slot.EndAt)
		}
		if _, dup := seen[slot.Key()]; dup {
			t.Errorf("slot %d: duplicate key %+v", i, slot.Key())
		}
		seen[slot.Key()] = struct{}{}
		if i > 0 && !slot.StartAt.Equal(slots[i-1].EndAt) {
			t.Errorf("slot %d: starts at %s, previous ends at %s", i, slot.StartAt, slots[i-1].EndAt)
		}
	}
}

func TestExpandForDate_SpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Clocks jump from 02:00 EST to 03:00 EDT.
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Sunday, "01:00", "04:00", 60)}

	res := ExpandForDate(rules, day, day.Add(-time.Hour))
	if len(res.Slots) != 2 {
		t.Fatalf("expected 2 one-hour slots, got %d", len(res.Slots))
	}
	assertContiguous(t, res.Slots, time.Hour)

	if got := res.Slots[1].StartAt.Format("15:04 MST"); got != "03:00 EDT" {
		t.Errorf("expected second slot at 03:00 EDT, got %s", got)
	}
	if got := res.Slots[1].EndAt.Format("15:04 MST"); got != "04:00 EDT" {
		t.Errorf("expected window to end at 04:00 EDT, got %s", got)
	}
}

func TestExpandForDate_FallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 01:00-02:00 happens twice.
	day := time.Date(2026, 11, 1, 0, 0, 0, 0, ny)
	rules := []domain.WeeklyScheduleRule{rule(1, domain.Sunday, "01:00", "04:00", 60)}

	res := ExpandForDate(rules, day, day.Add(-time.Hour))
	if len(res.Slots) < 3 {
		t.Fatalf("expected at least 3 slots, got %d", len(res.Slots))
	}
	assertContiguous(t, res.Slots, time.Hour)

	last := res.Slots[len(res.Slots)-1]
	if got := last.EndAt.Format("15:04 MST"); got != "04:00 EST" {
		t.Errorf("expected window to end at 04:00 EST, got %s", got)
	}
}

func TestRuleOffers(t *testing.T) {
	current := rule(1, domain.Monday, "09:00", "12:00", 30)
	slot := ExpandForDate([]domain.WeeklyScheduleRule{current}, monday, monday).Slots[2]

	if !RuleOffers(current, slot, time.UTC) {
		t.Fatal("expanded slot must be offered by its own rule")
	}

	inactive := current
	inactive.Status = domain.RuleStatusInactive
	longer := current
	longer.SlotDurationMinutes = 60
	moved := current
	moved.DayOfWeek = domain.Tuesday
	shorter := current
	shorter.EndTime = domain.NewTimeOfDay(10, 0)
	other := current
	other.ID = 2

	tests := []struct {
		name string
		rule domain.WeeklyScheduleRule
	}{
		{"deactivated", inactive},
		{"duration changed", longer},
		{"day changed", moved},
		{"window shortened", shorter},
		{"different rule", other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if RuleOffers(tt.rule, slot, time.UTC) {
				t.Errorf("slot %s - %s must not be offered", slot.StartAt.Format("15:04"), slot.EndAt.Format("15:04"))
			}
		})
	}

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if RuleOffers(current, slot, berlin) {
		t.Error("slot expanded in UTC must not match the rule after a timezone change")
	}
}
