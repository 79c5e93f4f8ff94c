package service

import (
	"context"
	"errors"
	"testing"

	"medbook/internal/domain"
)

func TestCreateRule_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	valid := domain.CreateRuleDTO{ClinicID: f.clinicID, DayOfWeek: "TUE", StartTime: "08:00", EndTime: "10:00", SlotDurationMinutes: 20}

	tests := []struct {
		name   string
		mutate func(*domain.CreateRuleDTO)
		want   error
	}{
		{"bad day", func(d *domain.CreateRuleDTO) { d.DayOfWeek = "Funday" }, domain.ErrValidation},
		{"bad time", func(d *domain.CreateRuleDTO) { d.StartTime = "8am" }, domain.ErrValidation},
		{"end before start", func(d *domain.CreateRuleDTO) { d.EndTime = "07:00" }, domain.ErrValidation},
		{"duration too short", func(d *domain.CreateRuleDTO) { d.SlotDurationMinutes = 1 }, domain.ErrValidation},
		{"window shorter than slot", func(d *domain.CreateRuleDTO) { d.EndTime = "08:10" }, domain.ErrValidation},
		{"unknown clinic", func(d *domain.CreateRuleDTO) { d.ClinicID = 99999 }, domain.ErrClinicNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := valid
			tt.mutate(&dto)
			if _, err := f.services.Schedule.CreateRule(ctx, f.doctorID, dto); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	rule, err := f.services.Schedule.CreateRule(ctx, f.doctorID, valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.DayOfWeek != domain.Tuesday || rule.Status != domain.RuleStatusActive {
		t.Errorf("unexpected rule %+v", rule)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != domain.SlotEventScheduleChanged {
		t.Errorf("expected a schedule.changed event, got %v", got)
	}
}

func TestCreateRule_ForeignClinic(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddDoctor(domain.Doctor{FullName: "Other"})

	_, err := f.services.Schedule.CreateRule(context.Background(), other, domain.CreateRuleDTO{
		ClinicID: f.clinicID, DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSetRuleStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if n := len(f.freeSlots(monday)); n != 6 {
		t.Fatalf("expected 6 slots, got %d", n)
	}

	rule, err := f.services.Schedule.SetRuleStatus(ctx, f.doctorID, f.rule.ID, domain.RuleStatusInactive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.IsActive() {
		t.Fatal("expected inactive rule")
	}
	if n := len(f.freeSlots(monday)); n != 0 {
		t.Fatalf("inactive rule must not produce slots, got %d", n)
	}

	rules, err := f.services.Schedule.ListRules(ctx, domain.RuleFilter{DoctorID: f.doctorID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("inactive rules are hidden by default, got %d", len(rules))
	}
	rules, err = f.services.Schedule.ListRules(ctx, domain.RuleFilter{DoctorID: f.doctorID, IncludeInactive: true})
	if err != nil || len(rules) != 1 {
		t.Fatalf("expected 1 rule with inactive included, got %d, %v", len(rules), err)
	}

	if _, err := f.services.Schedule.SetRuleStatus(ctx, f.doctorID, f.rule.ID, domain.RuleStatusActive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(f.freeSlots(monday)); n != 6 {
		t.Fatalf("reactivated rule must produce slots again, got %d", n)
	}

	if _, err := f.services.Schedule.SetRuleStatus(ctx, f.doctorID, f.rule.ID, "paused"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if _, err := f.services.Schedule.GetRule(ctx, f.doctorID+1, f.rule.ID); !errors.Is(err, domain.ErrRuleNotFound) {
		t.Errorf("rules of other doctors must not be visible, got %v", err)
	}
}
