package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekdays = map[DayOfWeek]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

func (d DayOfWeek) IsValid() bool {
	_, ok := weekdays[d]
	return ok
}

func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	wd, ok := weekdays[d]
	return wd, ok
}

func DayOfWeekFromWeekday(wd time.Weekday) DayOfWeek {
	for d, w := range weekdays {
		if w == wd {
			return d
		}
	}
	return ""
}

// ParseDayOfWeek accepts full or short English names in any case and
// ISO numbers 1 (Monday) through 7 (Sunday).
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > 7 {
			return "", fmt.Errorf("%w: day of week %d out of range", ErrValidation, n)
		}
		return DayOfWeekFromWeekday(time.Weekday(n % 7)), nil
	}
	for d := range weekdays {
		if string(d) == v || (len(v) >= 3 && strings.HasPrefix(string(d), v)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown day of week %q", ErrValidation, s)
}

// TimeOfDay is a wall-clock time with minute precision, stored as minutes
// since midnight. 24:00 is allowed as an end of day.
type TimeOfDay int

const EndOfDay TimeOfDay = 24 * 60

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return EndOfDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrValidation, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t <= EndOfDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On returns the instant at this time of day on the calendar day of date,
// in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusInactive RuleStatus = "inactive"
)

const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 240
)

type WeeklyScheduleRule struct {
	ID                  int64      `json:"id"`
	DoctorID            int64      `json:"doctor_id"`
	ClinicID            int64      `json:"clinic_id"`
	DayOfWeek           DayOfWeek  `json:"day_of_week"`
	StartTime           TimeOfDay  `json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime             TimeOfDay  `json:"end_time" swaggertype:"string" example:"12:00"`
	SlotDurationMinutes int        `json:"slot_duration_minutes"`
	Status              RuleStatus `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (r WeeklyScheduleRule) IsActive() bool {
	return r.Status == RuleStatusActive
}

// Problem reports why a stored rule cannot produce slots, or "" if it can.
func (r WeeklyScheduleRule) Problem() string {
	switch {
	case !r.DayOfWeek.IsValid():
		return fmt.Sprintf("invalid day of week %q", r.DayOfWeek)
	case !r.StartTime.IsValid() || !r.EndTime.IsValid():
		return "time of day out of range"
	case r.EndTime <= r.StartTime:
		return fmt.Sprintf("end time %s is not after start time %s", r.EndTime, r.StartTime)
	case r.SlotDurationMinutes <= 0:
		return fmt.Sprintf("non-positive slot duration %d", r.SlotDurationMinutes)
	}
	return ""
}

// Validate applies the stricter checks used when a doctor saves a rule.
func (r WeeklyScheduleRule) Validate() error {
	if p := r.Problem(); p != "" {
		return fmt.Errorf("%w: %s", ErrValidation, p)
	}
	if r.SlotDurationMinutes < MinSlotDurationMinutes || r.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrValidation, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if int(r.EndTime-r.StartTime) < r.SlotDurationMinutes {
		return fmt.Errorf("%w: window %s-%s is shorter than one slot", ErrValidation, r.StartTime, r.EndTime)
	}
	return nil
}

type CreateRuleDTO struct {
	ClinicID            int64  `json:"clinic_id" binding:"required"`
	DayOfWeek           string `json:"day_of_week" binding:"required" example:"MONDAY"`
	StartTime           string `json:"start_time" binding:"required" example:"09:00"`
	EndTime             string `json:"end_time" binding:"required" example:"12:00"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" binding:"required" example:"30"`
}

type UpdateRuleDTO struct {
	DayOfWeek           *string `json:"day_of_week,omitempty"`
	StartTime           *string `json:"start_time,omitempty"`
	EndTime             *string `json:"end_time,omitempty"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes,omitempty"`
}

type RuleFilter struct {
	DoctorID        int64
	ClinicID        *int64
	IncludeInactive bool
}
