package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medbook/internal/domain"
	"medbook/internal/repository"
)

type ScheduleServiceImpl struct {
	repo       repository.ScheduleRepository
	clinicRepo repository.ClinicRepository
	notifier   *slotNotifier
	clock      Clock
	logger     *zap.Logger
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	clinicRepo repository.ClinicRepository,
	notifier *slotNotifier,
	clock Clock,
	logger *zap.Logger,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:       repo,
		clinicRepo: clinicRepo,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (s *ScheduleServiceImpl) CreateRule(ctx context.Context, doctorID int64, dto domain.CreateRuleDTO) (*domain.WeeklyScheduleRule, error) {
	if err := s.checkClinic(ctx, doctorID, dto.ClinicID); err != nil {
		return nil, err
	}

	day, err := domain.ParseDayOfWeek(dto.DayOfWeek)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseTimeOfDay(dto.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(dto.EndTime)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	rule := domain.WeeklyScheduleRule{
		DoctorID:            doctorID,
		ClinicID:            dto.ClinicID,
		DayOfWeek:           day,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: dto.SlotDurationMinutes,
		Status:              domain.RuleStatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("failed to create schedule rule", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("create schedule rule: %w", err)
	}
	rule.ID = id

	s.logger.Info("schedule rule created",
		zap.Int64("rule_id", id),
		zap.Int64("doctor_id", doctorID),
		zap.String("day", string(day)),
	)
	s.notifier.scheduleChanged(ctx, doctorID, rule.ClinicID, now)

	return &rule, nil
}

func (s *ScheduleServiceImpl) GetRule(ctx context.Context, doctorID, ruleID int64) (*domain.WeeklyScheduleRule, error) {
	rule, err := s.repo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get schedule rule", zap.Int64("rule_id", ruleID), zap.Error(err))
		return nil, fmt.Errorf("get schedule rule: %w", err)
	}
	if rule.DoctorID != doctorID {
		return nil, domain.ErrRuleNotFound
	}
	return rule, nil
}

// UpdateRule changes a rule in place. Bookings made under the old rule keep
// their slots; only free future slots are regenerated.
func (s *ScheduleServiceImpl) UpdateRule(ctx context.Context, doctorID, ruleID int64, dto domain.UpdateRuleDTO) (*domain.WeeklyScheduleRule, error) {
	rule, err := s.GetRule(ctx, doctorID, ruleID)
	if err != nil {
		return nil, err
	}

	if dto.DayOfWeek != nil {
		if rule.DayOfWeek, err = domain.ParseDayOfWeek(*dto.DayOfWeek); err != nil {
			return nil, err
		}
	}
	if dto.StartTime != nil {
		if rule.StartTime, err = domain.ParseTimeOfDay(*dto.StartTime); err != nil {
			return nil, err
		}
	}
	if dto.EndTime != nil {
		if rule.EndTime, err = domain.ParseTimeOfDay(*dto.EndTime); err != nil {
			return nil, err
		}
	}
	if dto.SlotDurationMinutes != nil {
		rule.SlotDurationMinutes = *dto.SlotDurationMinutes
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	return s.save(ctx, rule)
}

func (s *ScheduleServiceImpl) SetRuleStatus(ctx context.Context, doctorID, ruleID int64, status domain.RuleStatus) (*domain.WeeklyScheduleRule, error) {
	if status != domain.RuleStatusActive && status != domain.RuleStatusInactive {
		return nil, fmt.Errorf("%w: unknown rule status %q", domain.ErrValidation, status)
	}

	rule, err := s.GetRule(ctx, doctorID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.Status == status {
		return rule, nil
	}
	if status == domain.RuleStatusActive {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}

	rule.Status = status
	return s.save(ctx, rule)
}

func (s *ScheduleServiceImpl) save(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error) {
	now := s.clock()
	rule.UpdatedAt = now

	if err := s.repo.Update(ctx, *rule, now); err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update schedule rule", zap.Int64("rule_id", rule.ID), zap.Error(err))
		return nil, fmt.Errorf("update schedule rule: %w", err)
	}

	s.logger.Info("schedule rule updated",
		zap.Int64("rule_id", rule.ID),
		zap.String("status", string(rule.Status)),
	)
	s.notifier.scheduleChanged(ctx, rule.DoctorID, rule.ClinicID, now)

	return rule, nil
}

func (s *ScheduleServiceImpl) ListRules(ctx context.Context, filter domain.RuleFilter) ([]domain.WeeklyScheduleRule, error) {
	rules, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list schedule rules", zap.Int64("doctor_id", filter.DoctorID), zap.Error(err))
		return nil, fmt.Errorf("list schedule rules: %w", err)
	}
	if rules == nil {
		rules = []domain.WeeklyScheduleRule{}
	}
	return rules, nil
}

func (s *ScheduleServiceImpl) checkClinic(ctx context.Context, doctorID, clinicID int64) error {
	clinic, err := s.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		if errors.Is(err, domain.ErrClinicNotFound) {
			return err
		}
		s.logger.Error("failed to get clinic", zap.Int64("clinic_id", clinicID), zap.Error(err))
		return fmt.Errorf("get clinic: %w", err)
	}
	if clinic.DoctorID != doctorID {
		return domain.ErrForbidden
	}
	return nil
}
