package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/pkg/validator"
)

type ClinicServiceImpl struct {
	repo     repository.ClinicRepository
	notifier *slotNotifier
	clock    Clock
	logger   *zap.Logger
}

func NewClinicService(repo repository.ClinicRepository, notifier *slotNotifier, clock Clock, logger *zap.Logger) *ClinicServiceImpl {
	return &ClinicServiceImpl{
		repo:     repo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ClinicServiceImpl) Create(ctx context.Context, doctorID int64, dto domain.CreateClinicDTO) (*domain.Clinic, error) {
	now := s.clock()
	clinic := domain.Clinic{
		DoctorID:      doctorID,
		Name:          validator.CollapseSpaces(validator.SanitizeString(dto.Name)),
		Address:       validator.CollapseSpaces(validator.SanitizeString(dto.Address)),
		Timezone:      dto.Timezone,
		PriceInPerson: dto.PriceInPerson,
		PriceOnline:   dto.PriceOnline,
		AutoConfirm:   dto.AutoConfirm,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateClinic(clinic); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, clinic)
	if err != nil {
		s.logger.Error("failed to create clinic", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("create clinic: %w", err)
	}
	clinic.ID = id

	s.logger.Info("clinic created", zap.Int64("clinic_id", id), zap.Int64("doctor_id", doctorID))
	return &clinic, nil
}

func (s *ClinicServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Clinic, error) {
	clinic, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClinicNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get clinic", zap.Int64("clinic_id", id), zap.Error(err))
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return clinic, nil
}

func (s *ClinicServiceImpl) Update(ctx context.Context, doctorID, clinicID int64, dto domain.UpdateClinicDTO) (*domain.Clinic, error) {
	clinic, err := s.owned(ctx, doctorID, clinicID)
	if err != nil {
		return nil, err
	}

	timezoneChanged := false
	if dto.Name != nil {
		clinic.Name = validator.CollapseSpaces(validator.SanitizeString(*dto.Name))
	}
	if dto.Address != nil {
		clinic.Address = validator.CollapseSpaces(validator.SanitizeString(*dto.Address))
	}
	if dto.Timezone != nil && *dto.Timezone != clinic.Timezone {
		clinic.Timezone = *dto.Timezone
		timezoneChanged = true
	}
	if dto.PriceInPerson != nil {
		clinic.PriceInPerson = *dto.PriceInPerson
	}
	if dto.PriceOnline != nil {
		clinic.PriceOnline = *dto.PriceOnline
	}
	if dto.AutoConfirm != nil {
		clinic.AutoConfirm = *dto.AutoConfirm
	}
	if err := validateClinic(*clinic); err != nil {
		return nil, err
	}

	if err := s.save(ctx, clinic); err != nil {
		return nil, err
	}
	if timezoneChanged {
		s.notifier.scheduleChanged(ctx, doctorID, clinicID, clinic.UpdatedAt)
	}
	return clinic, nil
}

// SetActive opens or closes a clinic for new bookings. Existing bookings
// are kept either way.
func (s *ClinicServiceImpl) SetActive(ctx context.Context, doctorID, clinicID int64, active bool) (*domain.Clinic, error) {
	clinic, err := s.owned(ctx, doctorID, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic.IsActive == active {
		return clinic, nil
	}

	clinic.IsActive = active
	if err := s.save(ctx, clinic); err != nil {
		return nil, err
	}
	s.notifier.scheduleChanged(ctx, doctorID, clinicID, clinic.UpdatedAt)
	return clinic, nil
}

func (s *ClinicServiceImpl) ListByDoctor(ctx context.Context, doctorID int64, includeInactive bool) ([]domain.Clinic, error) {
	clinics, err := s.repo.ListByDoctor(ctx, doctorID, includeInactive)
	if err != nil {
		s.logger.Error("failed to list clinics", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	if clinics == nil {
		clinics = []domain.Clinic{}
	}
	return clinics, nil
}

func (s *ClinicServiceImpl) owned(ctx context.Context, doctorID, clinicID int64) (*domain.Clinic, error) {
	clinic, err := s.GetByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic.DoctorID != doctorID {
		return nil, domain.ErrForbidden
	}
	return clinic, nil
}

func (s *ClinicServiceImpl) save(ctx context.Context, clinic *domain.Clinic) error {
	clinic.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, *clinic); err != nil {
		if errors.Is(err, domain.ErrClinicNotFound) {
			return err
		}
		s.logger.Error("failed to update clinic", zap.Int64("clinic_id", clinic.ID), zap.Error(err))
		return fmt.Errorf("update clinic: %w", err)
	}
	return nil
}

func validateClinic(c domain.Clinic) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: clinic name is required", domain.ErrValidation)
	case !validator.ValidateLength(c.Name, 200):
		return fmt.Errorf("%w: clinic name is too long", domain.ErrValidation)
	case !validator.ValidateTimezone(c.Timezone):
		return fmt.Errorf("%w: unknown timezone %q", domain.ErrValidation, c.Timezone)
	case c.PriceInPerson < 0 || c.PriceOnline < 0:
		return fmt.Errorf("%w: prices cannot be negative", domain.ErrValidation)
	}
	return nil
}
