package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/internal/storage"
)

const maxPhotoBytes = 5 << 20

type DoctorServiceImpl struct {
	repo        repository.DoctorRepository
	clinicRepo  repository.ClinicRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewDoctorService(
	repo repository.DoctorRepository,
	clinicRepo repository.ClinicRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *DoctorServiceImpl {
	return &DoctorServiceImpl{
		repo:        repo,
		clinicRepo:  clinicRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// GetByID returns the doctor with the clinics that currently take bookings.
func (s *DoctorServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	clinics, err := s.clinicRepo.ListByDoctor(ctx, id, false)
	if err != nil {
		s.logger.Error("failed to list doctor clinics", zap.Int64("doctor_id", id), zap.Error(err))
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	doctor.Clinics = clinics

	return doctor, nil
}

func (s *DoctorServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get doctor by user", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return doctor, nil
}

func (s *DoctorServiceImpl) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	doctors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list doctors", zap.Error(err))
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	if doctors == nil {
		doctors = []domain.Doctor{}
	}
	return doctors, total, nil
}

func (s *DoctorServiceImpl) UploadPhoto(ctx context.Context, doctorID int64, photo []byte, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", domain.ErrFileStorageUnavailable
	}
	if len(photo) == 0 || len(photo) > maxPhotoBytes {
		return "", fmt.Errorf("%w: photo must be between 1 byte and %d MB", domain.ErrValidation, maxPhotoBytes>>20)
	}
	if contentType := http.DetectContentType(photo); !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: photo is %s, not an image", domain.ErrValidation, contentType)
	}

	doctor, err := s.get(ctx, doctorID)
	if err != nil {
		return "", err
	}

	url, err := s.fileStorage.UploadImage(ctx, storage.PrefixDoctorPhotos, photo, filename)
	if err != nil {
		s.logger.Error("failed to upload doctor photo", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return "", fmt.Errorf("upload photo: %w", err)
	}

	if err := s.repo.UpdatePhoto(ctx, doctorID, url); err != nil {
		s.logger.Error("failed to save doctor photo", zap.Int64("doctor_id", doctorID), zap.Error(err))
		if delErr := s.fileStorage.DeleteFile(ctx, url); delErr != nil {
			s.logger.Warn("failed to remove orphaned photo", zap.String("url", url), zap.Error(delErr))
		}
		return "", fmt.Errorf("save photo: %w", err)
	}

	if doctor.PhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, doctor.PhotoURL); err != nil {
			s.logger.Warn("failed to remove previous photo", zap.String("url", doctor.PhotoURL), zap.Error(err))
		}
	}

	s.logger.Info("doctor photo updated", zap.Int64("doctor_id", doctorID))
	return url, nil
}

func (s *DoctorServiceImpl) DeletePhoto(ctx context.Context, doctorID int64) error {
	if s.fileStorage == nil {
		return domain.ErrFileStorageUnavailable
	}

	doctor, err := s.get(ctx, doctorID)
	if err != nil {
		return err
	}
	if doctor.PhotoURL == "" {
		return nil
	}

	if err := s.repo.UpdatePhoto(ctx, doctorID, ""); err != nil {
		s.logger.Error("failed to clear doctor photo", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return fmt.Errorf("clear photo: %w", err)
	}
	if err := s.fileStorage.DeleteFile(ctx, doctor.PhotoURL); err != nil {
		s.logger.Warn("failed to remove photo object", zap.String("url", doctor.PhotoURL), zap.Error(err))
	}
	return nil
}

func (s *DoctorServiceImpl) get(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get doctor", zap.Int64("doctor_id", id), zap.Error(err))
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return doctor, nil
}
