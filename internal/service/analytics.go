package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/internal/storage"
)

const maxStatsRangeDays = 366

var exportHeader = []string{
	"booking_id", "slot_id", "patient_id", "clinic_id", "clinic_name",
	"status", "type", "start_at", "end_at", "price",
	"created_at", "canceled_at", "completed_at",
}

type AnalyticsServiceImpl struct {
	bookingRepo   repository.BookingRepository
	clinicRepo    repository.ClinicRepository
	fileStorage   storage.FileStorage
	clock         Clock
	presignExpiry time.Duration
	logger        *zap.Logger
}

func NewAnalyticsService(
	bookingRepo repository.BookingRepository,
	clinicRepo repository.ClinicRepository,
	fileStorage storage.FileStorage,
	clock Clock,
	presignExpiry time.Duration,
	logger *zap.Logger,
) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		bookingRepo:   bookingRepo,
		clinicRepo:    clinicRepo,
		fileStorage:   fileStorage,
		clock:         clock,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// DoctorStats aggregates the bookings that start between from and to,
// both inclusive calendar days in UTC.
func (s *AnalyticsServiceImpl) DoctorStats(ctx context.Context, doctorID int64, from, to string) (*domain.DoctorStats, error) {
	start, end, err := parseStatsRange(from, to)
	if err != nil {
		return nil, err
	}

	bookings, clinicNames, err := s.load(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &domain.DoctorStats{
		DoctorID: doctorID,
		From:     start,
		To:       end.AddDate(0, 0, -1),
		Total:    len(bookings),
		ByStatus: make(map[domain.BookingStatus]int),
		ByType:   make(map[domain.BookingType]int),
	}

	perClinic := make(map[int64]*domain.ClinicStats)
	for _, b := range bookings {
		stats.ByStatus[b.Status]++
		stats.ByType[b.Type]++

		cs, ok := perClinic[b.ClinicID]
		if !ok {
			cs = &domain.ClinicStats{ClinicID: b.ClinicID, ClinicName: clinicNames[b.ClinicID]}
			perClinic[b.ClinicID] = cs
		}
		cs.Bookings++

		if b.Status == domain.BookingStatusCompleted {
			stats.CompletedRevenue += b.Price
			cs.Revenue += b.Price
		}
	}

	stats.ByClinic = make([]domain.ClinicStats, 0, len(perClinic))
	for _, cs := range perClinic {
		stats.ByClinic = append(stats.ByClinic, *cs)
	}
	sort.Slice(stats.ByClinic, func(i, j int) bool { return stats.ByClinic[i].ClinicID < stats.ByClinic[j].ClinicID })

	if stats.Total > 0 {
		stats.CancellationRate = float64(stats.ByStatus[domain.BookingStatusCanceled]) / float64(stats.Total)
	}
	return stats, nil
}

// ExportBookings writes the bookings of the range as CSV to object storage
// and returns a time-limited download link.
func (s *AnalyticsServiceImpl) ExportBookings(ctx context.Context, doctorID int64, from, to string) (*domain.ExportResult, error) {
	if s.fileStorage == nil {
		return nil, domain.ErrFileStorageUnavailable
	}

	start, end, err := parseStatsRange(from, to)
	if err != nil {
		return nil, err
	}

	bookings, clinicNames, err := s.load(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	data, err := writeBookingsCSV(bookings, clinicNames)
	if err != nil {
		s.logger.Error("failed to encode bookings export", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("encode export: %w", err)
	}

	now := s.clock()
	objectName := fmt.Sprintf("%s/%d/bookings_%s_%s_%d.csv", storage.PrefixReports, doctorID, from, to, now.Unix())

	objectURL, err := s.fileStorage.UploadObject(ctx, objectName, data, "text/csv")
	if err != nil {
		s.logger.Error("failed to upload bookings export", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, fmt.Errorf("upload export: %w", err)
	}

	downloadURL, err := s.fileStorage.GetPresignedURL(ctx, objectURL, s.presignExpiry)
	if err != nil {
		s.logger.Error("failed to presign bookings export", zap.String("url", objectURL), zap.Error(err))
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Info("bookings exported",
		zap.Int64("doctor_id", doctorID),
		zap.Int("rows", len(bookings)),
		zap.String("object", objectName),
	)

	return &domain.ExportResult{
		ObjectURL:    objectURL,
		DownloadURL:  downloadURL,
		Rows:         len(bookings),
		GeneratedAt:  now,
		ExpiresAfter: s.presignExpiry.String(),
	}, nil
}

func (s *AnalyticsServiceImpl) load(ctx context.Context, doctorID int64, start, end time.Time) ([]domain.Booking, map[int64]string, error) {
	bookings, _, err := s.bookingRepo.List(ctx, domain.BookingFilter{
		DoctorID: &doctorID,
		From:     &start,
		To:       &end,
	})
	if err != nil {
		s.logger.Error("failed to load bookings for analytics", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, nil, fmt.Errorf("list bookings: %w", err)
	}

	clinics, err := s.clinicRepo.ListByDoctor(ctx, doctorID, true)
	if err != nil {
		s.logger.Error("failed to load clinics for analytics", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, nil, fmt.Errorf("list clinics: %w", err)
	}

	names := make(map[int64]string, len(clinics))
	for _, c := range clinics {
		names[c.ID] = c.Name
	}
	return bookings, names, nil
}

// parseStatsRange returns [from, to+1 day) in UTC.
func parseStatsRange(from, to string) (time.Time, time.Time, error) {
	start, err := parseDay(from, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := parseDay(to, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if last.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range end is before its start", domain.ErrValidation)
	}
	end := last.AddDate(0, 0, 1)
	if end.Sub(start) > maxStatsRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: at most %d days per report", domain.ErrRangeTooLarge, maxStatsRangeDays)
	}
	return start, end, nil
}

func writeBookingsCSV(bookings []domain.Booking, clinicNames map[int64]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		record := []string{
			strconv.FormatInt(b.ID, 10),
			strconv.FormatInt(b.TimeSlotID, 10),
			strconv.FormatInt(b.PatientID, 10),
			strconv.FormatInt(b.ClinicID, 10),
			clinicNames[b.ClinicID],
			string(b.Status),
			string(b.Type),
			b.StartAt.Format(time.RFC3339),
			b.EndAt.Format(time.RFC3339),
			strconv.FormatFloat(b.Price, 'f', 2, 64),
			b.CreatedAt.Format(time.RFC3339),
			formatOptionalTime(b.CanceledAt),
			formatOptionalTime(b.CompletedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
