package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medbook/config"
	"medbook/internal/cache"
	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/internal/storage"
)

// Clock returns the reference time used for every "is this in the past"
// decision. Production passes time.Now; tests pin it.
type Clock func() time.Time

// SlotEventPublisher fans slot changes out to live subscribers.
type SlotEventPublisher interface {
	PublishSlotEvent(event domain.SlotEvent)
}

type nopPublisher struct{}

func (nopPublisher) PublishSlotEvent(domain.SlotEvent) {}

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Cache       cache.AvailabilityCache
	Events      SlotEventPublisher
	Clock       Clock
}

type Services struct {
	Availability AvailabilityService
	Booking      BookingService
	Schedule     ScheduleService
	Clinic       ClinicService
	Doctor       DoctorService
	Analytics    AnalyticsService
}

func NewServices(deps Deps) *Services {
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Events == nil {
		deps.Events = nopPublisher{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	notifier := newSlotNotifier(deps.Cache, deps.Events, deps.Logger)

	return &Services{
		Availability: NewAvailabilityService(deps.Repos, deps.Cache, notifier, deps.Clock, deps.Config.Booking, deps.Logger),
		Booking:      NewBookingService(deps.Repos, notifier, deps.Clock, deps.Config.Booking, deps.Logger),
		Schedule:     NewScheduleService(deps.Repos.Schedule, deps.Repos.Clinic, notifier, deps.Clock, deps.Logger),
		Clinic:       NewClinicService(deps.Repos.Clinic, notifier, deps.Clock, deps.Logger),
		Doctor:       NewDoctorService(deps.Repos.Doctor, deps.Repos.Clinic, deps.FileStorage, deps.Logger),
		Analytics:    NewAnalyticsService(deps.Repos.Booking, deps.Repos.Clinic, deps.FileStorage, deps.Clock, deps.Config.S3.PresignExpiry, deps.Logger),
	}
}

type AvailabilityService interface {
	// GetAvailability returns the free slots of a doctor at a clinic on one
	// calendar day, given as YYYY-MM-DD in the clinic's timezone.
	GetAvailability(ctx context.Context, doctorID, clinicID int64, date string) ([]domain.TimeSlot, error)
	GetAvailableDays(ctx context.Context, doctorID, clinicID int64, from string, days int) ([]domain.AvailableDay, error)
	ListDaySlots(ctx context.Context, doctorID, clinicID int64, date string) ([]domain.SlotView, error)
	BlockSlot(ctx context.Context, doctorID, slotID int64) (*domain.TimeSlot, error)
	UnblockSlot(ctx context.Context, doctorID, slotID int64) (*domain.TimeSlot, error)
}

type BookingService interface {
	// BookSlot returns the new booking, or one of the booking outcome errors
	// (see domain.BookingOutcomeOf).
	BookSlot(ctx context.Context, slotID, patientID int64, details domain.BookingDetails) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, domain.CancelResult, error)
	ConfirmBooking(ctx context.Context, doctorID, bookingID int64) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, doctorID, bookingID int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
	RunLifecycle(ctx context.Context) (confirmed, completed int64, err error)
}

type ScheduleService interface {
	CreateRule(ctx context.Context, doctorID int64, dto domain.CreateRuleDTO) (*domain.WeeklyScheduleRule, error)
	GetRule(ctx context.Context, doctorID, ruleID int64) (*domain.WeeklyScheduleRule, error)
	UpdateRule(ctx context.Context, doctorID, ruleID int64, dto domain.UpdateRuleDTO) (*domain.WeeklyScheduleRule, error)
	SetRuleStatus(ctx context.Context, doctorID, ruleID int64, status domain.RuleStatus) (*domain.WeeklyScheduleRule, error)
	ListRules(ctx context.Context, filter domain.RuleFilter) ([]domain.WeeklyScheduleRule, error)
}

type ClinicService interface {
	Create(ctx context.Context, doctorID int64, dto domain.CreateClinicDTO) (*domain.Clinic, error)
	GetByID(ctx context.Context, id int64) (*domain.Clinic, error)
	Update(ctx context.Context, doctorID, clinicID int64, dto domain.UpdateClinicDTO) (*domain.Clinic, error)
	SetActive(ctx context.Context, doctorID, clinicID int64, active bool) (*domain.Clinic, error)
	ListByDoctor(ctx context.Context, doctorID int64, includeInactive bool) ([]domain.Clinic, error)
}

type DoctorService interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error)
	UploadPhoto(ctx context.Context, doctorID int64, photo []byte, filename string) (string, error)
	DeletePhoto(ctx context.Context, doctorID int64) error
}

type AnalyticsService interface {
	DoctorStats(ctx context.Context, doctorID int64, from, to string) (*domain.DoctorStats, error)
	ExportBookings(ctx context.Context, doctorID int64, from, to string) (*domain.ExportResult, error)
}
