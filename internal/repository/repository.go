package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medbook/internal/domain"
)

type Repositories struct {
	User     UserRepository
	Doctor   DoctorRepository
	Clinic   ClinicRepository
	Schedule ScheduleRepository
	Slot     SlotRepository
	Booking  BookingRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Doctor:   NewDoctorRepository(db),
		Clinic:   NewClinicRepository(db),
		Schedule: NewScheduleRepository(db),
		Slot:     NewSlotRepository(db),
		Booking:  NewBookingRepository(db),
	}
}

type UserRepository interface {
	PatientExists(ctx context.Context, id int64) (bool, error)
}

type DoctorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error)
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
}

type ClinicRepository interface {
	Create(ctx context.Context, clinic domain.Clinic) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Clinic, error)
	Update(ctx context.Context, clinic domain.Clinic) error
	ListByDoctor(ctx context.Context, doctorID int64, includeInactive bool) ([]domain.Clinic, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, rule domain.WeeklyScheduleRule) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error)
	// Update saves the rule and drops its future slots that are neither
	// booked nor blocked. Existing bookings are untouched.
	Update(ctx context.Context, rule domain.WeeklyScheduleRule, now time.Time) error
	List(ctx context.Context, filter domain.RuleFilter) ([]domain.WeeklyScheduleRule, error)
	GetActiveRulesForDoctor(ctx context.Context, doctorID, clinicID int64) ([]domain.WeeklyScheduleRule, error)
}

type SlotRepository interface {
	// Materialize stores candidate slots that are not stored yet, refreshes
	// the end of stored free slots whose rule changed, and returns the stored
	// version of every candidate, in input order.
	Materialize(ctx context.Context, candidates []domain.TimeSlot) ([]domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) (*domain.TimeSlot, error)
}

type BookingRepository interface {
	// ClaimSlot atomically inserts a PENDING booking for a free slot. It is
	// the only place exclusivity is decided. A slot its rule no longer
	// produces is reported as ErrSlotNotFound.
	ClaimSlot(ctx context.Context, req domain.ClaimRequest) (*domain.Booking, error)
	// Release cancels the booking and frees its slot if the slot is still
	// in the future.
	Release(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, domain.CancelResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
	GetActiveBookingsForSlots(ctx context.Context, slotIDs []int64) ([]domain.BookingRef, error)
	// UpdateStatus moves a booking from one status to another only if it is
	// still in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, now time.Time) (*domain.Booking, error)
	AutoConfirmPending(ctx context.Context, now time.Time) (int64, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}
