// Package memory is an in-process implementation of the repository
// interfaces. A single mutex guards all state, so ClaimSlot is atomic in the
// same way the partial unique index makes it atomic in PostgreSQL.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/internal/scheduling"
)

type Store struct {
	mu sync.RWMutex

	users    map[int64]domain.User
	doctors  map[int64]domain.Doctor
	clinics  map[int64]domain.Clinic
	rules    map[int64]domain.WeeklyScheduleRule
	slots    map[int64]domain.TimeSlot
	slotKeys map[domain.SlotKey]int64
	bookings map[int64]domain.Booking

	// slot ID -> ID of the booking occupying it (the unique index)
	activeBySlot map[int64]int64

	seq int64
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]domain.User),
		doctors:      make(map[int64]domain.Doctor),
		clinics:      make(map[int64]domain.Clinic),
		rules:        make(map[int64]domain.WeeklyScheduleRule),
		slots:        make(map[int64]domain.TimeSlot),
		slotKeys:     make(map[domain.SlotKey]int64),
		bookings:     make(map[int64]domain.Booking),
		activeBySlot: make(map[int64]int64),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:     &userRepo{s},
		Doctor:   &doctorRepo{s},
		Clinic:   &clinicRepo{s},
		Schedule: &scheduleRepo{s},
		Slot:     &slotRepo{s},
		Booking:  &bookingRepo{s},
	}
}

// nextID must be called with mu held.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// AddUser seeds a user and returns its ID. Users are owned by the identity
// service, so there is no repository method to create them.
func (s *Store) AddUser(u domain.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.nextID()
	}
	s.users[u.ID] = u
	return u.ID
}

// AddDoctor seeds a doctor profile and returns its ID.
func (s *Store) AddDoctor(d domain.Doctor) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == 0 {
		d.ID = s.nextID()
	}
	s.doctors[d.ID] = d
	return d.ID
}

// offered reports whether the slot's rule still produces it. It must be
// called with mu held.
func (s *Store) offered(slot domain.TimeSlot) bool {
	rule, ok := s.rules[slot.ScheduleRuleID]
	if !ok {
		return false
	}
	clinic, ok := s.clinics[rule.ClinicID]
	if !ok {
		return false
	}
	loc, err := clinic.Location()
	if err != nil {
		return false
	}
	return scheduling.RuleOffers(rule, slot, loc)
}

func checkContext(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTransientConflict, err)
	}
	return err
}

func copySlot(slot domain.TimeSlot) domain.TimeSlot {
	if slot.BookingID != nil {
		id := *slot.BookingID
		slot.BookingID = &id
	}
	return slot
}

func copyBooking(b domain.Booking) *domain.Booking {
	if b.CanceledAt != nil {
		t := *b.CanceledAt
		b.CanceledAt = &t
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		b.CompletedAt = &t
	}
	return &b
}

type userRepo struct{ s *Store }

func (r *userRepo) PatientExists(ctx context.Context, id int64) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	return ok && u.IsActive && u.Role == domain.UserRolePatient, nil
}

type doctorRepo struct{ s *Store }

func (r *doctorRepo) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	return &d, nil
}

func (r *doctorRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.doctors {
		if d.UserID == userID {
			doctor := d
			return &doctor, nil
		}
	}
	return nil, domain.ErrDoctorNotFound
}

func (r *doctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var doctors []domain.Doctor
	for _, d := range r.s.doctors {
		if u, ok := r.s.users[d.UserID]; ok && !u.IsActive {
			continue
		}
		if filter.Specialty != "" && !containsFold(d.Specialty, filter.Specialty) {
			continue
		}
		doctors = append(doctors, d)
	}
	sortDoctors(doctors)

	total := len(doctors)
	return paginate(doctors, filter.Limit, filter.Offset), total, nil
}

func (r *doctorRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.doctors[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	d.PhotoURL = photoURL
	d.UpdatedAt = time.Now()
	r.s.doctors[id] = d
	return nil
}

type clinicRepo struct{ s *Store }

func (r *clinicRepo) Create(ctx context.Context, clinic domain.Clinic) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	clinic.ID = r.s.nextID()
	r.s.clinics[clinic.ID] = clinic
	return clinic.ID, nil
}

func (r *clinicRepo) GetByID(ctx context.Context, id int64) (*domain.Clinic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clinics[id]
	if !ok {
		return nil, domain.ErrClinicNotFound
	}
	return &c, nil
}

func (r *clinicRepo) Update(ctx context.Context, clinic domain.Clinic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clinics[clinic.ID]; !ok {
		return domain.ErrClinicNotFound
	}
	r.s.clinics[clinic.ID] = clinic
	return nil
}

func (r *clinicRepo) ListByDoctor(ctx context.Context, doctorID int64, includeInactive bool) ([]domain.Clinic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var clinics []domain.Clinic
	for _, c := range r.s.clinics {
		if c.DoctorID != doctorID || (!includeInactive && !c.IsActive) {
			continue
		}
		clinics = append(clinics, c)
	}
	sortByID(clinics, func(c domain.Clinic) int64 { return c.ID })
	return clinics, nil
}
