package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"medbook/config"
	"medbook/internal/domain"
	"medbook/internal/repository"
	"medbook/internal/repository/memory"
)

// Sunday; the fixture rule runs on Mondays 09:00-12:00 in 30 minute slots.
var sunday = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const monday = "2026-03-02"

type fixture struct {
	t        *testing.T
	store    *memory.Store
	repos    *repository.Repositories
	services *Services
	events   *recordingPublisher
	files    *memoryFiles
	cache    *mapCache

	mu  sync.Mutex
	now time.Time

	doctorID  int64
	clinicID  int64
	patientID int64
	rule      *domain.WeeklyScheduleRule
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRepos(t, nil)
}

// newFixtureWithRepos lets a test wrap the store's repositories before the
// services are built.
func newFixtureWithRepos(t *testing.T, wrap func(*repository.Repositories)) *fixture {
	t.Helper()

	f := &fixture{
		t:      t,
		store:  memory.NewStore(),
		events: &recordingPublisher{},
		files:  newMemoryFiles(),
		cache:  &mapCache{entries: make(map[string][]domain.TimeSlot)},
		now:    sunday,
	}
	f.repos = f.store.Repositories()
	if wrap != nil {
		wrap(f.repos)
	}

	f.services = NewServices(Deps{
		Repos:       f.repos,
		Logger:      zap.NewNop(),
		Config:      testConfig(),
		FileStorage: f.files,
		Cache:       f.cache,
		Events:      f.events,
		Clock:       f.clock,
	})

	doctorUser := f.store.AddUser(domain.User{FirstName: "Ada", Role: domain.UserRoleDoctor, IsActive: true})
	f.doctorID = f.store.AddDoctor(domain.Doctor{UserID: doctorUser, FullName: "Ada Lovelace", Specialty: "Cardiology"})
	f.patientID = f.store.AddUser(domain.User{FirstName: "Pat", Role: domain.UserRolePatient, IsActive: true})

	ctx := context.Background()
	clinic, err := f.services.Clinic.Create(ctx, f.doctorID, domain.CreateClinicDTO{
		Name:          "North Clinic",
		Timezone:      "UTC",
		PriceInPerson: 80,
		PriceOnline:   50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.clinicID = clinic.ID

	f.rule, err = f.services.Schedule.CreateRule(ctx, f.doctorID, domain.CreateRuleDTO{
		ClinicID:            f.clinicID,
		DayOfWeek:           "MONDAY",
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.events.reset()

	return f
}

func testConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{
			ClaimTimeout: time.Second,
			ClaimRetries: 4,
			ClaimBackoff: time.Millisecond,
			MaxRangeDays: 62,
		},
		S3: config.S3Config{PresignExpiry: time.Hour},
	}
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) setNow(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *fixture) freeSlots(date string) []domain.TimeSlot {
	f.t.Helper()
	slots, err := f.services.Availability.GetAvailability(context.Background(), f.doctorID, f.clinicID, date)
	if err != nil {
		f.t.Fatalf("unexpected error: %v", err)
	}
	return slots
}

func (f *fixture) book(slotID int64) *domain.Booking {
	f.t.Helper()
	booking, err := f.services.Booking.BookSlot(context.Background(), slotID, f.patientID, domain.BookingDetails{Type: domain.BookingTypeInPerson})
	if err != nil {
		f.t.Fatalf("unexpected error: %v", err)
	}
	return booking
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SlotEvent
}

func (p *recordingPublisher) PublishSlotEvent(e domain.SlotEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func (p *recordingPublisher) types() []domain.SlotEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.SlotEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type memoryFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{objects: make(map[string][]byte)}
}

const memoryFilesBase = "mem://bucket/"

func (m *memoryFiles) UploadImage(ctx context.Context, prefix string, data []byte, filename string) (string, error) {
	return m.UploadObject(ctx, prefix+"/"+filename, data, "image/png")
}

func (m *memoryFiles) UploadObject(_ context.Context, objectName string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return memoryFilesBase + objectName, nil
}

func (m *memoryFiles) DeleteFile(_ context.Context, fileURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := strings.TrimPrefix(fileURL, memoryFilesBase)
	delete(m.objects, name)
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *memoryFiles) GetPresignedURL(_ context.Context, fileURL string, expiry time.Duration) (string, error) {
	return fileURL + "?expires=" + expiry.String(), nil
}

func (m *memoryFiles) object(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	return data, ok
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]domain.TimeSlot
}

func mapCacheKey(doctorID, clinicID int64, date string) string {
	return fmt.Sprintf("%d/%d/%s", doctorID, clinicID, date)
}

func (c *mapCache) Get(_ context.Context, doctorID, clinicID int64, date string) ([]domain.TimeSlot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.entries[mapCacheKey(doctorID, clinicID, date)]
	return slots, ok, nil
}

func (c *mapCache) Set(_ context.Context, doctorID, clinicID int64, date string, slots []domain.TimeSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[mapCacheKey(doctorID, clinicID, date)] = slots
	return nil
}

func (c *mapCache) InvalidateDate(_ context.Context, doctorID, clinicID int64, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, mapCacheKey(doctorID, clinicID, date))
	return nil
}

func (c *mapCache) InvalidateDoctor(_ context.Context, doctorID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := fmt.Sprintf("%d/", doctorID)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *mapCache) Close() error { return nil }

func (c *mapCache) has(doctorID, clinicID int64, date string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[mapCacheKey(doctorID, clinicID, date)]
	return ok
}
