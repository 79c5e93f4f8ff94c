package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medbook/internal/domain"
	"medbook/internal/scheduling"
	"medbook/pkg/database"
)

// These tests run against a real PostgreSQL when DATABASE_URL is set, each
// in its own schema with the migrations applied.

var pgMonday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type pgFixture struct {
	db       *pgxpool.Pool
	repos    *Repositories
	rule     domain.WeeklyScheduleRule
	patients []int64
	now      time.Time
}

func newTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}
	ctx := context.Background()

	admin, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	schema := fmt.Sprintf("medbook_test_%d", time.Now().UnixNano())
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	cfg.MaxConns = 16

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	if err := database.RunMigrations(ctx, db, "../../migrations", zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func newPGFixture(t *testing.T, patients int) *pgFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()
	f := &pgFixture{db: db, repos: NewRepositories(db), now: pgMonday.Add(-time.Hour)}

	addUser := func(role domain.UserRole, n int) int64 {
		var id int64
		err := db.QueryRow(ctx,
			`INSERT INTO users (first_name, last_name, email, role) VALUES ($1, '', $2, $3) RETURNING id`,
			fmt.Sprintf("%s %d", role, n), fmt.Sprintf("%s%d@example.com", role, n), role,
		).Scan(&id)
		if err != nil {
			t.Fatalf("insert user: %v", err)
		}
		return id
	}

	var doctorID int64
	if err := db.QueryRow(ctx,
		`INSERT INTO doctors (user_id, full_name) VALUES ($1, 'Ada Lovelace') RETURNING id`,
		addUser(domain.UserRoleDoctor, 0),
	).Scan(&doctorID); err != nil {
		t.Fatalf("insert doctor: %v", err)
	}
	for i := 0; i < patients; i++ {
		f.patients = append(f.patients, addUser(domain.UserRolePatient, i))
	}

	clinicID, err := f.repos.Clinic.Create(ctx, domain.Clinic{
		DoctorID: doctorID, Name: "North Clinic", Timezone: "UTC", PriceInPerson: 80, IsActive: true,
		CreatedAt: f.now, UpdatedAt: f.now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.rule = domain.WeeklyScheduleRule{
		DoctorID: doctorID, ClinicID: clinicID, DayOfWeek: domain.Monday,
		StartTime: domain.NewTimeOfDay(9, 0), EndTime: domain.NewTimeOfDay(12, 0),
		SlotDurationMinutes: 30, Status: domain.RuleStatusActive,
		CreatedAt: f.now, UpdatedAt: f.now,
	}
	f.rule.ID, err = f.repos.Schedule.Create(ctx, f.rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func (f *pgFixture) materialize(t *testing.T) []domain.TimeSlot {
	t.Helper()
	res := scheduling.ExpandForDate([]domain.WeeklyScheduleRule{f.rule}, pgMonday, f.now)
	slots, err := f.repos.Slot.Materialize(context.Background(), res.Slots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return slots
}

func (f *pgFixture) claim(slotID, patientID int64) (*domain.Booking, error) {
	return f.repos.Booking.ClaimSlot(context.Background(), domain.ClaimRequest{
		SlotID:    slotID,
		PatientID: patientID,
		Details:   domain.BookingDetails{Type: domain.BookingTypeInPerson},
		Price:     80,
		Now:       f.now,
	})
}

func TestPostgres_MaterializeIsIdempotent(t *testing.T) {
	f := newPGFixture(t, 0)

	first := f.materialize(t)
	second := f.materialize(t)
	if len(first) != 6 || len(second) != 6 {
		t.Fatalf("expected 6 slots twice, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID == 0 || first[i].ID != second[i].ID {
			t.Fatalf("slot %d: expected stable ID, got %d and %d", i, first[i].ID, second[i].ID)
		}
	}

	var rows int
	if err := f.db.QueryRow(context.Background(), `SELECT COUNT(*) FROM time_slots`).Scan(&rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 6 {
		t.Errorf("expected 6 stored slots, got %d", rows)
	}
}

func TestPostgres_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	const workers = 12
	f := newPGFixture(t, workers)
	slot := f.materialize(t)[0]

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		rejected int
	)
	start := make(chan struct{})
	for _, patientID := range f.patients {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			<-start
			_, err := f.claim(slot.ID, patientID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrSlotAlreadyBooked):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(patientID)
	}
	close(start)
	wg.Wait()

	if winners != 1 || rejected != workers-1 {
		t.Fatalf("expected 1 winner and %d rejections, got %d and %d", workers-1, winners, rejected)
	}

	refs, err := f.repos.Booking.GetActiveBookingsForSlots(context.Background(), []int64{slot.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 active booking, got %d", len(refs))
	}
}

func TestPostgres_ReleaseThenReclaim(t *testing.T) {
	f := newPGFixture(t, 2)
	ctx := context.Background()
	slot := f.materialize(t)[0]

	booking, err := f.claim(slot.ID, f.patients[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	canceled, result, err := f.repos.Booking.Release(ctx, booking.ID, f.now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != domain.CancelResultCanceled || canceled.Status != domain.BookingStatusCanceled {
		t.Fatalf("unexpected release %s %s", result, canceled.Status)
	}
	if _, result, err = f.repos.Booking.Release(ctx, booking.ID, f.now); err != nil || result != domain.CancelResultAlreadyCanceled {
		t.Fatalf("expected ALREADY_CANCELED, got %s, %v", result, err)
	}

	stored, err := f.repos.Slot.GetByID(ctx, slot.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.BookingID != nil {
		t.Fatal("expected the slot to be released")
	}

	again, err := f.claim(slot.ID, f.patients[1])
	if err != nil {
		t.Fatalf("released slot must be claimable, got %v", err)
	}
	if again.ID == booking.ID {
		t.Fatal("expected a new booking")
	}
}

func TestPostgres_ActiveSlotIndexRejectsSecondBooking(t *testing.T) {
	f := newPGFixture(t, 2)
	slot := f.materialize(t)[0]

	booking, err := f.claim(slot.ID, f.patients[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.db.Exec(context.Background(), `
		INSERT INTO bookings (time_slot_id, patient_id, doctor_id, clinic_id, status, type, start_at, end_at)
		VALUES ($1, $2, $3, $4, 'CONFIRMED', 'ONLINE', $5, $6)
	`, slot.ID, f.patients[1], booking.DoctorID, booking.ClinicID, slot.StartAt, slot.EndAt)
	if !errors.Is(classifyError(err), domain.ErrSlotAlreadyBooked) {
		t.Fatalf("expected the partial unique index to reject the insert, got %v", err)
	}
}

func TestPostgres_LockTimeoutIsTransient(t *testing.T) {
	f := newPGFixture(t, 1)
	ctx := context.Background()
	slot := f.materialize(t)[0]

	tx, err := f.db.Begin(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, `SELECT id FROM time_slots WHERE id = $1 FOR UPDATE`, slot.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.claim(slot.ID, f.patients[0]); !errors.Is(err, domain.ErrTransientConflict) {
		t.Fatalf("expected ErrTransientConflict while the slot is locked, got %v", err)
	}
}

func TestPostgres_RuleChangesRetireStaleSlots(t *testing.T) {
	f := newPGFixture(t, 2)
	ctx := context.Background()
	slot := f.materialize(t)[0]

	booking, err := f.claim(slot.ID, f.patients[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := f.repos.Booking.Release(ctx, booking.ID, f.now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.rule.SlotDurationMinutes = 60
	if err := f.repos.Schedule.Update(ctx, f.rule, f.now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.claim(slot.ID, f.patients[1]); !errors.Is(err, domain.ErrSlotNotFound) {
		t.Fatalf("stale 30 minute slot must not be claimable, got %v", err)
	}

	refreshed := f.materialize(t)
	if len(refreshed) != 3 || refreshed[0].ID != slot.ID || refreshed[0].Duration() != time.Hour {
		t.Fatalf("expected the 09:00 row refreshed to 1h, got %+v", refreshed)
	}
	if _, err := f.claim(slot.ID, f.patients[1]); err != nil {
		t.Fatalf("refreshed slot must be claimable, got %v", err)
	}

	f.rule.Status = domain.RuleStatusInactive
	if err := f.repos.Schedule.Update(ctx, f.rule, f.now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.claim(refreshed[1].ID, f.patients[0]); !errors.Is(err, domain.ErrSlotNotFound) {
		t.Fatalf("slot of a deactivated rule must not be claimable, got %v", err)
	}
}

func TestPostgres_RuleStatusColumn(t *testing.T) {
	f := newPGFixture(t, 0)
	ctx := context.Background()

	stored, err := f.repos.Schedule.GetByID(ctx, f.rule.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.IsActive() {
		t.Errorf("expected an active rule, got status %q", stored.Status)
	}

	var status string
	err = f.db.QueryRow(ctx, `
		INSERT INTO schedule_rules (doctor_id, clinic_id, day_of_week, start_minute, end_minute, slot_duration_minutes)
		VALUES ($1, $2, 'TUESDAY', 540, 600, 30)
		RETURNING status
	`, f.rule.DoctorID, f.rule.ClinicID).Scan(&status)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if domain.RuleStatus(status) != domain.RuleStatusActive {
		t.Errorf("expected default status %q, got %q", domain.RuleStatusActive, status)
	}

	_, err = f.db.Exec(ctx, `
		INSERT INTO schedule_rules (doctor_id, clinic_id, day_of_week, start_minute, end_minute, slot_duration_minutes, status)
		VALUES ($1, $2, 'TUESDAY', 540, 600, 30, 'ACTIVE')
	`, f.rule.DoctorID, f.rule.ClinicID)
	if err == nil {
		t.Fatal("expected an unknown rule status to be rejected")
	}
}
