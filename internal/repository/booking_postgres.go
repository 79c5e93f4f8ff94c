package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medbook/internal/domain"
	"medbook/internal/scheduling"
)

// claimLockTimeout bounds how long a claim waits on the slot row lock before
// PostgreSQL reports lock_not_available.
const claimLockTimeout = "2s"

type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{
		db: db,
	}
}

const bookingColumns = `id, time_slot_id, patient_id, doctor_id, clinic_id, status, type, notes, price, start_at, end_at, created_at, updated_at, canceled_at, completed_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.TimeSlotID,
		&b.PatientID,
		&b.DoctorID,
		&b.ClinicID,
		&b.Status,
		&b.Type,
		&b.Notes,
		&b.Price,
		&b.StartAt,
		&b.EndAt,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.CanceledAt,
		&b.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) ClaimSlot(ctx context.Context, req domain.ClaimRequest) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, classifyError(fmt.Errorf("begin claim transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+claimLockTimeout+"'"); err != nil {
		return nil, classifyError(fmt.Errorf("set lock timeout: %w", err))
	}

	slot, err := scanSlot(tx.QueryRow(ctx, `SELECT `+slotColumns+` FROM time_slots WHERE id = $1 FOR UPDATE`, req.SlotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, classifyError(fmt.Errorf("lock time slot: %w", err))
	}

	switch {
	case slot.IsBlocked:
		return nil, domain.ErrSlotBlocked
	case !slot.StartAt.After(req.Now):
		return nil, domain.ErrSlotExpired
	case slot.BookingID != nil:
		return nil, domain.ErrSlotAlreadyBooked
	}

	// FOR SHARE makes a concurrent rule edit wait for this claim, and this
	// claim wait for an edit already in progress.
	ruleQuery := `
		SELECT ` + ruleColumns + `, COALESCE((SELECT c.timezone FROM clinics c WHERE c.id = schedule_rules.clinic_id), '')
		FROM schedule_rules
		WHERE id = $1
		FOR SHARE
	`
	var clinic domain.Clinic
	rule, err := scanRule(tx.QueryRow(ctx, ruleQuery, slot.ScheduleRuleID), &clinic.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, classifyError(fmt.Errorf("lock schedule rule: %w", err))
	}
	loc, err := clinic.Location()
	if err != nil {
		return nil, fmt.Errorf("clinic of rule %d: %w", rule.ID, err)
	}
	if !scheduling.RuleOffers(*rule, *slot, loc) {
		return nil, fmt.Errorf("%w: rule %d no longer offers slot %d", domain.ErrSlotNotFound, rule.ID, slot.ID)
	}

	insertQuery := `
		INSERT INTO bookings (time_slot_id, patient_id, doctor_id, clinic_id, status, type, notes, price, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, insertQuery,
		slot.ID,
		req.PatientID,
		slot.DoctorID,
		slot.ClinicID,
		domain.BookingStatusPending,
		req.Details.Type,
		req.Details.Notes,
		req.Price,
		slot.StartAt,
		slot.EndAt,
		req.Now,
	))
	if err != nil {
		return nil, classifyError(fmt.Errorf("insert booking: %w", err))
	}

	if _, err := tx.Exec(ctx, `UPDATE time_slots SET booking_id = $1 WHERE id = $2`, booking.ID, slot.ID); err != nil {
		return nil, classifyError(fmt.Errorf("attach booking to slot: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyError(fmt.Errorf("commit claim: %w", err))
	}

	return booking, nil
}

func (r *BookingRepo) Release(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, domain.CancelResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", classifyError(fmt.Errorf("begin release transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.ErrBookingNotFound
		}
		return nil, "", classifyError(fmt.Errorf("lock booking: %w", err))
	}

	if booking.Status == domain.BookingStatusCanceled {
		return booking, domain.CancelResultAlreadyCanceled, nil
	}
	if err := domain.CanTransition(booking.Status, domain.BookingStatusCanceled); err != nil {
		return nil, "", err
	}

	updateQuery := `
		UPDATE bookings
		SET status = $1, canceled_at = $2, updated_at = $2
		WHERE id = $3
		RETURNING ` + bookingColumns
	booking, err = scanBooking(tx.QueryRow(ctx, updateQuery, domain.BookingStatusCanceled, now, bookingID))
	if err != nil {
		return nil, "", classifyError(fmt.Errorf("cancel booking: %w", err))
	}

	releaseQuery := `
		UPDATE time_slots
		SET booking_id = NULL
		WHERE id = $1 AND booking_id = $2 AND start_at > $3
	`
	if _, err := tx.Exec(ctx, releaseQuery, booking.TimeSlotID, booking.ID, now); err != nil {
		return nil, "", classifyError(fmt.Errorf("release slot: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", classifyError(fmt.Errorf("commit release: %w", err))
	}

	return booking, domain.CancelResultCanceled, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	var conditions []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.PatientID != nil {
		add("patient_id = $%d", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		add("doctor_id = $%d", *filter.DoctorID)
	}
	if filter.ClinicID != nil {
		add("clinic_id = $%d", *filter.ClinicID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("start_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("start_at < $%d", *filter.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings` + where + ` ORDER BY start_at, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *BookingRepo) GetActiveBookingsForSlots(ctx context.Context, slotIDs []int64) ([]domain.BookingRef, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, time_slot_id, status
		FROM bookings
		WHERE time_slot_id = ANY($1) AND status <> $2
	`

	rows, err := r.db.Query(ctx, query, slotIDs, domain.BookingStatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}
	defer rows.Close()

	var refs []domain.BookingRef
	for rows.Next() {
		var ref domain.BookingRef
		if err := rows.Scan(&ref.BookingID, &ref.TimeSlotID, &ref.Status); err != nil {
			return nil, fmt.Errorf("scan booking ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking refs: %w", err)
	}

	return refs, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, now time.Time) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1,
			updated_at = $2,
			completed_at = CASE WHEN $1 = 'COMPLETED' THEN $2 ELSE completed_at END
		WHERE id = $3 AND status = $4
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, to, now, id, from))
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, classifyError(fmt.Errorf("update booking status: %w", err))
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidStateTransition, id, current.Status)
}

func (r *BookingRepo) AutoConfirmPending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings b
		SET status = $1, updated_at = $2
		FROM clinics c
		WHERE b.clinic_id = c.id AND c.auto_confirm AND b.status = $3 AND b.start_at > $2
	`

	tag, err := r.db.Exec(ctx, query, domain.BookingStatusConfirmed, now, domain.BookingStatusPending)
	if err != nil {
		return 0, fmt.Errorf("auto confirm bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *BookingRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1, completed_at = $2, updated_at = $2
		WHERE status = $3 AND end_at <= $2
	`

	tag, err := r.db.Exec(ctx, query, domain.BookingStatusCompleted, now, domain.BookingStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}
