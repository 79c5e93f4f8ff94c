package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medbook/internal/domain"
)

type SlotRepo struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &SlotRepo{db: db}
}

const slotColumns = `id, schedule_rule_id, doctor_id, clinic_id, slot_date, start_at, end_at, is_blocked, booking_id`

func scanSlot(row pgx.Row) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var slotDate time.Time
	err := row.Scan(
		&slot.ID,
		&slot.ScheduleRuleID,
		&slot.DoctorID,
		&slot.ClinicID,
		&slotDate,
		&slot.StartAt,
		&slot.EndAt,
		&slot.IsBlocked,
		&slot.BookingID,
	)
	if err != nil {
		return nil, err
	}
	slot.Date = slotDate.Format(domain.DateLayout)
	return &slot, nil
}

// Materialize refreshes the end and date of a stored free slot when a rule
// edit changed them; booked rows keep the times their booking was made for.
func (r *SlotRepo) Materialize(ctx context.Context, candidates []domain.TimeSlot) ([]domain.TimeSlot, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	ruleIDs := make([]int64, len(candidates))
	doctorIDs := make([]int64, len(candidates))
	clinicIDs := make([]int64, len(candidates))
	dates := make([]time.Time, len(candidates))
	starts := make([]time.Time, len(candidates))
	ends := make([]time.Time, len(candidates))

	for i, c := range candidates {
		day, err := time.Parse(domain.DateLayout, c.Date)
		if err != nil {
			return nil, fmt.Errorf("slot date %q: %w", c.Date, err)
		}
		ruleIDs[i] = c.ScheduleRuleID
		doctorIDs[i] = c.DoctorID
		clinicIDs[i] = c.ClinicID
		dates[i] = day
		starts[i] = c.StartAt
		ends[i] = c.EndAt
	}

	insertQuery := `
		INSERT INTO time_slots (schedule_rule_id, doctor_id, clinic_id, slot_date, start_at, end_at)
		SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::bigint[], $4::date[], $5::timestamptz[], $6::timestamptz[])
		ON CONFLICT (schedule_rule_id, start_at) DO UPDATE
		SET end_at = EXCLUDED.end_at, slot_date = EXCLUDED.slot_date
		WHERE time_slots.booking_id IS NULL
			AND (time_slots.end_at <> EXCLUDED.end_at OR time_slots.slot_date <> EXCLUDED.slot_date)
	`
	if _, err := r.db.Exec(ctx, insertQuery, ruleIDs, doctorIDs, clinicIDs, dates, starts, ends); err != nil {
		return nil, fmt.Errorf("insert time slots: %w", err)
	}

	selectQuery := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE (schedule_rule_id, start_at) IN (
			SELECT * FROM unnest($1::bigint[], $2::timestamptz[])
		)
	`
	rows, err := r.db.Query(ctx, selectQuery, ruleIDs, starts)
	if err != nil {
		return nil, fmt.Errorf("select time slots: %w", err)
	}
	defer rows.Close()

	stored := make(map[domain.SlotKey]domain.TimeSlot, len(candidates))
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time slot: %w", err)
		}
		stored[slot.Key()] = *slot
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time slots: %w", err)
	}

	result := make([]domain.TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		s, ok := stored[c.Key()]
		if !ok {
			return nil, fmt.Errorf("time slot for rule %d at %s was not stored", c.ScheduleRuleID, c.StartAt)
		}
		loc := c.StartAt.Location()
		s.StartAt = s.StartAt.In(loc)
		s.EndAt = s.EndAt.In(loc)
		result = append(result, s)
	}

	return result, nil
}

func (r *SlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get time slot: %w", err)
	}

	return slot, nil
}

func (r *SlotRepo) SetBlocked(ctx context.Context, id int64, blocked bool) (*domain.TimeSlot, error) {
	query := `UPDATE time_slots SET is_blocked = $1 WHERE id = $2 RETURNING ` + slotColumns

	slot, err := scanSlot(r.db.QueryRow(ctx, query, blocked, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("set slot blocked: %w", err)
	}

	return slot, nil
}
