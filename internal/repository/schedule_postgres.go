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

type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &ScheduleRepo{db: db}
}

const ruleColumns = `id, doctor_id, clinic_id, day_of_week, start_minute, end_minute, slot_duration_minutes, status, created_at, updated_at`

// scanRule reads ruleColumns followed by any extra selected columns.
func scanRule(row pgx.Row, extra ...interface{}) (*domain.WeeklyScheduleRule, error) {
	var rule domain.WeeklyScheduleRule
	var startMinute, endMinute int
	dest := []interface{}{
		&rule.ID,
		&rule.DoctorID,
		&rule.ClinicID,
		&rule.DayOfWeek,
		&startMinute,
		&endMinute,
		&rule.SlotDurationMinutes,
		&rule.Status,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	rule.StartTime = domain.TimeOfDay(startMinute)
	rule.EndTime = domain.TimeOfDay(endMinute)
	return &rule, nil
}

func (r *ScheduleRepo) Create(ctx context.Context, rule domain.WeeklyScheduleRule) (int64, error) {
	var id int64

	query := `
		INSERT INTO schedule_rules (
			doctor_id, clinic_id, day_of_week, start_minute, end_minute, slot_duration_minutes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		rule.DoctorID,
		rule.ClinicID,
		rule.DayOfWeek,
		int(rule.StartTime),
		int(rule.EndTime),
		rule.SlotDurationMinutes,
		rule.Status,
		rule.CreatedAt,
		rule.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create schedule rule: %w", err)
	}

	return id, nil
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM schedule_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("get schedule rule: %w", err)
	}

	return rule, nil
}

func (r *ScheduleRepo) Update(ctx context.Context, rule domain.WeeklyScheduleRule, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE schedule_rules
		SET day_of_week = $1, start_minute = $2, end_minute = $3, slot_duration_minutes = $4, status = $5, updated_at = $6
		WHERE id = $7
	`

	tag, err := tx.Exec(
		ctx,
		query,
		rule.DayOfWeek,
		int(rule.StartTime),
		int(rule.EndTime),
		rule.SlotDurationMinutes,
		rule.Status,
		rule.UpdatedAt,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}

	pruneQuery := `
		DELETE FROM time_slots
		WHERE schedule_rule_id = $1 AND start_at > $2 AND booking_id IS NULL AND NOT is_blocked
		AND NOT EXISTS (SELECT 1 FROM bookings b WHERE b.time_slot_id = time_slots.id)
	`
	if _, err := tx.Exec(ctx, pruneQuery, rule.ID, now); err != nil {
		return fmt.Errorf("prune slots of rule %d: %w", rule.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *ScheduleRepo) List(ctx context.Context, filter domain.RuleFilter) ([]domain.WeeklyScheduleRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM schedule_rules WHERE doctor_id = $1`
	args := []interface{}{filter.DoctorID}

	if filter.ClinicID != nil {
		args = append(args, *filter.ClinicID)
		query += fmt.Sprintf(" AND clinic_id = $%d", len(args))
	}
	if !filter.IncludeInactive {
		args = append(args, domain.RuleStatusActive)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY clinic_id, CASE day_of_week
		WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3 WHEN 'THURSDAY' THEN 4
		WHEN 'FRIDAY' THEN 5 WHEN 'SATURDAY' THEN 6 ELSE 7 END, start_minute, id`

	return r.queryRules(ctx, query, args...)
}

func (r *ScheduleRepo) GetActiveRulesForDoctor(ctx context.Context, doctorID, clinicID int64) ([]domain.WeeklyScheduleRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM schedule_rules
		WHERE doctor_id = $1 AND clinic_id = $2 AND status = $3
		ORDER BY id
	`

	return r.queryRules(ctx, query, doctorID, clinicID, domain.RuleStatusActive)
}

func (r *ScheduleRepo) queryRules(ctx context.Context, query string, args ...interface{}) ([]domain.WeeklyScheduleRule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedule rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.WeeklyScheduleRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule rules: %w", err)
	}

	return rules, nil
}
