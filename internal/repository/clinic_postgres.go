package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medbook/internal/domain"
)

type ClinicRepo struct {
	db *pgxpool.Pool
}

func NewClinicRepository(db *pgxpool.Pool) ClinicRepository {
	return &ClinicRepo{db: db}
}

const clinicColumns = `id, doctor_id, name, address, timezone, price_in_person, price_online, auto_confirm, is_active, created_at, updated_at`

func scanClinic(row pgx.Row) (*domain.Clinic, error) {
	var c domain.Clinic
	err := row.Scan(
		&c.ID,
		&c.DoctorID,
		&c.Name,
		&c.Address,
		&c.Timezone,
		&c.PriceInPerson,
		&c.PriceOnline,
		&c.AutoConfirm,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClinicRepo) Create(ctx context.Context, clinic domain.Clinic) (int64, error) {
	query := `
		INSERT INTO clinics (doctor_id, name, address, timezone, price_in_person, price_online, auto_confirm, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		clinic.DoctorID,
		clinic.Name,
		clinic.Address,
		clinic.Timezone,
		clinic.PriceInPerson,
		clinic.PriceOnline,
		clinic.AutoConfirm,
		clinic.IsActive,
		clinic.CreatedAt,
		clinic.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create clinic: %w", err)
	}

	return id, nil
}

func (r *ClinicRepo) GetByID(ctx context.Context, id int64) (*domain.Clinic, error) {
	clinic, err := scanClinic(r.db.QueryRow(ctx, `SELECT `+clinicColumns+` FROM clinics WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClinicNotFound
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return clinic, nil
}

func (r *ClinicRepo) Update(ctx context.Context, clinic domain.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, address = $2, timezone = $3, price_in_person = $4, price_online = $5,
			auto_confirm = $6, is_active = $7, updated_at = $8
		WHERE id = $9
	`

	tag, err := r.db.Exec(ctx, query,
		clinic.Name,
		clinic.Address,
		clinic.Timezone,
		clinic.PriceInPerson,
		clinic.PriceOnline,
		clinic.AutoConfirm,
		clinic.IsActive,
		clinic.UpdatedAt,
		clinic.ID,
	)
	if err != nil {
		return fmt.Errorf("update clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClinicNotFound
	}

	return nil
}

func (r *ClinicRepo) ListByDoctor(ctx context.Context, doctorID int64, includeInactive bool) ([]domain.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE doctor_id = $1`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	var clinics []domain.Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		clinics = append(clinics, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clinics: %w", err)
	}

	return clinics, nil
}
