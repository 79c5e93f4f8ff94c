package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medbook/internal/domain"
)

type DoctorRepo struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) DoctorRepository {
	return &DoctorRepo{db: db}
}

const doctorColumns = `d.id, d.user_id, d.full_name, d.specialty, d.bio, d.photo_url, d.created_at, d.updated_at`

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var d domain.Doctor
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.FullName,
		&d.Specialty,
		&d.Bio,
		&d.PhotoURL,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors d WHERE d.id = $1`

	doctor, err := scanDoctor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return doctor, nil
}

func (r *DoctorRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors d WHERE d.user_id = $1`

	doctor, err := scanDoctor(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor by user: %w", err)
	}
	return doctor, nil
}

func (r *DoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	where := ` FROM doctors d JOIN users u ON u.id = d.user_id WHERE u.is_active`
	var args []interface{}

	if filter.Specialty != "" {
		args = append(args, "%"+filter.Specialty+"%")
		where += fmt.Sprintf(" AND d.specialty ILIKE $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	query := `SELECT ` + doctorColumns + where + ` ORDER BY d.full_name, d.id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []domain.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate doctors: %w", err)
	}

	return doctors, total, nil
}

func (r *DoctorRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	tag, err := r.db.Exec(ctx, `UPDATE doctors SET photo_url = $1, updated_at = NOW() WHERE id = $2`, photoURL, id)
	if err != nil {
		return fmt.Errorf("update doctor photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}
