package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"medbook/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &UserRepo{db: db}
}

func (r *UserRepo) PatientExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2 AND is_active)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id, domain.UserRolePatient).Scan(&exists); err != nil {
		return false, fmt.Errorf("check patient: %w", err)
	}
	return exists, nil
}
