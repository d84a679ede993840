package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// StaffRepository handles persistence for gym staff.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByBiometricCode(ctx context.Context, gymID, code string) (*domain.Staff, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const query = `
        SELECT id, gym_id, name, phone, biometric_code, created_at
        FROM staff WHERE id=$1`

	var staff domain.Staff
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.GymID,
		&staff.Name,
		&staff.Phone,
		&staff.BiometricCode,
		&staff.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByBiometricCode(ctx context.Context, gymID, code string) (*domain.Staff, error) {
	const query = `
        SELECT id, gym_id, name, phone, biometric_code, created_at
        FROM staff WHERE gym_id=$1 AND biometric_code=$2`

	var staff domain.Staff
	if err := r.pool.QueryRow(ctx, query, gymID, code).Scan(
		&staff.ID,
		&staff.GymID,
		&staff.Name,
		&staff.Phone,
		&staff.BiometricCode,
		&staff.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
