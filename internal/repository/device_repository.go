package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// DeviceRepository handles persistence for registered biometric devices.
// The ingest gateway only ever reads; writes come from the admin API.
type DeviceRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Device, error)
	ListByGym(ctx context.Context, gymID string) ([]domain.Device, error)
	Create(ctx context.Context, device *domain.Device) error
	SetActive(ctx context.Context, gymID, code string, active bool) error
	Delete(ctx context.Context, gymID, code string) error
}

type deviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository instantiates the repository.
func NewDeviceRepository(pool *pgxpool.Pool) DeviceRepository {
	return &deviceRepository{pool: pool}
}

func (r *deviceRepository) GetByCode(ctx context.Context, code string) (*domain.Device, error) {
	const query = `
        SELECT code, gym_id, name, active, created_at
        FROM biometric_devices WHERE code=$1`

	var device domain.Device
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&device.Code,
		&device.GymID,
		&device.Name,
		&device.Active,
		&device.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) ListByGym(ctx context.Context, gymID string) ([]domain.Device, error) {
	const query = `
        SELECT code, gym_id, name, active, created_at
        FROM biometric_devices WHERE gym_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, gymID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Device
	for rows.Next() {
		var device domain.Device
		if err := rows.Scan(
			&device.Code,
			&device.GymID,
			&device.Name,
			&device.Active,
			&device.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, device)
	}
	return result, rows.Err()
}

func (r *deviceRepository) Create(ctx context.Context, device *domain.Device) error {
	const query = `
        INSERT INTO biometric_devices (code, gym_id, name, active)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		device.Code,
		device.GymID,
		device.Name,
		device.Active,
	).Scan(&device.CreatedAt)
}

func (r *deviceRepository) SetActive(ctx context.Context, gymID, code string, active bool) error {
	const query = `UPDATE biometric_devices SET active=$1 WHERE gym_id=$2 AND code=$3`

	cmd, err := r.pool.Exec(ctx, query, active, gymID, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, gymID, code string) error {
	const query = `DELETE FROM biometric_devices WHERE gym_id=$1 AND code=$2`

	cmd, err := r.pool.Exec(ctx, query, gymID, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
