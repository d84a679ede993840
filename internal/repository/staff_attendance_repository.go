package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// StaffAttendanceRepository mirrors AttendanceRepository for the staff
// table. Kept separate on purpose; see domain.StaffAttendance.
type StaffAttendanceRepository interface {
	FindRecentCheckIn(ctx context.Context, staffID string, since time.Time) (*domain.StaffAttendance, error)
	InsertCheckIn(ctx context.Context, staffID string, checkIn time.Time) (*domain.StaffAttendance, error)
}

type staffAttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewStaffAttendanceRepository instantiates the repository.
func NewStaffAttendanceRepository(pool *pgxpool.Pool) StaffAttendanceRepository {
	return &staffAttendanceRepository{pool: pool}
}

func (r *staffAttendanceRepository) FindRecentCheckIn(ctx context.Context, staffID string, since time.Time) (*domain.StaffAttendance, error) {
	const query = `
        SELECT id, staff_id, check_in, check_out
        FROM staff_attendance
        WHERE staff_id=$1 AND check_in >= $2
        ORDER BY check_in DESC
        LIMIT 1`

	var row domain.StaffAttendance
	if err := r.pool.QueryRow(ctx, query, staffID, since).Scan(
		&row.ID,
		&row.StaffID,
		&row.CheckIn,
		&row.CheckOut,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *staffAttendanceRepository) InsertCheckIn(ctx context.Context, staffID string, checkIn time.Time) (*domain.StaffAttendance, error) {
	const query = `
        INSERT INTO staff_attendance (staff_id, check_in)
        VALUES ($1,$2)
        RETURNING id`

	row := &domain.StaffAttendance{
		StaffID: staffID,
		CheckIn: checkIn,
	}
	if err := r.pool.QueryRow(ctx, query, staffID, checkIn).Scan(&row.ID); err != nil {
		return nil, err
	}
	return row, nil
}
