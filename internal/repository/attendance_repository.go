package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// AttendanceRepository handles member attendance rows. FindRecentCheckIn
// backs the suppression-window check and must hit storage on every call:
// dedup decisions have to observe rows inserted by other processes.
type AttendanceRepository interface {
	FindRecentCheckIn(ctx context.Context, memberID string, since time.Time) (*domain.Attendance, error)
	InsertCheckIn(ctx context.Context, memberID string, checkIn time.Time) (*domain.Attendance, error)
	ListByMember(ctx context.Context, memberID string, limit int) ([]domain.Attendance, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) FindRecentCheckIn(ctx context.Context, memberID string, since time.Time) (*domain.Attendance, error) {
	const query = `
        SELECT id, member_id, check_in, check_out, status
        FROM attendance
        WHERE member_id=$1 AND check_in >= $2
        ORDER BY check_in DESC
        LIMIT 1`

	var row domain.Attendance
	if err := r.pool.QueryRow(ctx, query, memberID, since).Scan(
		&row.ID,
		&row.MemberID,
		&row.CheckIn,
		&row.CheckOut,
		&row.Status,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *attendanceRepository) InsertCheckIn(ctx context.Context, memberID string, checkIn time.Time) (*domain.Attendance, error) {
	const query = `
        INSERT INTO attendance (member_id, check_in, status)
        VALUES ($1,$2,$3)
        RETURNING id`

	row := &domain.Attendance{
		MemberID: memberID,
		CheckIn:  checkIn,
		Status:   domain.AttendanceStatusPresent,
	}
	if err := r.pool.QueryRow(ctx, query, memberID, checkIn, row.Status).Scan(&row.ID); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *attendanceRepository) ListByMember(ctx context.Context, memberID string, limit int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, member_id, check_in, check_out, status
        FROM attendance
        WHERE member_id=$1
        ORDER BY check_in DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, memberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attendance
	for rows.Next() {
		var row domain.Attendance
		if err := rows.Scan(
			&row.ID,
			&row.MemberID,
			&row.CheckIn,
			&row.CheckOut,
			&row.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
