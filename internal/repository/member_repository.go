package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// MemberRepository handles persistence for gym members.
type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByBiometricCode(ctx context.Context, gymID, code string) (*domain.Member, error)
	List(ctx context.Context, gymID string, filter MemberFilter) ([]domain.Member, error)
}

// MemberFilter defines query params for member listing.
type MemberFilter struct {
	Status *domain.MemberStatus
	Limit  int
	Offset int
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository instantiates the repository.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	const query = `
        SELECT id, gym_id, name, phone, biometric_code, status, created_at
        FROM members WHERE id=$1`

	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.GymID,
		&member.Name,
		&member.Phone,
		&member.BiometricCode,
		&member.Status,
		&member.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByBiometricCode resolves a device-facing code within one gym. Exact
// string match only; codes are stored as the device reports them.
func (r *memberRepository) GetByBiometricCode(ctx context.Context, gymID, code string) (*domain.Member, error) {
	const query = `
        SELECT id, gym_id, name, phone, biometric_code, status, created_at
        FROM members WHERE gym_id=$1 AND biometric_code=$2`

	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, gymID, code).Scan(
		&member.ID,
		&member.GymID,
		&member.Name,
		&member.Phone,
		&member.BiometricCode,
		&member.Status,
		&member.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) List(ctx context.Context, gymID string, filter MemberFilter) ([]domain.Member, error) {
	query := `
        SELECT id, gym_id, name, phone, biometric_code, status, created_at
        FROM members`
	args := []any{gymID}
	clauses := []string{"gym_id=$1"}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Member
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(
			&member.ID,
			&member.GymID,
			&member.Name,
			&member.Phone,
			&member.BiometricCode,
			&member.Status,
			&member.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
