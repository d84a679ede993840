package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/repository"
	apperrors "github.com/spec-kit/gym-attendance/pkg/util"
)

// MemberService exposes member directory reads for the admin API.
type MemberService struct {
	members    repository.MemberRepository
	attendance repository.AttendanceRepository
}

// NewMemberService constructs the service.
func NewMemberService(members repository.MemberRepository, attendance repository.AttendanceRepository) *MemberService {
	return &MemberService{members: members, attendance: attendance}
}

// List returns the gym's members.
func (s *MemberService) List(ctx context.Context, gymID string, filter repository.MemberFilter) ([]domain.Member, error) {
	return s.members.List(ctx, gymID, filter)
}

// ExportCSV renders the gym's member directory as CSV.
func (s *MemberService) ExportCSV(ctx context.Context, gymID string) ([]byte, error) {
	members, err := s.members.List(ctx, gymID, repository.MemberFilter{Limit: 10000})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "phone", "biometric_code", "status", "joined"}); err != nil {
		return nil, err
	}
	for _, m := range members {
		code := ""
		if m.BiometricCode != nil {
			code = *m.BiometricCode
		}
		record := []string{m.ID, m.Name, m.Phone, code, string(m.Status), m.CreatedAt.Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Attendance returns recent attendance rows for one member, enforcing
// that the member belongs to the caller's gym.
func (s *MemberService) Attendance(ctx context.Context, gymID, memberID string, limit int) ([]domain.Attendance, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("member", nil)
		}
		return nil, err
	}
	if member.GymID != gymID {
		return nil, apperrors.NewNotFound("member", nil)
	}
	return s.attendance.ListByMember(ctx, memberID, limit)
}
