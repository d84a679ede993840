package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// SMSSettingsRepository reads per-gym SMS provider settings. Returns nil
// without error when a gym has never configured SMS.
type SMSSettingsRepository interface {
	GetByGym(ctx context.Context, gymID string) (*domain.SMSSettings, error)
}

type smsSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSMSSettingsRepository instantiates the repository.
func NewSMSSettingsRepository(pool *pgxpool.Pool) SMSSettingsRepository {
	return &smsSettingsRepository{pool: pool}
}

func (r *smsSettingsRepository) GetByGym(ctx context.Context, gymID string) (*domain.SMSSettings, error) {
	const query = `
        SELECT gym_id, account_sid, auth_token, phone_number, enable_checkin, checkin_template
        FROM sms_settings WHERE gym_id=$1`

	var settings domain.SMSSettings
	if err := r.pool.QueryRow(ctx, query, gymID).Scan(
		&settings.GymID,
		&settings.AccountSID,
		&settings.AuthToken,
		&settings.PhoneNumber,
		&settings.EnableCheckin,
		&settings.CheckinTemplate,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}
