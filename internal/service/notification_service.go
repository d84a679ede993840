package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/events"
	"github.com/spec-kit/gym-attendance/internal/repository"
)

// SMSSender delivers one message through a gym's configured provider.
// The provider integration itself lives behind this interface.
type SMSSender interface {
	Send(ctx context.Context, settings domain.SMSSettings, to, body string) error
}

// LogSender is the bundled SMSSender: it only logs. Deployments plug a
// real provider client in behind the same interface.
type LogSender struct {
	Logger *zap.Logger
}

// Send logs the would-be message.
func (l *LogSender) Send(_ context.Context, settings domain.SMSSettings, to, body string) error {
	l.Logger.Debug("sms send",
		zap.String("from", settings.PhoneNumber),
		zap.String("to", to),
		zap.String("body", body))
	return nil
}

// NotificationService sends check-in SMS notifications for gyms that have
// them enabled. Failures are logged and never propagate: a broken SMS
// provider must not affect attendance recording.
type NotificationService struct {
	dispatcher events.Dispatcher
	settings   repository.SMSSettingsRepository
	sender     SMSSender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, settings repository.SMSSettingsRepository, sender SMSSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		settings:   settings,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to check-in events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventMemberCheckedIn, n.handleMemberCheckedIn)
}

func (n *NotificationService) handleMemberCheckedIn(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MemberCheckedInPayload)
	if !ok {
		return nil
	}
	if payload.Phone == "" {
		return nil
	}

	settings, err := n.settings.GetByGym(ctx, event.GymID)
	if err != nil {
		n.logger.Warn("sms settings lookup failed", zap.String("gym_id", event.GymID), zap.Error(err))
		return nil
	}
	if settings == nil || !settings.Configured() || !settings.EnableCheckin {
		return nil
	}

	body := renderTemplate(settings.CheckinTemplate, payload.MemberName)
	if err := n.sender.Send(ctx, *settings, payload.Phone, body); err != nil {
		n.logger.Warn("sms send failed",
			zap.String("gym_id", event.GymID),
			zap.String("member_id", payload.MemberID),
			zap.Error(err))
	}
	return nil
}

func renderTemplate(template, name string) string {
	if strings.TrimSpace(template) == "" {
		template = "Hi {name}, your check-in is recorded. Have a great workout!"
	}
	return strings.ReplaceAll(template, "{name}", name)
}
