package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/events"
)

type fakeSMSSettingsRepo struct {
	settings map[string]*domain.SMSSettings
}

func (f *fakeSMSSettingsRepo) GetByGym(_ context.Context, gymID string) (*domain.SMSSettings, error) {
	return f.settings[gymID], nil
}

type captureSender struct {
	sent []string
}

func (c *captureSender) Send(_ context.Context, _ domain.SMSSettings, to, body string) error {
	c.sent = append(c.sent, to+": "+body)
	return nil
}

func checkinEvent(gymID, phone string) events.Event {
	return events.Event{
		Type:  events.EventMemberCheckedIn,
		GymID: gymID,
		Payload: events.MemberCheckedInPayload{
			MemberID:   "M1",
			MemberName: "Asha",
			Phone:      phone,
			DeviceCode: "DEV1",
			CheckIn:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func newNotificationFixture(settings map[string]*domain.SMSSettings) (events.Dispatcher, *captureSender) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := &captureSender{}
	svc := NewNotificationService(dispatcher, &fakeSMSSettingsRepo{settings: settings}, sender, zap.NewNop())
	svc.RegisterHandlers()
	return dispatcher, sender
}

func TestNotification_SendsWhenEnabled(t *testing.T) {
	dispatcher, sender := newNotificationFixture(map[string]*domain.SMSSettings{
		"T1": {
			GymID: "T1", AccountSID: "sid", AuthToken: "tok", PhoneNumber: "+1999",
			EnableCheckin: true, CheckinTemplate: "Hi {name}!",
		},
	})

	require.NoError(t, dispatcher.Publish(context.Background(), checkinEvent("T1", "+100")))
	require.Len(t, sender.sent, 1)
	require.Equal(t, "+100: Hi Asha!", sender.sent[0])
}

func TestNotification_SkipsWhenNotConfigured(t *testing.T) {
	dispatcher, sender := newNotificationFixture(map[string]*domain.SMSSettings{})

	require.NoError(t, dispatcher.Publish(context.Background(), checkinEvent("T1", "+100")))
	require.Empty(t, sender.sent)
}

func TestNotification_SkipsWhenDisabled(t *testing.T) {
	dispatcher, sender := newNotificationFixture(map[string]*domain.SMSSettings{
		"T1": {
			GymID: "T1", AccountSID: "sid", AuthToken: "tok", PhoneNumber: "+1999",
			EnableCheckin: false,
		},
	})

	require.NoError(t, dispatcher.Publish(context.Background(), checkinEvent("T1", "+100")))
	require.Empty(t, sender.sent)
}

func TestNotification_SkipsMembersWithoutPhone(t *testing.T) {
	dispatcher, sender := newNotificationFixture(map[string]*domain.SMSSettings{
		"T1": {
			GymID: "T1", AccountSID: "sid", AuthToken: "tok", PhoneNumber: "+1999",
			EnableCheckin: true,
		},
	})

	require.NoError(t, dispatcher.Publish(context.Background(), checkinEvent("T1", "")))
	require.Empty(t, sender.sent)
}

func TestNotification_DefaultTemplate(t *testing.T) {
	dispatcher, sender := newNotificationFixture(map[string]*domain.SMSSettings{
		"T1": {
			GymID: "T1", AccountSID: "sid", AuthToken: "tok", PhoneNumber: "+1999",
			EnableCheckin: true,
		},
	})

	require.NoError(t, dispatcher.Publish(context.Background(), checkinEvent("T1", "+100")))
	require.Len(t, sender.sent, 1)
	require.Contains(t, sender.sent[0], "Asha")
}
