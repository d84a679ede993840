package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-attendance/internal/config"
	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/events"
	"github.com/spec-kit/gym-attendance/internal/observability"
	"github.com/spec-kit/gym-attendance/internal/protocol/adms"
	"github.com/spec-kit/gym-attendance/internal/repository"
)

// --- fakes ---

type fakeDeviceRepo struct {
	devices map[string]*domain.Device
}

func (f *fakeDeviceRepo) GetByCode(_ context.Context, code string) (*domain.Device, error) {
	if d, ok := f.devices[code]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}
func (f *fakeDeviceRepo) ListByGym(context.Context, string) ([]domain.Device, error) { return nil, nil }
func (f *fakeDeviceRepo) Create(context.Context, *domain.Device) error              { return nil }
func (f *fakeDeviceRepo) SetActive(context.Context, string, string, bool) error     { return nil }
func (f *fakeDeviceRepo) Delete(context.Context, string, string) error              { return nil }

type fakeMemberRepo struct {
	members map[string]*domain.Member // keyed gymID|code
	err     error
}

func (f *fakeMemberRepo) GetByID(context.Context, string) (*domain.Member, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeMemberRepo) GetByBiometricCode(_ context.Context, gymID, code string) (*domain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.members[gymID+"|"+code]; ok {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}
func (f *fakeMemberRepo) List(context.Context, string, repository.MemberFilter) ([]domain.Member, error) {
	return nil, nil
}

type fakeStaffRepo struct {
	staff map[string]*domain.Staff
}

func (f *fakeStaffRepo) GetByID(context.Context, string) (*domain.Staff, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeStaffRepo) GetByBiometricCode(_ context.Context, gymID, code string) (*domain.Staff, error) {
	if s, ok := f.staff[gymID+"|"+code]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeAttendanceRepo struct {
	rows      []domain.Attendance
	insertErr error
}

func (f *fakeAttendanceRepo) FindRecentCheckIn(_ context.Context, memberID string, since time.Time) (*domain.Attendance, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		row := f.rows[i]
		if row.MemberID == memberID && !row.CheckIn.Before(since) {
			return &row, nil
		}
	}
	return nil, nil
}
func (f *fakeAttendanceRepo) InsertCheckIn(_ context.Context, memberID string, checkIn time.Time) (*domain.Attendance, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	row := domain.Attendance{MemberID: memberID, CheckIn: checkIn, Status: domain.AttendanceStatusPresent}
	f.rows = append(f.rows, row)
	return &row, nil
}
func (f *fakeAttendanceRepo) ListByMember(context.Context, string, int) ([]domain.Attendance, error) {
	return nil, nil
}

type fakeStaffAttendanceRepo struct {
	rows []domain.StaffAttendance
}

func (f *fakeStaffAttendanceRepo) FindRecentCheckIn(_ context.Context, staffID string, since time.Time) (*domain.StaffAttendance, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		row := f.rows[i]
		if row.StaffID == staffID && !row.CheckIn.Before(since) {
			return &row, nil
		}
	}
	return nil, nil
}
func (f *fakeStaffAttendanceRepo) InsertCheckIn(_ context.Context, staffID string, checkIn time.Time) (*domain.StaffAttendance, error) {
	row := domain.StaffAttendance{StaffID: staffID, CheckIn: checkIn}
	f.rows = append(f.rows, row)
	return &row, nil
}

// --- harness ---

type ingestFixture struct {
	svc             *IngestService
	devices         *fakeDeviceRepo
	members         *fakeMemberRepo
	staff           *fakeStaffRepo
	attendance      *fakeAttendanceRepo
	staffAttendance *fakeStaffAttendanceRepo
	metrics         *observability.Metrics
	published       []events.Event
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	code42 := "42"
	code77 := "77"
	fx := &ingestFixture{
		devices: &fakeDeviceRepo{devices: map[string]*domain.Device{
			"DEV1": {Code: "DEV1", GymID: "T1", Name: "front door", Active: true},
			"DEV2": {Code: "DEV2", GymID: "T1", Name: "back door", Active: false},
		}},
		members: &fakeMemberRepo{members: map[string]*domain.Member{
			"T1|42": {ID: "M1", GymID: "T1", Name: "Asha", Phone: "+100", BiometricCode: &code42},
			"T2|55": {ID: "M2", GymID: "T2", Name: "Ben", BiometricCode: &code42},
		}},
		staff: &fakeStaffRepo{staff: map[string]*domain.Staff{
			"T1|77": {ID: "S1", GymID: "T1", Name: "Cleo", BiometricCode: &code77},
			// same code as member M1, exercises member precedence
			"T1|42": {ID: "S2", GymID: "T1", Name: "Dev", BiometricCode: &code42},
		}},
		attendance:      &fakeAttendanceRepo{},
		staffAttendance: &fakeStaffAttendanceRepo{},
		metrics:         observability.NewMetrics(),
	}

	dispatcher := events.NewInMemoryDispatcher()
	capture := func(_ context.Context, e events.Event) error {
		fx.published = append(fx.published, e)
		return nil
	}
	dispatcher.Subscribe(events.EventMemberCheckedIn, capture)
	dispatcher.Subscribe(events.EventStaffCheckedIn, capture)

	fx.svc = NewIngestService(
		config.IngestConfig{MemberWindowMinutes: 5, StaffWindowMinutes: 10},
		IngestDependencies{
			DeviceRepo:          fx.devices,
			MemberRepo:          fx.members,
			StaffRepo:           fx.staff,
			AttendanceRepo:      fx.attendance,
			StaffAttendanceRepo: fx.staffAttendance,
			Dispatcher:          dispatcher,
			Logger:              zap.NewNop(),
			Metrics:             fx.metrics,
		})
	return fx
}

func push(deviceKey string, scans ...domain.RawScan) *adms.Push {
	return &adms.Push{DeviceKey: deviceKey, Events: scans}
}

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// --- tests ---

func TestProcessPush_MemberCheckIn(t *testing.T) {
	fx := newIngestFixture(t)

	n, err := fx.svc.ProcessPush(context.Background(), push("DEV1", domain.RawScan{UserCode: "42", ScanTime: t0}))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, fx.attendance.rows, 1)
	require.Equal(t, "M1", fx.attendance.rows[0].MemberID)
	require.True(t, fx.attendance.rows[0].CheckIn.Equal(t0))
	require.Equal(t, domain.AttendanceStatusPresent, fx.attendance.rows[0].Status)

	require.Len(t, fx.published, 1)
	require.Equal(t, events.EventMemberCheckedIn, fx.published[0].Type)
}

func TestProcessPush_UnknownDevice(t *testing.T) {
	fx := newIngestFixture(t)

	_, err := fx.svc.ProcessPush(context.Background(), push("NOPE", domain.RawScan{UserCode: "42", ScanTime: t0}))
	require.ErrorIs(t, err, ErrUnknownDevice)
	require.Empty(t, fx.attendance.rows)
}

func TestProcessPush_InactiveDevice(t *testing.T) {
	fx := newIngestFixture(t)

	_, err := fx.svc.ProcessPush(context.Background(), push("DEV2", domain.RawScan{UserCode: "42", ScanTime: t0}))
	require.ErrorIs(t, err, ErrInactiveDevice)
	require.Empty(t, fx.attendance.rows)
}

func TestProcessPush_MemberDuplicateWithinWindow(t *testing.T) {
	fx := newIngestFixture(t)
	ctx := context.Background()
	scan := domain.RawScan{UserCode: "42", ScanTime: t0}

	n, err := fx.svc.ProcessPush(ctx, push("DEV1", scan))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// identical re-push, and one at exactly the window edge: both duplicates
	n, err = fx.svc.ProcessPush(ctx, push("DEV1", scan))
	require.NoError(t, err)
	require.Equal(t, 0, n)

	n, err = fx.svc.ProcessPush(ctx, push("DEV1",
		domain.RawScan{UserCode: "42", ScanTime: t0.Add(5 * time.Minute)}))
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Len(t, fx.attendance.rows, 1)
}

func TestProcessPush_MemberRescanAfterWindow(t *testing.T) {
	fx := newIngestFixture(t)
	ctx := context.Background()

	_, err := fx.svc.ProcessPush(ctx, push("DEV1", domain.RawScan{UserCode: "42", ScanTime: t0}))
	require.NoError(t, err)

	n, err := fx.svc.ProcessPush(ctx, push("DEV1",
		domain.RawScan{UserCode: "42", ScanTime: t0.Add(5*time.Minute + time.Second)}))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, fx.attendance.rows, 2)
}

func TestProcessPush_StaffUsesWiderWindow(t *testing.T) {
	fx := newIngestFixture(t)
	ctx := context.Background()

	n, err := fx.svc.ProcessPush(ctx, push("DEV1", domain.RawScan{UserCode: "77", ScanTime: t0}))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, fx.staffAttendance.rows, 1)
	require.Equal(t, "S1", fx.staffAttendance.rows[0].StaffID)

	// 7 minutes later: outside the member window but inside the staff window
	n, err = fx.svc.ProcessPush(ctx, push("DEV1",
		domain.RawScan{UserCode: "77", ScanTime: t0.Add(7 * time.Minute)}))
	require.NoError(t, err)
	require.Equal(t, 0, n)

	n, err = fx.svc.ProcessPush(ctx, push("DEV1",
		domain.RawScan{UserCode: "77", ScanTime: t0.Add(10*time.Minute + time.Second)}))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, fx.staffAttendance.rows, 2)
}

func TestProcessPush_MemberPrecedenceOverStaff(t *testing.T) {
	fx := newIngestFixture(t)

	// code "42" exists as both member M1 and staff S2 in gym T1
	n, err := fx.svc.ProcessPush(context.Background(), push("DEV1",
		domain.RawScan{UserCode: "42", ScanTime: t0}))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, fx.attendance.rows, 1)
	require.Empty(t, fx.staffAttendance.rows)
}

func TestProcessPush_TenantIsolation(t *testing.T) {
	fx := newIngestFixture(t)

	// "55" belongs to a member of gym T2; DEV1 is registered to T1
	n, err := fx.svc.ProcessPush(context.Background(), push("DEV1",
		domain.RawScan{UserCode: "55", ScanTime: t0}))
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Empty(t, fx.attendance.rows)
	require.Empty(t, fx.staffAttendance.rows)
}

func TestProcessPush_UnmatchedCodeDoesNotAbortBatch(t *testing.T) {
	fx := newIngestFixture(t)

	n, err := fx.svc.ProcessPush(context.Background(), push("DEV1",
		domain.RawScan{UserCode: "42", ScanTime: t0},
		domain.RawScan{UserCode: "9999", ScanTime: t0.Add(time.Second)},
		domain.RawScan{UserCode: "77", ScanTime: t0.Add(2 * time.Second)},
	))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, int64(1), fx.metrics.ScanCount("none", "unmatched"))
}

func TestProcessPush_InsertFailureIsIsolated(t *testing.T) {
	fx := newIngestFixture(t)
	fx.attendance.insertErr = errors.New("storage down")

	// member insert fails, staff event after it still goes through
	n, err := fx.svc.ProcessPush(context.Background(), push("DEV1",
		domain.RawScan{UserCode: "42", ScanTime: t0},
		domain.RawScan{UserCode: "77", ScanTime: t0.Add(time.Second)},
	))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, fx.staffAttendance.rows, 1)
	require.Equal(t, int64(1), fx.metrics.ScanCount(string(domain.IdentityMember), "failed"))
}

func TestProcessPush_MemberLookupFailureIsIsolated(t *testing.T) {
	fx := newIngestFixture(t)
	fx.members.err = errors.New("connection reset")

	n, err := fx.svc.ProcessPush(context.Background(), push("DEV1",
		domain.RawScan{UserCode: "42", ScanTime: t0}))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
