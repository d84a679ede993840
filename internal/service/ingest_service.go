package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-attendance/internal/config"
	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/events"
	"github.com/spec-kit/gym-attendance/internal/observability"
	"github.com/spec-kit/gym-attendance/internal/persistence"
	"github.com/spec-kit/gym-attendance/internal/protocol/adms"
	"github.com/spec-kit/gym-attendance/internal/repository"
)

// Device validation failures. Both abort the whole batch before any event
// is processed: device identity is the only authorization boundary on the
// ingest path.
var (
	ErrUnknownDevice  = errors.New("device not registered")
	ErrInactiveDevice = errors.New("device disabled")
)

// IngestService runs the push pipeline: device validation, identity
// resolution, window-based dedup, attendance recording.
type IngestService struct {
	devices         repository.DeviceRepository
	members         repository.MemberRepository
	staff           repository.StaffRepository
	attendance      repository.AttendanceRepository
	staffAttendance repository.StaffAttendanceRepository
	cache           *persistence.DeviceCache
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	metrics         *observability.Metrics
	memberWindow    time.Duration
	staffWindow     time.Duration
}

// IngestDependencies bundles collaborators for the ingest service.
type IngestDependencies struct {
	DeviceRepo          repository.DeviceRepository
	MemberRepo          repository.MemberRepository
	StaffRepo           repository.StaffRepository
	AttendanceRepo      repository.AttendanceRepository
	StaffAttendanceRepo repository.StaffAttendanceRepository
	DeviceCache         *persistence.DeviceCache
	Dispatcher          events.Dispatcher
	Logger              *zap.Logger
	Metrics             *observability.Metrics
}

// NewIngestService constructs the service.
func NewIngestService(cfg config.IngestConfig, deps IngestDependencies) *IngestService {
	return &IngestService{
		devices:         deps.DeviceRepo,
		members:         deps.MemberRepo,
		staff:           deps.StaffRepo,
		attendance:      deps.AttendanceRepo,
		staffAttendance: deps.StaffAttendanceRepo,
		cache:           deps.DeviceCache,
		dispatcher:      deps.Dispatcher,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		memberWindow:    cfg.MemberWindow(),
		staffWindow:     cfg.StaffWindow(),
	}
}

// ProcessPush validates the sending device and records the batch. Events
// run sequentially and independently: one failing event never blocks the
// rest, and every dedup check re-queries storage so concurrent pushes and
// manual check-ins are observed. Returns how many rows were inserted.
func (s *IngestService) ProcessPush(ctx context.Context, push *adms.Push) (int, error) {
	device, err := s.lookupDevice(ctx, push.DeviceKey)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, scan := range push.Events {
		if s.processScan(ctx, device, scan) {
			inserted++
		}
	}

	s.logger.Info("processed device push",
		zap.String("device", device.Code),
		zap.String("gym_id", device.GymID),
		zap.Int("events", len(push.Events)),
		zap.Int("inserted", inserted))
	return inserted, nil
}

func (s *IngestService) lookupDevice(ctx context.Context, key string) (*domain.Device, error) {
	device := s.cache.Get(ctx, key)
	if device == nil {
		var err error
		device, err = s.devices.GetByCode(ctx, key)
		if err != nil {
			if err == pgx.ErrNoRows {
				s.publishRejection(ctx, key, "unknown")
				return nil, ErrUnknownDevice
			}
			return nil, fmt.Errorf("device lookup: %w", err)
		}
		s.cache.Set(ctx, device)
	}

	if !device.Active {
		s.publishRejection(ctx, key, "inactive")
		return nil, ErrInactiveDevice
	}
	return device, nil
}

// processScan classifies one scan and records it. Members take precedence
// over staff: a code present in both populations is always treated as a
// member scan. Reports true only when a new attendance row was inserted.
func (s *IngestService) processScan(ctx context.Context, device *domain.Device, scan domain.RawScan) bool {
	member, err := s.members.GetByBiometricCode(ctx, device.GymID, scan.UserCode)
	if err != nil && err != pgx.ErrNoRows {
		s.scanFailed(device, scan, string(domain.IdentityMember), err)
		return false
	}
	if member != nil {
		return s.recordMember(ctx, device, member, scan)
	}

	staff, err := s.staff.GetByBiometricCode(ctx, device.GymID, scan.UserCode)
	if err != nil && err != pgx.ErrNoRows {
		s.scanFailed(device, scan, string(domain.IdentityStaff), err)
		return false
	}
	if staff != nil {
		return s.recordStaff(ctx, device, staff, scan)
	}

	// Unregistered or test code; not an error, just nothing to record.
	s.metrics.RecordScan("none", "unmatched")
	s.logger.Debug("scan matched no identity",
		zap.String("device", device.Code),
		zap.String("user_code", scan.UserCode))
	return false
}

func (s *IngestService) recordMember(ctx context.Context, device *domain.Device, member *domain.Member, scan domain.RawScan) bool {
	class := string(domain.IdentityMember)

	existing, err := s.attendance.FindRecentCheckIn(ctx, member.ID, scan.ScanTime.Add(-s.memberWindow))
	if err != nil {
		s.scanFailed(device, scan, class, err)
		return false
	}
	if existing != nil {
		s.metrics.RecordScan(class, "duplicate")
		return false
	}

	if _, err := s.attendance.InsertCheckIn(ctx, member.ID, scan.ScanTime); err != nil {
		s.scanFailed(device, scan, class, err)
		return false
	}

	s.metrics.RecordScan(class, "inserted")
	s.publish(ctx, events.Event{
		Type:  events.EventMemberCheckedIn,
		GymID: device.GymID,
		Payload: events.MemberCheckedInPayload{
			MemberID:   member.ID,
			MemberName: member.Name,
			Phone:      member.Phone,
			DeviceCode: device.Code,
			CheckIn:    scan.ScanTime,
		},
	})
	return true
}

func (s *IngestService) recordStaff(ctx context.Context, device *domain.Device, staff *domain.Staff, scan domain.RawScan) bool {
	class := string(domain.IdentityStaff)

	// Staff terminals retransmit more aggressively, hence the wider window.
	existing, err := s.staffAttendance.FindRecentCheckIn(ctx, staff.ID, scan.ScanTime.Add(-s.staffWindow))
	if err != nil {
		s.scanFailed(device, scan, class, err)
		return false
	}
	if existing != nil {
		s.metrics.RecordScan(class, "duplicate")
		return false
	}

	if _, err := s.staffAttendance.InsertCheckIn(ctx, staff.ID, scan.ScanTime); err != nil {
		s.scanFailed(device, scan, class, err)
		return false
	}

	s.metrics.RecordScan(class, "inserted")
	s.publish(ctx, events.Event{
		Type:  events.EventStaffCheckedIn,
		GymID: device.GymID,
		Payload: events.StaffCheckedInPayload{
			StaffID:    staff.ID,
			StaffName:  staff.Name,
			DeviceCode: device.Code,
			CheckIn:    scan.ScanTime,
		},
	})
	return true
}

func (s *IngestService) scanFailed(device *domain.Device, scan domain.RawScan, class string, err error) {
	s.metrics.RecordScan(class, "failed")
	s.logger.Error("scan processing failed",
		zap.String("device", device.Code),
		zap.String("user_code", scan.UserCode),
		zap.Time("scan_time", scan.ScanTime),
		zap.Error(err))
}

func (s *IngestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *IngestService) publishRejection(ctx context.Context, key, reason string) {
	s.publish(ctx, events.Event{
		Type:    events.EventDeviceRejected,
		Payload: events.DeviceRejectedPayload{DeviceKey: key, Reason: reason},
	})
}
