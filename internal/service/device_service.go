package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/persistence"
	"github.com/spec-kit/gym-attendance/internal/repository"
)

// DeviceService manages device registration for the admin API. Every
// write invalidates the ingest-side lookup cache so a deactivated device
// is rejected on its very next push.
type DeviceService struct {
	devices repository.DeviceRepository
	cache   *persistence.DeviceCache
}

// NewDeviceService constructs the service.
func NewDeviceService(devices repository.DeviceRepository, cache *persistence.DeviceCache) *DeviceService {
	return &DeviceService{devices: devices, cache: cache}
}

// List returns the gym's registered devices.
func (s *DeviceService) List(ctx context.Context, gymID string) ([]domain.Device, error) {
	return s.devices.ListByGym(ctx, gymID)
}

// Register creates a device with a generated short code. The code is what
// gets configured into the terminal as its serial, so it stays short and
// uppercase.
func (s *DeviceService) Register(ctx context.Context, gymID, name string) (*domain.Device, error) {
	device := &domain.Device{
		Code:   generateDeviceCode(),
		GymID:  gymID,
		Name:   name,
		Active: true,
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// SetActive toggles a device, scoped to the caller's gym.
func (s *DeviceService) SetActive(ctx context.Context, gymID, code string, active bool) error {
	if err := s.devices.SetActive(ctx, gymID, code, active); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, code)
	return nil
}

// Delete removes a device, scoped to the caller's gym.
func (s *DeviceService) Delete(ctx context.Context, gymID, code string) error {
	if err := s.devices.Delete(ctx, gymID, code); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, code)
	return nil
}

func generateDeviceCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
