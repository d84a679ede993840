package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gym-attendance/internal/api/dto"
	"github.com/spec-kit/gym-attendance/internal/auth"
	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/service"
	apperrors "github.com/spec-kit/gym-attendance/pkg/util"
)

// DevicesHandler exposes device registration for administrators.
type DevicesHandler struct {
	devices *service.DeviceService
}

// NewDevicesHandler constructs handler.
func NewDevicesHandler(devices *service.DeviceService) *DevicesHandler {
	return &DevicesHandler{devices: devices}
}

// List handles GET /api/v1/devices.
func (h *DevicesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	devices, err := h.devices.List(c.Context(), principal.GymID)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceResponse(d))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /api/v1/devices.
func (h *DevicesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.DeviceCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	device, err := h.devices.Register(c.Context(), principal.GymID, strings.TrimSpace(req.Name))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": deviceResponse(*device)})
}

// SetActive handles PATCH /api/v1/devices/:code/active.
func (h *DevicesHandler) SetActive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.DeviceSetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.devices.SetActive(c.Context(), principal.GymID, c.Params("code"), req.Active); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("device", nil)
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"code": c.Params("code"), "active": req.Active}})
}

// Delete handles DELETE /api/v1/devices/:code.
func (h *DevicesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.devices.Delete(c.Context(), principal.GymID, c.Params("code")); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("device", nil)
		}
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func deviceResponse(d domain.Device) dto.DeviceResponse {
	return dto.DeviceResponse{
		Code:      d.Code,
		Name:      d.Name,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
	}
}
