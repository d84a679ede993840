package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-attendance/internal/protocol/adms"
	"github.com/spec-kit/gym-attendance/internal/service"
)

// IclockHandler is the device-facing ingest endpoint. Responses are terse
// plain text: terminal firmware matches fixed acknowledgment strings and
// cannot parse structured errors, so this handler never returns an error
// into the JSON error middleware.
type IclockHandler struct {
	ingest *service.IngestService
	logger *zap.Logger
}

// NewIclockHandler constructs handler.
func NewIclockHandler(ingest *service.IngestService, logger *zap.Logger) *IclockHandler {
	return &IclockHandler{ingest: ingest, logger: logger}
}

// Handshake handles GET /iclock/cdata: the terminal's periodic poll for
// its operating configuration.
func (h *IclockHandler) Handshake(c *fiber.Ctx) error {
	serial := c.Query("SN")
	if serial == "" {
		return c.JSON(fiber.Map{"message": "Biometric Server Online"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	return c.SendString(adms.HandshakeBlob(serial))
}

// Push handles POST /iclock/cdata: an attendance upload in either the
// ATTLOG text shape or the generic JSON shape.
func (h *IclockHandler) Push(c *fiber.Ctx) error {
	push, err := adms.ParsePush(c.Query("SN"), c.Query("table"), c.Body(), time.Now())
	if err != nil {
		return h.plainText(c, http.StatusBadRequest, "Error: No Data")
	}
	if push.Skipped > 0 {
		h.logger.Warn("push records skipped during parse",
			zap.String("device_key", push.DeviceKey),
			zap.Int("skipped", push.Skipped))
	}

	// Zero accepted scans is still an OK for the terminal; only protocol
	// and device-level failures change the acknowledgment.
	if _, err := h.ingest.ProcessPush(c.Context(), push); err != nil {
		switch err {
		case service.ErrUnknownDevice, service.ErrInactiveDevice:
			h.logger.Warn("push from unauthorized device",
				zap.String("device_key", push.DeviceKey),
				zap.Error(err))
			return h.plainText(c, http.StatusUnauthorized, "Unauthorized Device")
		default:
			h.logger.Error("push processing failed",
				zap.String("device_key", push.DeviceKey),
				zap.Error(err))
			return h.plainText(c, http.StatusInternalServerError, "Error")
		}
	}

	return h.plainText(c, http.StatusOK, "OK")
}

func (h *IclockHandler) plainText(c *fiber.Ctx, status int, body string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	return c.Status(status).SendString(body)
}
