package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-attendance/internal/api/dto"
	"github.com/spec-kit/gym-attendance/internal/auth"
	"github.com/spec-kit/gym-attendance/internal/domain"
	"github.com/spec-kit/gym-attendance/internal/repository"
	"github.com/spec-kit/gym-attendance/internal/service"
	apperrors "github.com/spec-kit/gym-attendance/pkg/util"
)

// MembersHandler exposes member directory reads for administrators.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(members *service.MemberService) *MembersHandler {
	return &MembersHandler{members: members}
}

// List handles GET /api/v1/members.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := repository.MemberFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.MemberStatus(raw)
		filter.Status = &status
	}

	members, err := h.members.List(c.Context(), principal.GymID, filter)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.MemberResponse{
			ID:            m.ID,
			Name:          m.Name,
			Phone:         m.Phone,
			BiometricCode: m.BiometricCode,
			Status:        string(m.Status),
			CreatedAt:     m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// ExportCSV handles GET /api/v1/members/export.
func (h *MembersHandler) ExportCSV(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	data, err := h.members.ExportCSV(c.Context(), principal.GymID)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="members.csv"`)
	return c.Send(data)
}

// Attendance handles GET /api/v1/members/:id/attendance.
func (h *MembersHandler) Attendance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	rows, err := h.members.Attendance(c.Context(), principal.GymID, c.Params("id"), limit)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.AttendanceResponse{
			ID:       row.ID,
			CheckIn:  row.CheckIn,
			CheckOut: row.CheckOut,
			Status:   string(row.Status),
		})
	}
	return c.JSON(fiber.Map{"data": out})
}
