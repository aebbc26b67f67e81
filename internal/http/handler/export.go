package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studentapi/internal/service"
)

// ExportRoster godoc
// @Summary Export the roster as CSV
// @Description Uploads every student to object storage and returns a presigned download URL.
// @Tags students
// @Produce json
// @Success 201 {object} service.ExportResult
// @Failure 502 {object} errorPayload
// @Router /students/export [post]
func ExportRoster(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ExportRoster(c.UserContext())
		if err != nil {
			zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("roster_export_failed")
			return writeError(c, fiber.StatusBadGateway, "EXPORT_FAILED", "roster export failed")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
