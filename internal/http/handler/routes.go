package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"studentapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// exportSvc may be nil when object storage is not configured; the export route is then omitted.
func RegisterRoutes(app *fiber.App, db *sql.DB, studentSvc service.StudentService, exportSvc service.ExportService) {
	app.Get("/", Landing())

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	if exportSvc != nil {
		app.Post("/students/export", ExportRoster(exportSvc))
	}

	app.Post("/students", CreateStudent(studentSvc))
	app.Get("/students", ListStudents(studentSvc))
	app.Get("/students/:id", GetStudent(studentSvc))
	app.Put("/students/:id", UpdateStudent(studentSvc))
	app.Delete("/students/:id", DeleteStudent(studentSvc))
	app.Get("/search_students", SearchStudents(studentSvc))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the database.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe reports that the process is serving requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

const landingPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Student Records</title>
</head>
<body>
  <h1>Student Records</h1>
  <p>JSON API for managing student records.</p>
  <ul>
    <li><code>POST /students</code> add a student</li>
    <li><code>GET /students</code> list all students</li>
    <li><code>GET /students/{id}</code> fetch one student</li>
    <li><code>GET /search_students?first_name=&amp;last_name=</code> search by name</li>
    <li><code>PUT /students/{id}</code> replace a student</li>
    <li><code>DELETE /students/{id}</code> remove a student</li>
  </ul>
  <p>Interactive documentation lives at <a href="/swagger/index.html">/swagger</a>.</p>
</body>
</html>`

// Landing serves the static HTML index page.
func Landing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(landingPage)
	}
}
