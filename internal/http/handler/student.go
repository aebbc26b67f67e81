package handler

import (
	"github.com/gofiber/fiber/v2"

	"studentapi/internal/model"
	"studentapi/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

type createdResponse struct {
	Message   string `json:"message"`
	StudentID int64  `json:"student_id"`
}

// studentID parses the :id path parameter. Range checks happen in the service.
func studentID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, false
	}
	return int64(id), true
}

func writeBadBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "request body must be a JSON object")
}

// CreateStudent godoc
// @Summary Add a student
// @Tags students
// @Accept json
// @Produce json
// @Param student body service.StudentInput true "Student"
// @Success 201 {object} createdResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /students [post]
func CreateStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.StudentInput
		if err := c.BodyParser(&in); err != nil {
			return writeBadBody(c)
		}

		st, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(createdResponse{
			Message:   "Student added successfully",
			StudentID: st.ID,
		})
	}
}

// ListStudents godoc
// @Summary List all students
// @Tags students
// @Produce json
// @Success 200 {array} model.Student
// @Failure 500 {object} errorPayload
// @Router /students [get]
func ListStudents(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		if items == nil {
			items = []model.Student{}
		}
		return c.JSON(items)
	}
}

// GetStudent godoc
// @Summary Fetch a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} model.Student
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /students/{id} [get]
func GetStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := studentID(c)
		if !ok {
			return writeServiceError(c, service.ErrInvalidID)
		}

		st, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st)
	}
}

// SearchStudents godoc
// @Summary Search students by name substring
// @Tags students
// @Produce json
// @Param first_name query string false "Substring of the first name"
// @Param last_name query string false "Substring of the last name"
// @Success 200 {array} model.Student
// @Failure 404 {object} errorPayload
// @Router /search_students [get]
func SearchStudents(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := model.StudentFilter{
			FirstName: c.Query("first_name"),
			LastName:  c.Query("last_name"),
		}

		items, err := svc.Search(c.UserContext(), filter)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// UpdateStudent godoc
// @Summary Replace a student
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param student body service.StudentInput true "Student"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /students/{id} [put]
func UpdateStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := studentID(c)
		if !ok {
			return writeServiceError(c, service.ErrInvalidID)
		}
		var in service.StudentInput
		if err := c.BodyParser(&in); err != nil {
			return writeBadBody(c)
		}

		if _, err := svc.Update(c.UserContext(), id, in); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Student updated successfully"})
	}
}

// DeleteStudent godoc
// @Summary Remove a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /students/{id} [delete]
func DeleteStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := studentID(c)
		if !ok {
			return writeServiceError(c, service.ErrInvalidID)
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Student deleted successfully"})
	}
}
