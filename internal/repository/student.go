package repository

import (
	"context"

	"studentapi/internal/model"
)

// StudentRepository defines data access for students using SQL queries only.
// No business logic here: strictly persistence operations, one statement per call.
// Missing rows are reported as sql.ErrNoRows.
type StudentRepository interface {
	// Create inserts a new student and returns the identifier assigned by the database.
	// student.ID is ignored.
	Create(ctx context.Context, student *model.Student) (int64, error)

	// FindByID returns a student by its ID.
	FindByID(ctx context.Context, id int64) (*model.Student, error)

	// List returns every student matching the filter, ordered by ID.
	// An empty filter matches all rows. The result is never nil.
	List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)

	// Update replaces all mutable fields of the student identified by student.ID.
	Update(ctx context.Context, student *model.Student) error

	// Delete removes a student by ID.
	Delete(ctx context.Context, id int64) error
}
