package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studentapi/internal/model"
	"studentapi/internal/repository"
)

var (
	ErrInvalidID       = errors.New("student id must be an integer")
	ErrNotFound        = errors.New("student not found")
	ErrNoStudentsFound = errors.New("no students found")
)

// StudentInput is the request schema shared by create and full-replace update.
// AmountDue is a pointer so that an absent key is distinguishable from zero.
type StudentInput struct {
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name" validate:"required"`
	DOB       string   `json:"dob" validate:"required,datetime=2006-01-02"`
	AmountDue *float64 `json:"amount_due" validate:"required"`
}

// toStudent validates the input and builds the domain value for the given ID.
func (in StudentInput) toStudent(id int64) (*model.Student, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	dob, err := model.ParseDate(in.DOB)
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "dob", Error: "must be a date in YYYY-MM-DD format"}}}
	}
	return &model.Student{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DOB:       dob,
		AmountDue: *in.AmountDue,
	}, nil
}

// StudentService defines the use cases for managing student records.
type StudentService interface {
	// Create validates the input and stores a new student with a database-assigned ID.
	Create(ctx context.Context, in StudentInput) (*model.Student, error)

	// Get returns a single student by its ID. IDs below 1 never exist and yield ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Student, error)

	// List returns every student; an empty store yields an empty slice.
	List(ctx context.Context) ([]model.Student, error)

	// Search returns students matching the substring filter, or ErrNoStudentsFound when none do.
	Search(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)

	// Update replaces all mutable fields of an existing student.
	Update(ctx context.Context, id int64, in StudentInput) (*model.Student, error)

	// Delete removes a student by ID.
	Delete(ctx context.Context, id int64) error
}

// studentService is a concrete implementation of StudentService.
type studentService struct {
	repo repository.StudentRepository
}

// NewStudentService constructs a new StudentService.
func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) Create(ctx context.Context, in StudentInput) (*model.Student, error) {
	st, err := in.toStudent(0)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	st.ID = id
	return st, nil
}

func (s *studentService) Get(ctx context.Context, id int64) (*model.Student, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get student")
	}
	return st, nil
}

func (s *studentService) List(ctx context.Context) ([]model.Student, error) {
	items, err := s.repo.List(ctx, model.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return items, nil
}

func (s *studentService) Search(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoStudentsFound
	}
	return items, nil
}

func (s *studentService) Update(ctx context.Context, id int64, in StudentInput) (*model.Student, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	st, err := in.toStudent(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, notFound(err, "update student")
	}
	return st, nil
}

func (s *studentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "delete student")
	}
	return nil
}

// notFound translates the repository's missing-row signal and wraps everything else.
func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
