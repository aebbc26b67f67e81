package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"studentapi/internal/model"
	"studentapi/internal/repository"
)

// StudentSQL is a database/sql implementation of repository.StudentRepository.
// Queries use numbered placeholders, which both PostgreSQL and SQLite accept
// as long as they appear in ascending order.
type StudentSQL struct {
	db *sql.DB
}

// NewStudentSQL creates a new StudentSQL repository.
func NewStudentSQL(db *sql.DB) *StudentSQL {
	return &StudentSQL{db: db}
}

var _ repository.StudentRepository = (*StudentSQL)(nil)

const studentColumns = `student_id, first_name, last_name, dob, amount_due`

// Create inserts a new student row and returns its generated ID.
func (r *StudentSQL) Create(ctx context.Context, s *model.Student) (int64, error) {
	const q = `
		INSERT INTO students (first_name, last_name, dob, amount_due)
		VALUES ($1, $2, $3, $4)
		RETURNING student_id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, s.FirstName, s.LastName, s.DOB, s.AmountDue).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID fetches a single student by its ID.
func (r *StudentSQL) FindByID(ctx context.Context, id int64) (*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1`
	var s model.Student
	if err := scanStudent(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns students whose names contain the filter substrings.
func (r *StudentSQL) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	q, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Student, 0)
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites first_name, last_name, dob and amount_due.
func (r *StudentSQL) Update(ctx context.Context, s *model.Student) error {
	const q = `
		UPDATE students
		SET first_name = $1, last_name = $2, dob = $3, amount_due = $4
		WHERE student_id = $5
	`
	res, err := r.db.ExecContext(ctx, q, s.FirstName, s.LastName, s.DOB, s.AmountDue, s.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a student by ID.
func (r *StudentSQL) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM students WHERE student_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func buildListQuery(filter model.StudentFilter) (string, []any) {
	const (
		selectAll = `SELECT ` + studentColumns + ` FROM students`
		orderBy   = ` ORDER BY student_id`
	)
	if filter.IsEmpty() {
		return selectAll + orderBy, nil
	}

	var (
		where []string
		args  []any
	)
	if filter.FirstName != "" {
		args = append(args, filter.FirstName)
		where = append(where, fmt.Sprintf("first_name LIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.LastName != "" {
		args = append(args, filter.LastName)
		where = append(where, fmt.Sprintf("last_name LIKE '%%' || $%d || '%%'", len(args)))
	}

	return selectAll + ` WHERE ` + strings.Join(where, " AND ") + orderBy, args
}

// requireAffected maps a statement that touched no row to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, s *model.Student) error {
	return row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.DOB, &s.AmountDue)
}
