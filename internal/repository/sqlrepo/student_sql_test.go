package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentapi/internal/model"
)

var studentCols = []string{"student_id", "first_name", "last_name", "dob", "amount_due"}

func TestStudentSQL_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentSQL(db)
	ctx := context.Background()

	s := &model.Student{FirstName: "John", LastName: "Doe", DOB: model.NewDate(2001, time.May, 17), AmountDue: 150.25}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO students").
			WithArgs("John", "Doe", "2001-05-17", 150.25).
			WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow(int64(42)))

		id, err := repo.Create(ctx, s)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO students").
			WillReturnError(errors.New("disk full"))

		id, err := repo.Create(ctx, s)

		assert.EqualError(t, err, "disk full")
		assert.Zero(t, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStudentSQL_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentSQL(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(studentCols).
			AddRow(int64(1), "John", "Doe", time.Date(2001, time.May, 17, 0, 0, 0, 0, time.UTC), 99.5)

		mock.ExpectQuery("SELECT (.+) FROM students WHERE student_id = ?").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		s, err := repo.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), s.ID)
		assert.Equal(t, "John", s.FirstName)
		assert.Equal(t, "2001-05-17", s.DOB.String())
		assert.Equal(t, 99.5, s.AmountDue)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM students WHERE student_id = ?").
			WithArgs(int64(99999)).
			WillReturnRows(sqlmock.NewRows(studentCols))

		s, err := repo.FindByID(ctx, 99999)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, s)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentSQL_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentSQL(db)
	ctx := context.Background()

	t.Run("no filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, first_name, last_name, dob, amount_due FROM students ORDER BY student_id")).
			WithoutArgs().
			WillReturnRows(sqlmock.NewRows(studentCols).
				AddRow(int64(1), "John", "Doe", "2001-05-17", 10.0).
				AddRow(int64(2), "Mary", "Major", "1999-01-02", 0.0))

		items, err := repo.List(ctx, model.StudentFilter{})

		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "1999-01-02", items[1].DOB.String())
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM students ORDER BY student_id").
			WillReturnRows(sqlmock.NewRows(studentCols))

		items, err := repo.List(ctx, model.StudentFilter{})

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("both filters", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE first_name LIKE '%' || $1 || '%' AND last_name LIKE '%' || $2 || '%' ORDER BY student_id")).
			WithArgs("Jo", "Do").
			WillReturnRows(sqlmock.NewRows(studentCols).AddRow(int64(1), "John", "Doe", "2001-05-17", 10.0))

		items, err := repo.List(ctx, model.StudentFilter{FirstName: "Jo", LastName: "Do"})

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("last name only", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE last_name LIKE '%' || $1 || '%'")).
			WithArgs("Do").
			WillReturnRows(sqlmock.NewRows(studentCols))

		items, err := repo.List(ctx, model.StudentFilter{LastName: "Do"})

		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("scan error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM students").
			WillReturnRows(sqlmock.NewRows(studentCols).AddRow(int64(1), "John", "Doe", "17/05/2001", 10.0))

		items, err := repo.List(ctx, model.StudentFilter{})

		assert.Error(t, err)
		assert.Nil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentSQL_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentSQL(db)
	ctx := context.Background()
	s := &model.Student{ID: 3, FirstName: "Jane", LastName: "Roe", DOB: model.NewDate(2000, time.January, 1), AmountDue: 5}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE students").
			WithArgs("Jane", "Roe", "2000-01-01", 5.0, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, s))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE students").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, s), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentSQL_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentSQL(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM students WHERE student_id = ?").
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 7))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM students WHERE student_id = ?").
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 7), sql.ErrNoRows)
	})

	t.Run("rows affected error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM students").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver does not support RowsAffected")))

		assert.Error(t, repo.Delete(ctx, 7))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListQuery(t *testing.T) {
	const base = "SELECT student_id, first_name, last_name, dob, amount_due FROM students"

	tests := []struct {
		name     string
		filter   model.StudentFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter lists everything",
			filter:  model.StudentFilter{},
			wantSQL: base + " ORDER BY student_id",
		},
		{
			name:     "first name only",
			filter:   model.StudentFilter{FirstName: "Jo"},
			wantSQL:  base + " WHERE first_name LIKE '%' || $1 || '%' ORDER BY student_id",
			wantArgs: []any{"Jo"},
		},
		{
			name:     "last name only takes the first placeholder",
			filter:   model.StudentFilter{LastName: "Do"},
			wantSQL:  base + " WHERE last_name LIKE '%' || $1 || '%' ORDER BY student_id",
			wantArgs: []any{"Do"},
		},
		{
			name:     "both names are ANDed",
			filter:   model.StudentFilter{FirstName: "Jo", LastName: "Do"},
			wantSQL:  base + " WHERE first_name LIKE '%' || $1 || '%' AND last_name LIKE '%' || $2 || '%' ORDER BY student_id",
			wantArgs: []any{"Jo", "Do"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := buildListQuery(tt.filter)
			assert.Equal(t, tt.wantSQL, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
