package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"studentapi/internal/config"
)

type migrationStep struct {
	Name string
	SQL  string
}

// dialect holds the driver-specific sentinel query and schema steps.
type dialect struct {
	sentinel string
	steps    []migrationStep
}

var dialects = map[string]dialect{
	config.DriverSQLite: {
		sentinel: `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'students')`,
		steps: []migrationStep{
			{
				Name: "create_table_students",
				SQL: `CREATE TABLE IF NOT EXISTS students (
  student_id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT    NOT NULL,
  last_name  TEXT    NOT NULL,
  dob        DATE    NOT NULL,
  amount_due REAL    NOT NULL
);`,
			},
			{
				Name: "create_index_students_first_name",
				SQL:  `CREATE INDEX IF NOT EXISTS idx_students_first_name ON students (first_name);`,
			},
			{
				Name: "create_index_students_last_name",
				SQL:  `CREATE INDEX IF NOT EXISTS idx_students_last_name ON students (last_name);`,
			},
		},
	},
	config.DriverPostgres: {
		sentinel: `SELECT to_regclass('public.students') IS NOT NULL`,
		steps: []migrationStep{
			{
				Name: "create_table_students",
				SQL: `CREATE TABLE IF NOT EXISTS students (
  student_id BIGSERIAL        PRIMARY KEY,
  first_name TEXT             NOT NULL,
  last_name  TEXT             NOT NULL,
  dob        DATE             NOT NULL,
  amount_due DOUBLE PRECISION NOT NULL
);`,
			},
			{
				Name: "create_index_students_first_name",
				SQL:  `CREATE INDEX IF NOT EXISTS idx_students_first_name ON students (first_name);`,
			},
			{
				Name: "create_index_students_last_name",
				SQL:  `CREATE INDEX IF NOT EXISTS idx_students_last_name ON students (last_name);`,
			},
		},
	},
}

// EnsureMigrated checks if the 'students' table exists and creates the schema if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, driver string, log zerolog.Logger) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}

	start := time.Now()
	log = log.With().Str("component", "database").Str("driver", driver).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	if err := db.QueryRowContext(ctx, d.sentinel).Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Str("status", "error").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range d.steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
