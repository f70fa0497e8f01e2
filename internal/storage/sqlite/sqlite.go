// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is fast enough for most projects and trivial to set up —
// records survive a process restart, which is the whole step up from
// the in-memory backend.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anuj-patel/student-records/internal/storage"
	"github.com/anuj-patel/student-records/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	// Without this the sql.Open("sqlite3", ...) call would fail with
	// "unknown driver".
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete embedded-file implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	db *sql.DB
}

// New opens the SQLite database at path (the connection string for this
// backend is simply a filesystem path), creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(path string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT    NOT NULL,
			email TEXT    NOT NULL,
			age   INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// CreateStudent inserts a new row and returns the full record with its
// auto-generated primary key.
//
// The ? placeholders keep user input out of the SQL text entirely: the
// driver sends query and values separately, so the database treats the
// values as pure data, never as SQL syntax (no injection).
func (s *SQLite) CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO students (name, email, age) VALUES (?, ?, ?)",
		in.Name, in.Email, in.Age,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return types.Student{
		ID:    lastID,
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
//
// QueryRowContext returns a single-row result; the "no rows" condition
// surfaces only when Scan is called, as sql.ErrNoRows — which we map to
// the shared storage sentinel so handlers can turn it into a 404.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, age FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&student.ID, &student.Name, &student.Email, &student.Age)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrStudentNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows as a slice.
//
// Query (unlike QueryRow) returns *sql.Rows — a cursor over multiple
// rows. We iterate with rows.Next(), Scan each row, and always defer
// rows.Close() to release the database connection.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	// Explicitly list columns — never SELECT * — so a column added later
	// cannot silently break Scan's ordering.
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, age FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Email, &student.Age); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's data with the provided values
// and returns the updated record. Absence is detected via the affected
// row count rather than a follow-up read.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, in types.StudentInput) (types.Student, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE students SET name = ?, email = ?, age = ? WHERE id = ?",
		in.Name, in.Email, in.Age, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, storage.ErrStudentNotFound
	}

	return types.Student{
		ID:    id,
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}, nil
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrStudentNotFound
	}

	return nil
}

// Close releases the underlying connection pool and file handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
