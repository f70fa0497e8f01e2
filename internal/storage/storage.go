// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new backend,
//     change one config value. Zero handler changes.
//
//   - Writing tests = pass the in-memory backend (or any fake) that
//     satisfies the interface. No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice. The repo ships
// three implementations: memory (nothing survives a restart), sqlite
// (embedded single-file database), and postgres (remote managed
// database). Which one runs is decided by the connection string alone —
// see BackendFor below.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/anuj-patel/student-records/internal/types"
)

// ErrStudentNotFound is the sentinel error every backend returns when an
// operation references an identifier that does not exist.
//
// Handlers check for it with errors.Is and translate it into an HTTP 404.
// Using one shared sentinel keeps "absent record" distinguishable from
// genuine backend failures (which become 500s).
var ErrStudentNotFound = errors.New("student not found")

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
//
// Every data method takes a context.Context so a cancelled or timed-out
// request stops its database work instead of running on after the client
// has gone away.
type Storage interface {
	// CreateStudent inserts a new record and returns it with the
	// server-assigned identifier filled in.
	CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error)

	// GetStudentByID fetches a single student by their primary key.
	// Returns ErrStudentNotFound if no record matches.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student in the store.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID replaces ALL mutable fields of an existing
	// student (full replacement, no partial merge) and returns the
	// updated record. Returns ErrStudentNotFound if no record matches.
	UpdateStudentByID(ctx context.Context, id int64, in types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	// Returns ErrStudentNotFound if no record matches.
	DeleteStudentByID(ctx context.Context, id int64) error

	// Close releases the backend's resources (connection pools, file
	// handles). Called once during graceful shutdown.
	Close() error
}

// Backend identifies which storage implementation a connection string
// selects.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// BackendFor classifies a connection string (DSN).
//
// This is the whole "switch databases by changing one value" mechanism:
//
//	memory               → in-process store, gone on restart
//	postgres://user@host → managed PostgreSQL over the network
//	./storage/local.db   → embedded SQLite file (the default reading)
//
// Anything that is not explicitly memory or a postgres URL is treated as
// a filesystem path for SQLite, matching how sqlite DSNs look in the
// wild (plain paths, optionally with ?query options).
func BackendFor(dsn string) Backend {
	switch {
	case dsn == "" || dsn == "memory" || strings.HasPrefix(dsn, "memory://"):
		return BackendMemory
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres
	default:
		return BackendSQLite
	}
}
