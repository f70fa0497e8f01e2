// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Storage interface using the pgx driver's connection pool.
//
// This is the "managed database" backend: the database lives on another
// machine (a cloud provider, a container, a shared server) and is
// reached over the network. From the application's point of view nothing
// changes except the connection string — the same five operations, the
// same sentinel for absent records.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anuj-patel/student-records/internal/storage"
	"github.com/anuj-patel/student-records/internal/types"
)

// Postgres is the concrete managed-database implementation of
// storage.Storage. pgxpool.Pool is safe for concurrent use; each query
// checks a connection out of the pool and returns it when done — the
// scoped-session discipline is handled by the pool itself.
type Postgres struct {
	pool *pgxpool.Pool
}

// New parses the connection string, opens a validated connection pool,
// and bootstraps the students table.
//
// Unlike sql.Open, the Ping here forces a real round-trip at startup: a
// bad URL, wrong password, or unreachable host fails the boot instead of
// the first request.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping database: %w", err)
	}

	// Same idempotent bootstrap as the sqlite backend. BIGSERIAL gives
	// us the server-assigned auto-increment identifier.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS students (
			id    BIGSERIAL PRIMARY KEY,
			name  TEXT    NOT NULL,
			email TEXT    NOT NULL,
			age   INTEGER NOT NULL
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// CreateStudent inserts a new row. PostgreSQL's RETURNING clause hands
// back the generated primary key in the same round-trip — no separate
// LastInsertId step as with database/sql.
func (p *Postgres) CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error) {
	student := types.Student{
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}

	err := p.pool.QueryRow(ctx,
		`INSERT INTO students (name, email, age) VALUES ($1, $2, $3) RETURNING id`,
		in.Name, in.Email, in.Age,
	).Scan(&student.ID)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: insert: %w", err)
	}

	return student, nil
}

// GetStudentByID fetches one row by primary key; pgx.ErrNoRows maps to
// the shared not-found sentinel.
func (p *Postgres) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student

	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, age FROM students WHERE id = $1`, id,
	).Scan(&student.ID, &student.Name, &student.Email, &student.Age)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, storage.ErrStudentNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all rows ordered by identifier.
func (p *Postgres) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, email, age FROM students ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Email, &student.Age); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces all mutable fields. The command tag's
// affected-row count tells us whether the id existed at all.
func (p *Postgres) UpdateStudentByID(ctx context.Context, id int64, in types.StudentInput) (types.Student, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE students SET name = $1, email = $2, age = $3 WHERE id = $4`,
		in.Name, in.Email, in.Age, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.Student{}, storage.ErrStudentNotFound
	}

	return types.Student{
		ID:    id,
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}, nil
}

// DeleteStudentByID removes a row by primary key.
func (p *Postgres) DeleteStudentByID(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrStudentNotFound
	}

	return nil
}

// Close drains and closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
