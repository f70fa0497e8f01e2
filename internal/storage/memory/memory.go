// Package memory provides an in-process implementation of the
// storage.Storage interface.
//
// Nothing is written to disk: every record lives in a Go map and is gone
// when the process exits. That makes this backend ideal for the first
// steps of the project and for handler tests, and useless for anything
// that must survive a restart — which is exactly the point at which the
// sqlite or postgres backend takes over (one config value away).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/anuj-patel/student-records/internal/storage"
	"github.com/anuj-patel/student-records/internal/types"
)

// Memory is the concrete in-process implementation of storage.Storage.
//
// A map alone is not safe for concurrent use — the HTTP server calls
// these methods from many goroutines at once — so every access goes
// through the RWMutex. Readers (Get, List) share the lock; writers
// (Create, Update, Delete) take it exclusively.
type Memory struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	nextID   int64
}

// New returns an empty, ready-to-use in-memory store.
func New() *Memory {
	return &Memory{
		students: make(map[int64]types.Student),
		nextID:   1,
	}
}

// CreateStudent assigns the next identifier, stores the record, and
// returns it. Identifiers are never reused within a process lifetime,
// even after deletes — mirroring an auto-increment primary key.
func (m *Memory) CreateStudent(_ context.Context, in types.StudentInput) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student := types.Student{
		ID:    m.nextID,
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}
	m.students[student.ID] = student
	m.nextID++

	return student, nil
}

// GetStudentByID returns the record for id, or ErrStudentNotFound.
func (m *Memory) GetStudentByID(_ context.Context, id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrStudentNotFound
	}
	return student, nil
}

// GetStudents returns all records ordered by identifier (creation
// order). Map iteration order is random in Go, so we sort explicitly to
// keep list responses stable across calls.
func (m *Memory) GetStudents(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].ID < students[j].ID
	})

	return students, nil
}

// UpdateStudentByID overwrites every mutable field of an existing
// record. Full replacement only — there is no merge with old values.
func (m *Memory) UpdateStudentByID(_ context.Context, id int64, in types.StudentInput) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return types.Student{}, storage.ErrStudentNotFound
	}

	student := types.Student{
		ID:    id,
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}
	m.students[id] = student

	return student, nil
}

// DeleteStudentByID removes the record for id, or reports
// ErrStudentNotFound if there was nothing to remove.
func (m *Memory) DeleteStudentByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return storage.ErrStudentNotFound
	}
	delete(m.students, id)

	return nil
}

// Close is a no-op: there is nothing to release.
func (m *Memory) Close() error { return nil }
