// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `store` even after the factory call has returned. The factory
// runs ONCE at startup; the returned handler runs on EVERY request.
//
// The handlers only ever see the storage.Storage interface — whether the
// records live in memory, a sqlite file, or a remote PostgreSQL server
// is invisible here.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/anuj-patel/student-records/internal/storage"
	"github.com/anuj-patel/student-records/internal/types"
	"github.com/anuj-patel/student-records/internal/utils/response"
)

// validate is shared by all handlers. A validator.Validate caches struct
// metadata internally and is safe for concurrent use, so one instance
// per process is the right shape.
var validate = validator.New()

// RegisterRoutes wires the five CRUD routes onto the router.
//
// Route table:
//
//	POST   /students        → create a new student
//	GET    /students        → list all students
//	GET    /students/{id}   → get one student by ID
//	PUT    /students/{id}   → update a student (full replacement)
//	DELETE /students/{id}   → delete a student
func RegisterRoutes(router *http.ServeMux, store storage.Storage) {
	router.HandleFunc("POST /students", New(store))
	router.HandleFunc("GET /students", GetList(store))
	router.HandleFunc("GET /students/{id}", GetByID(store))
	router.HandleFunc("PUT /students/{id}", Update(store))
	router.HandleFunc("DELETE /students/{id}", Delete(store))
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Ali Khan", "email": "ali@example.com", "age": 20 }
//
// Success response (201 Created) — the persisted record, including the
// server-assigned identifier:
//
//	{ "id": 1, "name": "Ali Khan", "email": "ali@example.com", "age": 20 }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		// ── Step 1: Decode JSON body into the create payload ──────────
		var input types.StudentInput

		err := json.NewDecoder(r.Body).Decode(&input)
		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			// Any other decode error: malformed JSON, wrong types, etc.
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Validate the decoded struct ───────────────────────
		// Struct(v) checks all validate:"..." tags and returns a
		// ValidationErrors value when any rule fails.
		if err := validate.Struct(input); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 3: Persist via the Storage interface ─────────────────
		created, err := store.CreateStudent(r.Context(), input)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))

		// ── Step 4: Return 201 Created with the full record ───────────
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
// Fetches a single student by their primary key ID.
//
// Success response (200 OK):
//
//	{ "id": 1, "name": "Ali Khan", "email": "ali@example.com", "age": 20 }
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL —
		// Go 1.22+ ServeMux supports named path parameters.
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			// The client sent something like "/students/abc"
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		student, err := store.GetStudentByID(r.Context(), intID)
		if err != nil {
			writeStorageError(w, intID, err, "error getting student")
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students
// Returns a JSON array of all students — no filtering, no pagination.
//
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Replaces ALL fields of an existing student — a PUT is a full
// replacement, never a merge with the old values.
//
// Request body (JSON) — all fields required:
//
//	{ "name": "Ali K.", "email": "ali.k@example.com", "age": 21 }
//
// Success response (200 OK) — the updated student:
//
//	{ "id": 1, "name": "Ali K.", "email": "ali.k@example.com", "age": 21 }
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, or validation failure
//	404 Not Found    — no student with that id
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		// Decode the update payload
		var input types.StudentInput
		err = json.NewDecoder(r.Body).Decode(&input)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate the update payload using the same rules as creation
		if err := validate.Struct(input); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		updated, err := store.UpdateStudentByID(r.Context(), intID, input)
		if err != nil {
			writeStorageError(w, intID, err, "error updating student")
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
// Permanently removes a student record.
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// Error responses:
//
//	400 Bad Request  — invalid id
//	404 Not Found    — no student with that id
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		if err := store.DeleteStudentByID(r.Context(), intID); err != nil {
			writeStorageError(w, intID, err, "error deleting student")
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// writeStorageError translates a storage failure into the right HTTP
// response: the not-found sentinel becomes a real 404, everything else
// is a 500. Every handler that touches a single record funnels through
// here so the two cases can never drift apart.
func writeStorageError(w http.ResponseWriter, id int64, err error, logMsg string) {
	if errors.Is(err, storage.ErrStudentNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.NotFoundError(id))
		return
	}

	slog.Error(logMsg,
		slog.Int64("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
