// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//     Without this tag Go uses the exported field name, e.g. "Name".
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty;
//     "email" checks address format; "gt=0" rejects negative ages.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age"   validate:"required,gt=0"`
}

// StudentInput is the payload a client sends to create or update a
// student: the record minus its server-assigned identifier.
//
// Keeping it separate from Student means a client can never smuggle an
// "id" field into a create or update body — the decoder simply has
// nowhere to put it. The server alone assigns identifiers.
type StudentInput struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age"   validate:"required,gt=0"`
}
