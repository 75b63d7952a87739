// Package uuid wraps google/uuid so that IDs can be bound from
// URI parameters and query strings by gin.
package uuid

import (
	"errors"

	google_uuid "github.com/google/uuid"
)

var ErrInvalid = errors.New("the specified resource ID is not a valid UUID")

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// IsSet reports whether the UUID is not the Nil UUID.
func (u UUID) IsSet() bool {
	return u.UUID != google_uuid.Nil
}

// Pointer returns a pointer to the wrapped UUID, or nil for the Nil UUID.
//
// This is the shape of optional foreign keys on the models.
func (u UUID) Pointer() *google_uuid.UUID {
	if !u.IsSet() {
		return nil
	}

	id := u.UUID
	return &id
}

// UnmarshalParam parses URI and form parameters. The empty
// string parses to the Nil UUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return ErrInvalid
	}

	*u = UUID{parsed}
	return nil
}
