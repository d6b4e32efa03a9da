// Package uuid wraps google/uuid with the binding interface gin needs
// so that resource IDs can be used directly in URI and query parameters.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID is the ID type for all resources.
type UUID struct {
	google_uuid.UUID
}

// Nil is the zero UUID. Query filters compare against it to detect
// parameters that were not set.
var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// UnmarshalParam parses a URI or query parameter into a UUID.
// An empty parameter parses to Nil so that optional filters
// can be left out.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
