package domain

import "github.com/google/uuid"

// newID creates a new unique identifier for blocks and runs.
func newID() string {
	return uuid.NewString()
}
