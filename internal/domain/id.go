package domain

import "github.com/google/uuid"

// generateID creates a new unique identifier.
func generateID() string {
	return uuid.New().String()
}

// NewID creates a new unique identifier for callers outside the
// domain package (the server assigns ids when replaying temp-id
// creates).
func NewID() string {
	return generateID()
}
