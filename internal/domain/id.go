package domain

import "github.com/google/uuid"

// generateID creates a new unique identifier for sessions and history records.
func generateID() string {
	return uuid.New().String()
}
