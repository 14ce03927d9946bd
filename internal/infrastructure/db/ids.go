package db

import "github.com/google/uuid"

// maxIDAttempts bounds how many fresh IDs Create tries before giving up
const maxIDAttempts = 5

// IDGenerator produces candidate receipt IDs
type IDGenerator func() string

// NewUUID returns a random (version 4) UUID string
func NewUUID() string {
	return uuid.New().String()
}
