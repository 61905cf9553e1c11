package commands

import (
	"errors"
	"time"
)

// CreateUserCommand upserts a user vertex in the recommendation graph. It is
// idempotent: replaying the event for an existing user does not create a
// duplicate vertex.
type CreateUserCommand struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Timestamp time.Time
}

// Validate validates the CreateUserCommand
func (c CreateUserCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("user ID is required")
	}
	if c.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	return nil
}
