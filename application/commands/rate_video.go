package commands

import (
	"errors"
	"time"
)

// RateVideoCommand records a rating edge between an existing user and an
// existing video. Re-rating the same video replaces the previous edge, so at
// most one rated edge exists per (user, video) pair.
type RateVideoCommand struct {
	VideoID   string
	UserID    string
	Rating    int
	Timestamp time.Time
}

// Validate validates the RateVideoCommand
func (c RateVideoCommand) Validate() error {
	if c.VideoID == "" {
		return errors.New("video ID is required")
	}
	if c.UserID == "" {
		return errors.New("user ID is required")
	}
	if c.Rating < 1 || c.Rating > 5 {
		return errors.New("rating must be within 1-5")
	}
	return nil
}
