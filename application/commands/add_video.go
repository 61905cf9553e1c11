package commands

import (
	"errors"
	"time"
)

// AddVideoCommand creates a video vertex, its uploaded edge from the already
// existing uploader, and one taggedWith edge per unique normalized tag.
type AddVideoCommand struct {
	VideoID              string
	UserID               string
	Name                 string
	Description          string
	Location             string
	PreviewImageLocation string
	Tags                 []string
	AddedDate            time.Time
	Timestamp            time.Time
}

// Validate validates the AddVideoCommand
func (c AddVideoCommand) Validate() error {
	if c.VideoID == "" {
		return errors.New("video ID is required")
	}
	if c.UserID == "" {
		return errors.New("user ID is required")
	}
	if c.Name == "" {
		return errors.New("video name is required")
	}
	if c.AddedDate.IsZero() {
		return errors.New("added date is required")
	}
	return nil
}
