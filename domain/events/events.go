package events

import "time"

// Event type names carried in stream message metadata. All three event kinds
// share the single ordered topic so that a VideoAdded is always applied before
// a later UserRatedVideo that references the video.
const (
	TypeUserCreated    = "user-created"
	TypeVideoAdded     = "video-added"
	TypeUserRatedVideo = "video-rated"
)

// MetadataEventType is the message metadata key holding the event type name.
const MetadataEventType = "event_type"

// UserCreated announces a new user account.
type UserCreated struct {
	UserID    string    `json:"userId" validate:"required"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// VideoAdded announces a newly uploaded video. Tags may contain duplicates
// and mixed case; the mutator deduplicates after normalization.
type VideoAdded struct {
	VideoID              string    `json:"videoId" validate:"required"`
	UserID               string    `json:"userId" validate:"required"`
	Name                 string    `json:"name" validate:"required"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	PreviewImageLocation string    `json:"previewImageLocation"`
	Tags                 []string  `json:"tags"`
	AddedDate            time.Time `json:"addedDate" validate:"required"`
	Timestamp            time.Time `json:"timestamp" validate:"required"`
}

// UserRatedVideo announces a rating given by a user to a video. Ratings
// outside 1-5 are rejected at this boundary rather than stored.
type UserRatedVideo struct {
	VideoID   string    `json:"videoId" validate:"required"`
	UserID    string    `json:"userId" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}
