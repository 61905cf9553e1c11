package queries

import (
	"errors"

	"videorec/domain/recommend"
)

// GetRelatedVideosQuery asks for videos related to a given video. PageSize
// and PagingState are accepted for interface compatibility with callers but
// the algorithm returns at most the configured top-N; PagingState is passed
// through and always comes back empty.
type GetRelatedVideosQuery struct {
	VideoID     string
	PageSize    int
	PagingState []byte
}

// Validate validates the GetRelatedVideosQuery
func (q GetRelatedVideosQuery) Validate() error {
	if q.VideoID == "" {
		return errors.New("video ID is required")
	}
	if q.PageSize < 0 {
		return errors.New("page size must not be negative")
	}
	return nil
}

// RelatedVideosResult is the ordered recommendation list for a video. An
// unknown video yields an empty Videos slice, not an error.
type RelatedVideosResult struct {
	VideoID     string              `json:"videoId"`
	Videos      []recommend.Preview `json:"videos"`
	PagingState []byte              `json:"pagingState,omitempty"`
}
