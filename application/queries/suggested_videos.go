package queries

import (
	"errors"

	"videorec/domain/recommend"
)

// GetSuggestedVideosQuery asks for videos suggested for a given user, based
// on what users with similar taste rated highly. Paging semantics match
// GetRelatedVideosQuery: top-N only, PagingState passed through empty.
type GetSuggestedVideosQuery struct {
	UserID      string
	PageSize    int
	PagingState []byte
}

// Validate validates the GetSuggestedVideosQuery
func (q GetSuggestedVideosQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.PageSize < 0 {
		return errors.New("page size must not be negative")
	}
	return nil
}

// SuggestedVideosResult is the ordered suggestion list for a user. An unknown
// user yields an empty Videos slice, not an error.
type SuggestedVideosResult struct {
	UserID      string              `json:"userId"`
	Videos      []recommend.Preview `json:"videos"`
	PagingState []byte              `json:"pagingState,omitempty"`
}
