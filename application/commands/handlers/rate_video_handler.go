package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"videorec/application/commands"
	"videorec/application/ports"
	"videorec/domain/graph"
	apperrors "videorec/pkg/errors"
)

// RateVideoHandler applies a UserRatedVideo event to the graph.
type RateVideoHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewRateVideoHandler creates a new rate-video handler.
func NewRateVideoHandler(store ports.GraphStore, logger *zap.Logger) *RateVideoHandler {
	return &RateVideoHandler{store: store, logger: logger}
}

// Handle adds the rated edge. Both endpoints must already exist; a missing
// user or video is a referential-integrity failure surfaced to the caller.
// Re-rating replaces the existing edge rather than stacking a duplicate.
func (h *RateVideoHandler) Handle(ctx context.Context, cmd commands.RateVideoCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	user, err := h.store.FindVertex(ctx, graph.VertexUser, cmd.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFoundError("rating user").WithDetails(map[string]interface{}{
				"userId": cmd.UserID,
			})
		}
		return fmt.Errorf("find rating user: %w", err)
	}

	video, err := h.store.FindVertex(ctx, graph.VertexVideo, cmd.VideoID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFoundError("rated video").WithDetails(map[string]interface{}{
				"videoId": cmd.VideoID,
			})
		}
		return fmt.Errorf("find rated video: %w", err)
	}

	if _, err := h.store.AddEdge(ctx, graph.EdgeRated, user, video, graph.Properties{
		graph.PropRating: cmd.Rating,
	}); err != nil {
		return fmt.Errorf("add rated edge: %w", err)
	}

	h.logger.Debug("rated edge created",
		zap.String("userID", cmd.UserID),
		zap.String("videoID", cmd.VideoID),
		zap.Int("rating", cmd.Rating),
	)
	return nil
}
