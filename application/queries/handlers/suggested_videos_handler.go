package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"videorec/application/queries"
	"videorec/domain/recommend"
)

// SuggestedVideosHandler runs the Sample -> Aggregate -> Rank pipeline for
// the suggested-for-user query shape.
type SuggestedVideosHandler struct {
	sampler *recommend.Sampler
	ranker  *recommend.Ranker
	logger  *zap.Logger
}

// NewSuggestedVideosHandler creates a new suggested-videos handler.
func NewSuggestedVideosHandler(reader recommend.GraphReader, cfg *recommend.Config, logger *zap.Logger) *SuggestedVideosHandler {
	return &SuggestedVideosHandler{
		sampler: recommend.NewSampler(reader, cfg, logger),
		ranker:  recommend.NewRanker(reader, cfg),
		logger:  logger,
	}
}

// Handle executes the suggested-videos query.
func (h *SuggestedVideosHandler) Handle(ctx context.Context, query queries.GetSuggestedVideosQuery) (*queries.SuggestedVideosResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	samples, err := h.sampler.SuggestedFor(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("sample suggested videos: %w", err)
	}

	previews, err := h.ranker.Rank(ctx, recommend.Aggregate(samples))
	if err != nil {
		return nil, fmt.Errorf("rank suggested videos: %w", err)
	}
	if previews == nil {
		previews = []recommend.Preview{}
	}

	h.logger.Debug("suggested videos computed",
		zap.String("userID", query.UserID),
		zap.Int("samples", len(samples)),
		zap.Int("results", len(previews)),
	)

	return &queries.SuggestedVideosResult{
		UserID: query.UserID,
		Videos: previews,
	}, nil
}
