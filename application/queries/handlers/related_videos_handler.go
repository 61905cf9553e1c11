package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"videorec/application/queries"
	"videorec/domain/recommend"
)

// RelatedVideosHandler runs the Sample -> Aggregate -> Rank pipeline for the
// related-videos query shape. It is stateless and read-only; concurrent
// queries need no coordination.
type RelatedVideosHandler struct {
	sampler *recommend.Sampler
	ranker  *recommend.Ranker
	logger  *zap.Logger
}

// NewRelatedVideosHandler creates a new related-videos handler.
func NewRelatedVideosHandler(reader recommend.GraphReader, cfg *recommend.Config, logger *zap.Logger) *RelatedVideosHandler {
	return &RelatedVideosHandler{
		sampler: recommend.NewSampler(reader, cfg, logger),
		ranker:  recommend.NewRanker(reader, cfg),
		logger:  logger,
	}
}

// Handle executes the related-videos query.
func (h *RelatedVideosHandler) Handle(ctx context.Context, query queries.GetRelatedVideosQuery) (*queries.RelatedVideosResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	samples, err := h.sampler.RelatedTo(ctx, query.VideoID)
	if err != nil {
		return nil, fmt.Errorf("sample related videos: %w", err)
	}

	previews, err := h.ranker.Rank(ctx, recommend.Aggregate(samples))
	if err != nil {
		return nil, fmt.Errorf("rank related videos: %w", err)
	}
	if previews == nil {
		previews = []recommend.Preview{}
	}

	h.logger.Debug("related videos computed",
		zap.String("videoID", query.VideoID),
		zap.Int("samples", len(samples)),
		zap.Int("results", len(previews)),
	)

	// Paging beyond top-N is not supported; the paging state is returned
	// empty regardless of input.
	return &queries.RelatedVideosResult{
		VideoID: query.VideoID,
		Videos:  previews,
	}, nil
}
