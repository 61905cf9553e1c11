package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"videorec/domain/graph"
	apperrors "videorec/pkg/errors"
)

// GraphReader is the read-only traversal surface the recommendation core
// needs. Defined here rather than importing the storage layer so the
// Sample -> Aggregate -> Rank pipeline stays testable against any graph
// engine.
type GraphReader interface {
	// FindVertex looks up a vertex by kind and business key. Returns a
	// NOT_FOUND error when the vertex does not exist.
	FindVertex(ctx context.Context, kind graph.VertexKind, key string) (*graph.Vertex, error)

	// OutEdges returns the outgoing edges of the given kind, filtered.
	OutEdges(ctx context.Context, from *graph.Vertex, kind graph.EdgeKind, filter graph.EdgeFilter) ([]graph.Edge, error)

	// InEdges returns the incoming edges of the given kind, filtered.
	InEdges(ctx context.Context, to *graph.Vertex, kind graph.EdgeKind, filter graph.EdgeFilter) ([]graph.Edge, error)
}

// Sample is one contributing path reaching a candidate video: the candidate
// and the rating carried by the final rated edge of the path.
type Sample struct {
	Candidate graph.Vertex
	Rating    int
}

// Sampler walks the two-hop collaborative traversals and produces the
// candidate set. It holds no per-request state; every invocation scopes its
// seed markers and watched set to local variables.
type Sampler struct {
	reader GraphReader
	cfg    *Config
	logger *zap.Logger
}

// NewSampler creates a sampler over the given graph.
func NewSampler(reader GraphReader, cfg *Config, logger *zap.Logger) *Sampler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Sampler{reader: reader, cfg: cfg, logger: logger}
}

// RelatedTo samples candidate videos related to the seed video: users who
// rated the seed highly, then videos those users also rated highly. A missing
// seed yields an empty candidate set, not an error.
func (s *Sampler) RelatedTo(ctx context.Context, videoID string) ([]Sample, error) {
	seed, err := s.reader.FindVertex(ctx, graph.VertexVideo, videoID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find seed video: %w", err)
	}

	// Hop 1: who rated this video highly? Bounded, favoring higher ratings.
	ratings, err := s.reader.InEdges(ctx, seed, graph.EdgeRated, graph.EdgeFilter{MinRating: s.cfg.MinRating})
	if err != nil {
		return nil, fmt.Errorf("seed video ratings: %w", err)
	}
	ratings = topByRating(ratings, s.cfg.SampleSize, fromKey)

	exclude := map[string]bool{seed.Key: true}
	samples, err := s.fanOut(ctx, raterVertices(ratings), exclude)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("sampled related videos",
		zap.String("videoID", videoID),
		zap.Int("raters", len(ratings)),
		zap.Int("samples", len(samples)),
	)
	return samples, nil
}

// SuggestedFor samples candidate videos for the seed user: users who share
// the seed's taste, then videos they rated highly that the seed has not
// already rated. A missing seed yields an empty candidate set, not an error.
func (s *Sampler) SuggestedFor(ctx context.Context, userID string) ([]Sample, error) {
	seed, err := s.reader.FindVertex(ctx, graph.VertexUser, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find seed user: %w", err)
	}

	// Every video the seed has rated is off the table, whatever the rating.
	rated, err := s.reader.OutEdges(ctx, seed, graph.EdgeRated, graph.EdgeFilter{})
	if err != nil {
		return nil, fmt.Errorf("seed user ratings: %w", err)
	}
	watched := make(map[string]bool, len(rated)+1)
	for _, e := range rated {
		watched[e.To.Key] = true
	}

	// Hop 1: co-raters of the videos the seed rated highly. The sample
	// bound applies across all of them, favoring higher ratings; each
	// co-rater contributes once.
	var coRatings []graph.Edge
	for _, e := range rated {
		if e.Rating() < s.cfg.MinRating {
			continue
		}
		video := e.To
		in, err := s.reader.InEdges(ctx, &video, graph.EdgeRated, graph.EdgeFilter{MinRating: s.cfg.MinRating})
		if err != nil {
			return nil, fmt.Errorf("co-ratings of video %s: %w", video.Key, err)
		}
		for _, co := range in {
			if co.From.Key == seed.Key {
				continue
			}
			coRatings = append(coRatings, co)
		}
	}
	coRatings = topByRating(coRatings, s.cfg.SampleSize, fromKey)

	samples, err := s.fanOut(ctx, raterVertices(coRatings), watched)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("sampled suggested videos",
		zap.String("userID", userID),
		zap.Int("watched", len(watched)),
		zap.Int("coRaters", len(coRatings)),
		zap.Int("samples", len(samples)),
	)
	return samples, nil
}

// fanOut is the shared second hop: for each sampled user, follow up to
// PerUserLimit of their highly rated videos, skipping excluded keys and
// candidates with no uploader.
func (s *Sampler) fanOut(ctx context.Context, users []graph.Vertex, exclude map[string]bool) ([]Sample, error) {
	var samples []Sample
	published := make(map[string]bool)

	for i := range users {
		user := users[i]
		liked, err := s.reader.OutEdges(ctx, &user, graph.EdgeRated, graph.EdgeFilter{MinRating: s.cfg.MinRating})
		if err != nil {
			return nil, fmt.Errorf("ratings of user %s: %w", user.Key, err)
		}
		liked = topByRating(liked, s.cfg.PerUserLimit, toKey)

		for _, e := range liked {
			candidate := e.To
			if exclude[candidate.Key] {
				continue
			}
			ok, err := s.hasUploader(ctx, &candidate, published)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			samples = append(samples, Sample{Candidate: candidate, Rating: e.Rating()})
		}
	}
	return samples, nil
}

// hasUploader reports whether the video has an inbound uploaded edge,
// memoizing per traversal.
func (s *Sampler) hasUploader(ctx context.Context, video *graph.Vertex, memo map[string]bool) (bool, error) {
	if ok, seen := memo[video.Key]; seen {
		return ok, nil
	}
	uploads, err := s.reader.InEdges(ctx, video, graph.EdgeUploaded, graph.EdgeFilter{})
	if err != nil {
		return false, fmt.Errorf("uploader of video %s: %w", video.Key, err)
	}
	ok := len(uploads) > 0
	memo[video.Key] = ok
	return ok, nil
}

// raterVertices extracts the distinct From vertices of rating edges,
// preserving order and keeping the first (highest-rated) occurrence.
func raterVertices(edges []graph.Edge) []graph.Vertex {
	seen := make(map[string]bool, len(edges))
	users := make([]graph.Vertex, 0, len(edges))
	for _, e := range edges {
		if seen[e.From.Key] {
			continue
		}
		seen[e.From.Key] = true
		users = append(users, e.From)
	}
	return users
}

func fromKey(e graph.Edge) string { return e.From.Key }
func toKey(e graph.Edge) string   { return e.To.Key }

// topByRating sorts edges by rating descending, breaking ties on the given
// endpoint key ascending for reproducibility, and truncates to n.
func topByRating(edges []graph.Edge, n int, key func(graph.Edge) string) []graph.Edge {
	sorted := make([]graph.Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Rating(), sorted[j].Rating()
		if ri != rj {
			return ri > rj
		}
		return key(sorted[i]) < key(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
