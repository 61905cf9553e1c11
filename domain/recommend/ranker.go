package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"videorec/domain/graph"
)

// Preview is the projection of a ranked candidate returned to clients.
type Preview struct {
	VideoID              string    `json:"videoId"`
	AddedDate            time.Time `json:"addedDate"`
	Name                 string    `json:"name"`
	PreviewImageLocation string    `json:"previewImageLocation"`
	UserID               string    `json:"userId"`
}

// Ranker orders the aggregated score map and projects display attributes for
// the surviving candidates.
type Ranker struct {
	reader GraphReader
	cfg    *Config
}

// NewRanker creates a ranker over the given graph.
func NewRanker(reader GraphReader, cfg *Config) *Ranker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Ranker{reader: reader, cfg: cfg}
}

// Rank sorts candidates by total score descending, breaking ties on candidate
// key ascending so a fixed input always produces the same output, truncates to
// TopN, and resolves each survivor's display attributes including the uploader
// via the inbound uploaded edge.
func (r *Ranker) Rank(ctx context.Context, scores map[string]*Score) ([]Preview, error) {
	ordered := make([]*Score, 0, len(scores))
	for _, sc := range scores {
		ordered = append(ordered, sc)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Total != ordered[j].Total {
			return ordered[i].Total > ordered[j].Total
		}
		return ordered[i].Candidate.Key < ordered[j].Candidate.Key
	})
	if len(ordered) > r.cfg.TopN {
		ordered = ordered[:r.cfg.TopN]
	}

	previews := make([]Preview, 0, len(ordered))
	for _, sc := range ordered {
		video := sc.Candidate
		uploaderID, err := r.uploaderOf(ctx, &video)
		if err != nil {
			return nil, err
		}
		previews = append(previews, Preview{
			VideoID:              video.Key,
			AddedDate:            video.Props.Time(graph.PropAddedDate),
			Name:                 video.Props.String(graph.PropName),
			PreviewImageLocation: video.Props.String(graph.PropPreviewImageLocation),
			UserID:               uploaderID,
		})
	}
	return previews, nil
}

func (r *Ranker) uploaderOf(ctx context.Context, video *graph.Vertex) (string, error) {
	uploads, err := r.reader.InEdges(ctx, video, graph.EdgeUploaded, graph.EdgeFilter{})
	if err != nil {
		return "", fmt.Errorf("uploader of video %s: %w", video.Key, err)
	}
	if len(uploads) == 0 {
		// The sampler filtered for a valid uploader already; racing with a
		// concurrent mutation is the only way to get here.
		return "", nil
	}
	return uploads[0].From.Key, nil
}
