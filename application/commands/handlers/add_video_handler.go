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

// AddVideoHandler applies a VideoAdded event to the graph: video vertex,
// uploaded edge, and taggedWith edges for the deduplicated tag set.
type AddVideoHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewAddVideoHandler creates a new add-video handler.
func NewAddVideoHandler(store ports.GraphStore, logger *zap.Logger) *AddVideoHandler {
	return &AddVideoHandler{store: store, logger: logger}
}

// Handle applies the video addition. The uploader must already exist; a
// missing uploader is a referential-integrity failure surfaced to the caller
// so the event pipeline can retry or dead-letter the event.
func (h *AddVideoHandler) Handle(ctx context.Context, cmd commands.AddVideoCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	uploader, err := h.store.FindVertex(ctx, graph.VertexUser, cmd.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFoundError("uploader user").WithDetails(map[string]interface{}{
				"userId":  cmd.UserID,
				"videoId": cmd.VideoID,
			})
		}
		return fmt.Errorf("find uploader: %w", err)
	}

	video, err := h.store.UpsertVertex(ctx, graph.VertexVideo, cmd.VideoID, graph.Properties{
		graph.PropName:                 cmd.Name,
		graph.PropDescription:          cmd.Description,
		graph.PropLocation:             cmd.Location,
		graph.PropPreviewImageLocation: cmd.PreviewImageLocation,
		graph.PropAddedDate:            cmd.AddedDate,
	})
	if err != nil {
		return fmt.Errorf("upsert video vertex: %w", err)
	}

	if _, err := h.store.AddEdge(ctx, graph.EdgeUploaded, uploader, video, graph.Properties{
		graph.PropAddedDate: cmd.AddedDate,
	}); err != nil {
		return fmt.Errorf("add uploaded edge: %w", err)
	}

	tags := uniqueTags(cmd.Tags)
	for _, tag := range tags {
		tagVertex, err := h.findOrCreateTag(ctx, tag, cmd)
		if err != nil {
			return err
		}
		if _, err := h.store.AddEdge(ctx, graph.EdgeTaggedWith, video, tagVertex, graph.Properties{
			graph.PropTaggedDate: cmd.AddedDate,
		}); err != nil {
			return fmt.Errorf("add taggedWith edge for %q: %w", tag, err)
		}
	}

	h.logger.Debug("video vertex created",
		zap.String("videoID", cmd.VideoID),
		zap.String("uploaderID", cmd.UserID),
		zap.Int("tags", len(tags)),
	)
	return nil
}

func (h *AddVideoHandler) findOrCreateTag(ctx context.Context, tag string, cmd commands.AddVideoCommand) (*graph.Vertex, error) {
	existing, err := h.store.FindVertex(ctx, graph.VertexTag, tag)
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("find tag %q: %w", tag, err)
	}
	created, err := h.store.UpsertVertex(ctx, graph.VertexTag, tag, graph.Properties{
		graph.PropName:       tag,
		graph.PropTaggedDate: cmd.AddedDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", tag, err)
	}
	return created, nil
}

// uniqueTags normalizes and deduplicates the incoming tag list, preserving
// first-seen order and dropping empties.
func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		norm := graph.NormalizeTag(t)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}
