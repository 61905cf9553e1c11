package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"videorec/application/queries"
	"videorec/domain/graph"
	"videorec/infrastructure/persistence/memory"
)

// seedGraph builds the canonical two-user scenario: both users love v1, and
// both also rated v2, so v2 is the expected recommendation for v1.
func seedGraph(t *testing.T) *memory.GraphStore {
	t.Helper()
	ctx := context.Background()
	store := memory.NewGraphStore()
	added := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	uploader, err := store.UpsertVertex(ctx, graph.VertexUser, "uploader", nil)
	require.NoError(t, err)
	for _, key := range []string{"u1", "u2"} {
		_, err := store.UpsertVertex(ctx, graph.VertexUser, key, nil)
		require.NoError(t, err)
	}
	for _, key := range []string{"v1", "v2", "v3"} {
		video, err := store.UpsertVertex(ctx, graph.VertexVideo, key, graph.Properties{
			graph.PropName:                 "title " + key,
			graph.PropPreviewImageLocation: "https://cdn.example.com/" + key + ".jpg",
			graph.PropAddedDate:            added,
		})
		require.NoError(t, err)
		_, err = store.AddEdge(ctx, graph.EdgeUploaded, uploader, video, nil)
		require.NoError(t, err)
	}

	rate := func(userKey, videoKey string, rating int) {
		user, err := store.FindVertex(ctx, graph.VertexUser, userKey)
		require.NoError(t, err)
		video, err := store.FindVertex(ctx, graph.VertexVideo, videoKey)
		require.NoError(t, err)
		_, err = store.AddEdge(ctx, graph.EdgeRated, user, video, graph.Properties{
			graph.PropRating: rating,
		})
		require.NoError(t, err)
	}
	rate("u1", "v1", 5)
	rate("u1", "v2", 4)
	rate("u2", "v1", 5)
	rate("u2", "v2", 3)
	rate("u2", "v3", 5)

	return store
}

func TestRelatedVideosHandler_Handle(t *testing.T) {
	store := seedGraph(t)
	handler := NewRelatedVideosHandler(store, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetRelatedVideosQuery{VideoID: "v1"})
	require.NoError(t, err)

	assert.Equal(t, "v1", result.VideoID)
	require.Len(t, result.Videos, 2)

	// v2 accumulates ratings from both raters of v1 (4 + 3), v3 only from u2.
	assert.Equal(t, "v2", result.Videos[0].VideoID)
	assert.Equal(t, "v3", result.Videos[1].VideoID)
	assert.Equal(t, "title v2", result.Videos[0].Name)
	assert.Equal(t, "uploader", result.Videos[0].UserID)
	assert.Equal(t, "https://cdn.example.com/v2.jpg", result.Videos[0].PreviewImageLocation)
	assert.Empty(t, result.PagingState)
}

func TestRelatedVideosHandler_UnknownVideoYieldsEmpty(t *testing.T) {
	store := seedGraph(t)
	handler := NewRelatedVideosHandler(store, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetRelatedVideosQuery{VideoID: "nope"})
	require.NoError(t, err)

	assert.NotNil(t, result.Videos)
	assert.Empty(t, result.Videos)
}

func TestRelatedVideosHandler_RejectsEmptyVideoID(t *testing.T) {
	handler := NewRelatedVideosHandler(memory.NewGraphStore(), nil, zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetRelatedVideosQuery{})
	assert.Error(t, err)
}

func TestSuggestedVideosHandler_Handle(t *testing.T) {
	store := seedGraph(t)
	handler := NewSuggestedVideosHandler(store, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetSuggestedVideosQuery{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, "u1", result.UserID)
	// u1 already rated v1 and v2; only u2's v3 remains.
	require.Len(t, result.Videos, 1)
	assert.Equal(t, "v3", result.Videos[0].VideoID)
	assert.Equal(t, "uploader", result.Videos[0].UserID)
}

func TestSuggestedVideosHandler_UnknownUserYieldsEmpty(t *testing.T) {
	store := seedGraph(t)
	handler := NewSuggestedVideosHandler(store, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetSuggestedVideosQuery{UserID: "nope"})
	require.NoError(t, err)

	assert.NotNil(t, result.Videos)
	assert.Empty(t, result.Videos)
}

func TestSuggestedVideosHandler_PagingStatePassesThroughEmpty(t *testing.T) {
	store := seedGraph(t)
	handler := NewSuggestedVideosHandler(store, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetSuggestedVideosQuery{
		UserID:      "u1",
		PageSize:    10,
		PagingState: []byte("opaque"),
	})
	require.NoError(t, err)
	assert.Empty(t, result.PagingState)
}
