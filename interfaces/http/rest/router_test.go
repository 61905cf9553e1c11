package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"videorec/application/queries"
	querybus "videorec/application/queries/bus"
	queries_handlers "videorec/application/queries/handlers"
	"videorec/domain/graph"
	"videorec/infrastructure/persistence/memory"
)

const (
	videoID    = "9f1b6f2e-46a4-4f36-9e3a-111111111111"
	userID     = "9f1b6f2e-46a4-4f36-9e3a-222222222222"
	uploaderID = "9f1b6f2e-46a4-4f36-9e3a-333333333333"
	otherID    = "9f1b6f2e-46a4-4f36-9e3a-444444444444"
	secondVid  = "9f1b6f2e-46a4-4f36-9e3a-555555555555"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	store := memory.NewGraphStore()
	logger := zap.NewNop()

	uploader, err := store.UpsertVertex(ctx, graph.VertexUser, uploaderID, nil)
	require.NoError(t, err)
	user, err := store.UpsertVertex(ctx, graph.VertexUser, userID, nil)
	require.NoError(t, err)
	other, err := store.UpsertVertex(ctx, graph.VertexUser, otherID, nil)
	require.NoError(t, err)

	for _, key := range []string{videoID, secondVid} {
		video, err := store.UpsertVertex(ctx, graph.VertexVideo, key, graph.Properties{
			graph.PropName:      "video " + key,
			graph.PropAddedDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		_, err = store.AddEdge(ctx, graph.EdgeUploaded, uploader, video, nil)
		require.NoError(t, err)
	}

	rate := func(u *graph.Vertex, videoKey string, rating int) {
		video, err := store.FindVertex(ctx, graph.VertexVideo, videoKey)
		require.NoError(t, err)
		_, err = store.AddEdge(ctx, graph.EdgeRated, u, video, graph.Properties{
			graph.PropRating: rating,
		})
		require.NoError(t, err)
	}
	rate(user, videoID, 5)
	rate(other, videoID, 5)
	rate(other, secondVid, 4)

	queryBus := querybus.NewQueryBus()
	related := queries_handlers.NewRelatedVideosHandler(store, nil, logger)
	require.NoError(t, queryBus.Register(queries.GetRelatedVideosQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return related.Handle(ctx, q.(queries.GetRelatedVideosQuery))
		})))
	suggested := queries_handlers.NewSuggestedVideosHandler(store, nil, logger)
	require.NoError(t, queryBus.Register(queries.GetSuggestedVideosQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return suggested.Handle(ctx, q.(queries.GetSuggestedVideosQuery))
		})))

	return NewRouter(queryBus, logger, true).Setup()
}

func TestRouter_HealthAndReady(t *testing.T) {
	handler := newTestHandler(t)

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestRouter_GetRelatedVideos(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/videos/%s/related", videoID), nil)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result queries.RelatedVideosResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, videoID, result.VideoID)
	require.Len(t, result.Videos, 1)
	assert.Equal(t, secondVid, result.Videos[0].VideoID)
	assert.Equal(t, uploaderID, result.Videos[0].UserID)
}

func TestRouter_GetSuggestedVideos(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%s/suggested", userID), nil)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result queries.SuggestedVideosResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, userID, result.UserID)
	require.Len(t, result.Videos, 1)
	assert.Equal(t, secondVid, result.Videos[0].VideoID)
}

func TestRouter_UnknownSeedReturnsEmptyList(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	unknown := "9f1b6f2e-46a4-4f36-9e3a-999999999999"
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/videos/%s/related", unknown), nil)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result queries.RelatedVideosResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotNil(t, result.Videos)
	assert.Empty(t, result.Videos)
}

func TestRouter_InvalidIDFormatIsBadRequest(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/not-a-uuid/related", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_InvalidPagingParamsAreBadRequest(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/videos/%s/related?pageSize=abc", videoID), nil)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/users/%s/suggested?pagingState=!!!not-base64", userID), nil)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
