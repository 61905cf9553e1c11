package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videorec/domain/graph"
	apperrors "videorec/pkg/errors"
)

func TestGraphStore_UpsertVertexIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	first, err := store.UpsertVertex(ctx, graph.VertexUser, "u1", graph.Properties{
		graph.PropEmail: "one@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user#u1", first.ID())

	second, err := store.UpsertVertex(ctx, graph.VertexUser, "u1", graph.Properties{
		graph.PropEmail: "two@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())

	found, err := store.FindVertex(ctx, graph.VertexUser, "u1")
	require.NoError(t, err)
	assert.Equal(t, "two@example.com", found.Props.String(graph.PropEmail))
}

func TestGraphStore_FindVertexNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	_, err := store.FindVertex(ctx, graph.VertexVideo, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGraphStore_AddEdgeReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	user, err := store.UpsertVertex(ctx, graph.VertexUser, "u1", nil)
	require.NoError(t, err)
	video, err := store.UpsertVertex(ctx, graph.VertexVideo, "v1", nil)
	require.NoError(t, err)

	_, err = store.AddEdge(ctx, graph.EdgeRated, user, video, graph.Properties{graph.PropRating: 2})
	require.NoError(t, err)
	_, err = store.AddEdge(ctx, graph.EdgeRated, user, video, graph.Properties{graph.PropRating: 5})
	require.NoError(t, err)

	edges, err := store.OutEdges(ctx, user, graph.EdgeRated, graph.EdgeFilter{})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, 5, edges[0].Rating())

	inbound, err := store.InEdges(ctx, video, graph.EdgeRated, graph.EdgeFilter{})
	require.NoError(t, err)
	require.Len(t, inbound, 1)
	assert.Equal(t, "u1", inbound[0].From.Key)
}

func TestGraphStore_AddEdgeRequiresVertices(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	user, err := store.UpsertVertex(ctx, graph.VertexUser, "u1", nil)
	require.NoError(t, err)

	ghost := &graph.Vertex{Kind: graph.VertexVideo, Key: "missing"}
	_, err = store.AddEdge(ctx, graph.EdgeRated, user, ghost, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGraphStore_EdgeFilterByMinRating(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	video, err := store.UpsertVertex(ctx, graph.VertexVideo, "v1", nil)
	require.NoError(t, err)

	ratings := map[string]int{"u1": 1, "u2": 3, "u3": 5}
	for key, rating := range ratings {
		user, err := store.UpsertVertex(ctx, graph.VertexUser, key, nil)
		require.NoError(t, err)
		_, err = store.AddEdge(ctx, graph.EdgeRated, user, video, graph.Properties{graph.PropRating: rating})
		require.NoError(t, err)
	}

	filtered, err := store.InEdges(ctx, video, graph.EdgeRated, graph.EdgeFilter{MinRating: 3})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
	for _, e := range filtered {
		assert.GreaterOrEqual(t, e.Rating(), 3)
	}
}

func TestGraphStore_EdgeKindsAreSeparate(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	user, err := store.UpsertVertex(ctx, graph.VertexUser, "u1", nil)
	require.NoError(t, err)
	video, err := store.UpsertVertex(ctx, graph.VertexVideo, "v1", nil)
	require.NoError(t, err)

	_, err = store.AddEdge(ctx, graph.EdgeUploaded, user, video, graph.Properties{
		graph.PropAddedDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = store.AddEdge(ctx, graph.EdgeRated, user, video, graph.Properties{graph.PropRating: 4})
	require.NoError(t, err)

	uploaded, err := store.OutEdges(ctx, user, graph.EdgeUploaded, graph.EdgeFilter{})
	require.NoError(t, err)
	assert.Len(t, uploaded, 1)

	rated, err := store.OutEdges(ctx, user, graph.EdgeRated, graph.EdgeFilter{})
	require.NoError(t, err)
	assert.Len(t, rated, 1)
}

func TestGraphStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	_, err := store.UpsertVertex(ctx, graph.VertexUser, "u1", graph.Properties{
		graph.PropEmail: "original@example.com",
	})
	require.NoError(t, err)

	found, err := store.FindVertex(ctx, graph.VertexUser, "u1")
	require.NoError(t, err)
	found.Props[graph.PropEmail] = "mutated@example.com"

	again, err := store.FindVertex(ctx, graph.VertexUser, "u1")
	require.NoError(t, err)
	assert.Equal(t, "original@example.com", again.Props.String(graph.PropEmail))
}
