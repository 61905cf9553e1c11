package ports

import (
	"context"

	"videorec/domain/graph"
	"videorec/domain/recommend"
)

// GraphStore is the full port to the property graph backend. Queries only use
// the embedded read surface; the mutator additionally writes. Implementations
// must make UpsertVertex idempotent by (kind, key) and must keep at most one
// edge per (kind, from, to) triple, replacing the properties on re-add.
type GraphStore interface {
	recommend.GraphReader

	// UpsertVertex creates the vertex or replaces its properties.
	UpsertVertex(ctx context.Context, kind graph.VertexKind, key string, props graph.Properties) (*graph.Vertex, error)

	// AddEdge creates a directed edge between two existing vertices.
	AddEdge(ctx context.Context, kind graph.EdgeKind, from, to *graph.Vertex, props graph.Properties) (*graph.Edge, error)
}

// DeadLetter describes a mutation that could not be applied, surfaced so the
// event pipeline can retry or quarantine it.
type DeadLetter struct {
	EventType string `json:"eventType"`
	Payload   []byte `json:"payload"`
	Reason    string `json:"reason"`
}

// DeadLetterPublisher publishes failed mutations to an external bus.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, dl DeadLetter) error
}
