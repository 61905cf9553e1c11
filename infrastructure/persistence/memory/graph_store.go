// Package memory provides an in-memory GraphStore used by development mode
// and the test suites. All operations are safe for concurrent use.
package memory

import (
	"context"
	"sync"

	"videorec/domain/graph"
	apperrors "videorec/pkg/errors"
)

type edgeRecord struct {
	kind  graph.EdgeKind
	from  string // vertex ID
	to    string // vertex ID
	props graph.Properties
}

// GraphStore is a mutex-guarded adjacency-list property graph.
type GraphStore struct {
	mu       sync.RWMutex
	vertices map[string]*graph.Vertex // keyed by Vertex.ID()
	outbound map[string][]*edgeRecord // from-vertex ID -> edges
	inbound  map[string][]*edgeRecord // to-vertex ID -> edges
}

// NewGraphStore creates an empty in-memory graph.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		vertices: make(map[string]*graph.Vertex),
		outbound: make(map[string][]*edgeRecord),
		inbound:  make(map[string][]*edgeRecord),
	}
}

// FindVertex looks up a vertex by kind and business key.
func (s *GraphStore) FindVertex(ctx context.Context, kind graph.VertexKind, key string) (*graph.Vertex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vertices[vertexID(kind, key)]
	if !ok {
		return nil, apperrors.NewNotFoundError("vertex")
	}
	return copyVertex(v), nil
}

// UpsertVertex creates the vertex or replaces its properties. The same
// (kind, key) always resolves to a single vertex.
func (s *GraphStore) UpsertVertex(ctx context.Context, kind graph.VertexKind, key string, props graph.Properties) (*graph.Vertex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &graph.Vertex{Kind: kind, Key: key, Props: props.Clone()}
	s.vertices[v.ID()] = v
	return copyVertex(v), nil
}

// AddEdge creates a directed edge between two existing vertices. At most one
// edge exists per (kind, from, to); re-adding replaces the properties.
func (s *GraphStore) AddEdge(ctx context.Context, kind graph.EdgeKind, from, to *graph.Vertex, props graph.Properties) (*graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromStored, ok := s.vertices[from.ID()]
	if !ok {
		return nil, apperrors.NewNotFoundError("edge source vertex")
	}
	toStored, ok := s.vertices[to.ID()]
	if !ok {
		return nil, apperrors.NewNotFoundError("edge target vertex")
	}

	rec := s.findEdge(kind, fromStored.ID(), toStored.ID())
	if rec != nil {
		rec.props = props.Clone()
	} else {
		rec = &edgeRecord{kind: kind, from: fromStored.ID(), to: toStored.ID(), props: props.Clone()}
		s.outbound[rec.from] = append(s.outbound[rec.from], rec)
		s.inbound[rec.to] = append(s.inbound[rec.to], rec)
	}

	e := s.materialize(rec)
	return &e, nil
}

// OutEdges returns the outgoing edges of the given kind, filtered.
func (s *GraphStore) OutEdges(ctx context.Context, from *graph.Vertex, kind graph.EdgeKind, filter graph.EdgeFilter) ([]graph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.outbound[from.ID()], kind, filter), nil
}

// InEdges returns the incoming edges of the given kind, filtered.
func (s *GraphStore) InEdges(ctx context.Context, to *graph.Vertex, kind graph.EdgeKind, filter graph.EdgeFilter) ([]graph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.inbound[to.ID()], kind, filter), nil
}

func (s *GraphStore) collect(recs []*edgeRecord, kind graph.EdgeKind, filter graph.EdgeFilter) []graph.Edge {
	var out []graph.Edge
	for _, rec := range recs {
		if rec.kind != kind {
			continue
		}
		e := s.materialize(rec)
		if !filter.Matches(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *GraphStore) findEdge(kind graph.EdgeKind, fromID, toID string) *edgeRecord {
	for _, rec := range s.outbound[fromID] {
		if rec.kind == kind && rec.to == toID {
			return rec
		}
	}
	return nil
}

// materialize builds an Edge value with endpoint snapshots. Callers hold the
// lock.
func (s *GraphStore) materialize(rec *edgeRecord) graph.Edge {
	return graph.Edge{
		Kind:  rec.kind,
		From:  *copyVertex(s.vertices[rec.from]),
		To:    *copyVertex(s.vertices[rec.to]),
		Props: rec.props.Clone(),
	}
}

func copyVertex(v *graph.Vertex) *graph.Vertex {
	return &graph.Vertex{Kind: v.Kind, Key: v.Key, Props: v.Props.Clone()}
}

func vertexID(kind graph.VertexKind, key string) string {
	return graph.Vertex{Kind: kind, Key: key}.ID()
}
