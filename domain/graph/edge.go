package graph

// EdgeKind identifies the type of a directed edge.
type EdgeKind string

const (
	// EdgeRated connects a user to a video they rated. Carries PropRating.
	EdgeRated EdgeKind = "rated"
	// EdgeUploaded connects a user to a video they uploaded. Exactly one
	// inbound uploaded edge marks a video as published.
	EdgeUploaded EdgeKind = "uploaded"
	// EdgeTaggedWith connects a video to a tag.
	EdgeTaggedWith EdgeKind = "taggedWith"
)

// Edge is a directed, typed, property-bearing relationship between two
// vertices. From and To are snapshots of the endpoints at traversal time.
type Edge struct {
	Kind  EdgeKind
	From  Vertex
	To    Vertex
	Props Properties
}

// Rating returns the rating property of a rated edge, 0 for other kinds.
func (e Edge) Rating() int {
	return e.Props.Int(PropRating)
}

// EdgeFilter narrows edge traversals. The zero value matches every edge of
// the requested kind.
type EdgeFilter struct {
	// MinRating keeps only edges whose rating property is >= this value.
	// 0 disables the filter.
	MinRating int
}

// Matches reports whether the edge passes the filter.
func (f EdgeFilter) Matches(e Edge) bool {
	if f.MinRating > 0 && e.Rating() < f.MinRating {
		return false
	}
	return true
}
