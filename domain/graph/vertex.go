package graph

import (
	"strings"
	"time"
)

// VertexKind identifies the type of a vertex. Keys are unique per kind.
type VertexKind string

const (
	VertexUser  VertexKind = "user"
	VertexVideo VertexKind = "video"
	VertexTag   VertexKind = "tag"
)

// Property names shared by vertices and edges.
const (
	PropName                 = "name"
	PropEmail                = "email"
	PropDescription          = "description"
	PropLocation             = "location"
	PropPreviewImageLocation = "preview_image_location"
	PropAddedDate            = "added_date"
	PropTaggedDate           = "tagged_date"
	PropRating               = "rating"
)

// Properties is a bag of typed vertex/edge attributes. Values are strings,
// integers, or timestamps; storage backends may round-trip timestamps as
// RFC3339 strings and numbers as float64, so the accessors normalize.
type Properties map[string]interface{}

// String returns the named property as a string, or "" if absent.
func (p Properties) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the named property as an int, or 0 if absent.
func (p Properties) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Time returns the named property as a time.Time, or the zero time if the
// property is absent or unparseable.
func (p Properties) Time(key string) time.Time {
	switch v := p[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Clone returns a shallow copy so callers cannot mutate stored state.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Vertex is a typed, keyed node in the property graph. The key is a business
// identifier: userId for users, videoId for videos, normalized text for tags.
type Vertex struct {
	Kind  VertexKind
	Key   string
	Props Properties
}

// ID returns the (kind, key) identity of the vertex as a single string.
func (v Vertex) ID() string {
	return string(v.Kind) + "#" + v.Key
}

// NormalizeTag canonicalizes tag text so that tag vertices deduplicate
// globally: trimmed and lowercased.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
