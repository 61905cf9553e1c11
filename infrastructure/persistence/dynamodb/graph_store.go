// Package dynamodb implements the GraphStore port on a single DynamoDB table.
//
// Layout:
//
//	vertex item:  PK = "V#<kind>#<key>"  SK = "META"
//	edge item:    PK = from vertex ID    SK = "OUT#<edgeKind>#<toKind>#<toKey>"
//	              GSI1PK = to vertex ID  GSI1SK = "IN#<edgeKind>#<fromKind>#<fromKey>"
//
// Outbound traversal queries the base table by PK and SK prefix; inbound
// traversal queries GSI1 the same way. Edge items carry denormalized endpoint
// identities so traversals resolve endpoints with one extra GetItem per
// distinct vertex.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"videorec/domain/graph"
	apperrors "videorec/pkg/errors"
)

const (
	vertexSortKey = "META"
	inboundIndex  = "InboundEdgeIndex"
)

// GraphStore implements the graph port on a single DynamoDB table.
type GraphStore struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewGraphStore creates a DynamoDB-backed graph store. indexName is the GSI
// used for inbound edge traversal; pass "" for the default.
func NewGraphStore(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *GraphStore {
	if indexName == "" {
		indexName = inboundIndex
	}
	return &GraphStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// vertexItem is the DynamoDB item structure for a vertex
type vertexItem struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	EntityType string                 `dynamodbav:"EntityType"`
	Kind       string                 `dynamodbav:"Kind"`
	Key        string                 `dynamodbav:"Key"`
	Props      map[string]interface{} `dynamodbav:"Props"`
	UpdatedAt  string                 `dynamodbav:"UpdatedAt"`
}

// edgeItem is the DynamoDB item structure for an edge
type edgeItem struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	GSI1PK     string                 `dynamodbav:"GSI1PK"`
	GSI1SK     string                 `dynamodbav:"GSI1SK"`
	EntityType string                 `dynamodbav:"EntityType"`
	Kind       string                 `dynamodbav:"Kind"`
	FromKind   string                 `dynamodbav:"FromKind"`
	FromKey    string                 `dynamodbav:"FromKey"`
	ToKind     string                 `dynamodbav:"ToKind"`
	ToKey      string                 `dynamodbav:"ToKey"`
	Rating     int                    `dynamodbav:"Rating"`
	Props      map[string]interface{} `dynamodbav:"Props"`
	UpdatedAt  string                 `dynamodbav:"UpdatedAt"`
}

// FindVertex looks up a vertex by kind and business key.
func (s *GraphStore) FindVertex(ctx context.Context, kind graph.VertexKind, key string) (*graph.Vertex, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: vertexPK(kind, key)},
			"SK": &types.AttributeValueMemberS{Value: vertexSortKey},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("get vertex", err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NewNotFoundError("vertex")
	}

	var item vertexItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, apperrors.NewDatabaseError("unmarshal vertex", err)
	}
	return itemToVertex(item), nil
}

// UpsertVertex creates the vertex or replaces its properties.
func (s *GraphStore) UpsertVertex(ctx context.Context, kind graph.VertexKind, key string, props graph.Properties) (*graph.Vertex, error) {
	item := vertexItem{
		PK:         vertexPK(kind, key),
		SK:         vertexSortKey,
		EntityType: "VERTEX",
		Kind:       string(kind),
		Key:        key,
		Props:      encodeProps(props),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, apperrors.NewDatabaseError("marshal vertex", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("failed to upsert vertex",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("key", key),
		)
		return nil, apperrors.NewDatabaseError("put vertex", err)
	}
	return &graph.Vertex{Kind: kind, Key: key, Props: props.Clone()}, nil
}

// AddEdge creates a directed edge between two existing vertices. The sort key
// encodes (kind, to), so re-adding the same triple overwrites the item and at
// most one edge exists per (kind, from, to).
func (s *GraphStore) AddEdge(ctx context.Context, kind graph.EdgeKind, from, to *graph.Vertex, props graph.Properties) (*graph.Edge, error) {
	item := edgeItem{
		PK:         from.ID(),
		SK:         outSK(kind, to.Kind, to.Key),
		GSI1PK:     to.ID(),
		GSI1SK:     inSK(kind, from.Kind, from.Key),
		EntityType: "EDGE",
		Kind:       string(kind),
		FromKind:   string(from.Kind),
		FromKey:    from.Key,
		ToKind:     string(to.Kind),
		ToKey:      to.Key,
		Rating:     props.Int(graph.PropRating),
		Props:      encodeProps(props),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, apperrors.NewDatabaseError("marshal edge", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("failed to add edge",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("from", from.ID()),
			zap.String("to", to.ID()),
		)
		return nil, apperrors.NewDatabaseError("put edge", err)
	}
	return &graph.Edge{Kind: kind, From: *from, To: *to, Props: props.Clone()}, nil
}

// OutEdges returns the outgoing edges of the given kind, filtered.
func (s *GraphStore) OutEdges(ctx context.Context, from *graph.Vertex, kind graph.EdgeKind, filter graph.EdgeFilter) ([]graph.Edge, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(from.ID())).
		And(expression.Key("SK").BeginsWith("OUT#" + string(kind) + "#"))
	return s.queryEdges(ctx, keyCond, "", filter)
}

// InEdges returns the incoming edges of the given kind, filtered, via GSI1.
func (s *GraphStore) InEdges(ctx context.Context, to *graph.Vertex, kind graph.EdgeKind, filter graph.EdgeFilter) ([]graph.Edge, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(to.ID())).
		And(expression.Key("GSI1SK").BeginsWith("IN#" + string(kind) + "#"))
	return s.queryEdges(ctx, keyCond, s.indexName, filter)
}

func (s *GraphStore) queryEdges(ctx context.Context, keyCond expression.KeyConditionBuilder, index string, filter graph.EdgeFilter) ([]graph.Edge, error) {
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter.MinRating > 0 {
		builder = builder.WithFilter(
			expression.Name("Rating").GreaterThanEqual(expression.Value(filter.MinRating)),
		)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("build edge query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}

	var items []edgeItem
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("query edges", err)
		}
		var pageItems []edgeItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, apperrors.NewDatabaseError("unmarshal edges", err)
		}
		items = append(items, pageItems...)
	}

	return s.resolveEdges(ctx, items)
}

// resolveEdges attaches endpoint vertex snapshots to edge items, caching
// lookups per call so repeated endpoints cost one read.
func (s *GraphStore) resolveEdges(ctx context.Context, items []edgeItem) ([]graph.Edge, error) {
	cache := make(map[string]*graph.Vertex)
	lookup := func(kind graph.VertexKind, key string) (*graph.Vertex, error) {
		id := graph.Vertex{Kind: kind, Key: key}.ID()
		if v, ok := cache[id]; ok {
			return v, nil
		}
		v, err := s.FindVertex(ctx, kind, key)
		if err != nil {
			if apperrors.IsNotFound(err) {
				cache[id] = nil
				return nil, nil
			}
			return nil, err
		}
		cache[id] = v
		return v, nil
	}

	edges := make([]graph.Edge, 0, len(items))
	for _, item := range items {
		from, err := lookup(graph.VertexKind(item.FromKind), item.FromKey)
		if err != nil {
			return nil, err
		}
		to, err := lookup(graph.VertexKind(item.ToKind), item.ToKey)
		if err != nil {
			return nil, err
		}
		if from == nil || to == nil {
			// Dangling edge item from a partially applied mutation.
			s.logger.Warn("skipping edge with missing endpoint",
				zap.String("pk", item.PK),
				zap.String("sk", item.SK),
			)
			continue
		}
		edges = append(edges, graph.Edge{
			Kind:  graph.EdgeKind(item.Kind),
			From:  *from,
			To:    *to,
			Props: decodeProps(item.Props),
		})
	}
	return edges, nil
}

// encodeProps converts a property bag to attributevalue-friendly values,
// storing timestamps as RFC3339 strings.
func encodeProps(props graph.Properties) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		if t, ok := v.(time.Time); ok {
			out[k] = t.UTC().Format(time.RFC3339)
			continue
		}
		out[k] = v
	}
	return out
}

// decodeProps wraps stored attributes back into a Properties bag. Numbers
// come back as float64 and times as strings; the Properties accessors
// normalize both.
func decodeProps(raw map[string]interface{}) graph.Properties {
	out := make(graph.Properties, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out
}

func itemToVertex(item vertexItem) *graph.Vertex {
	return &graph.Vertex{
		Kind:  graph.VertexKind(item.Kind),
		Key:   item.Key,
		Props: decodeProps(item.Props),
	}
}

func vertexPK(kind graph.VertexKind, key string) string {
	return "V#" + string(kind) + "#" + key
}

func outSK(kind graph.EdgeKind, toKind graph.VertexKind, toKey string) string {
	return fmt.Sprintf("OUT#%s#%s#%s", kind, toKind, toKey)
}

func inSK(kind graph.EdgeKind, fromKind graph.VertexKind, fromKey string) string {
	return fmt.Sprintf("IN#%s#%s#%s", kind, fromKind, fromKey)
}
