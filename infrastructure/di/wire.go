//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"videorec/application/commands/bus"
	"videorec/application/ports"
	querybus "videorec/application/queries/bus"
	"videorec/domain/recommend"
	"videorec/infrastructure/config"
	"videorec/infrastructure/messaging/eventstream"
)

// Container holds the dependencies of the query-serving API.
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	GraphStore      ports.GraphStore
	RecommendConfig *recommend.Config
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
}

// ConsumerContainer holds the dependencies of the graph mutator.
type ConsumerContainer struct {
	Config     *config.Config
	Logger     *zap.Logger
	GraphStore ports.GraphStore
	CommandBus *bus.CommandBus
	Consumer   *eventstream.Consumer
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideGraphStore,
	ProvideRecommendConfig,
	ProvideDeadLetterPublisher,
	ProvideCommandBus,
	ProvideQueryBus,
)

// InitializeContainer creates a fully wired API container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet, wire.Struct(new(Container), "*"))
	return nil, nil // Wire will replace this
}

// InitializeConsumerContainer creates a fully wired mutator container
func InitializeConsumerContainer(ctx context.Context, cfg *config.Config) (*ConsumerContainer, error) {
	wire.Build(
		SuperSet,
		ProvideSubscriber,
		ProvideConsumer,
		wire.Struct(new(ConsumerContainer), "*"),
	)
	return nil, nil // Wire will replace this
}
