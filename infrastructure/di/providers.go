package di

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"videorec/application/commands"
	"videorec/application/commands/bus"
	commands_handlers "videorec/application/commands/handlers"
	"videorec/application/ports"
	"videorec/application/queries"
	querybus "videorec/application/queries/bus"
	queries_handlers "videorec/application/queries/handlers"
	"videorec/domain/recommend"
	"videorec/infrastructure/config"
	"videorec/infrastructure/messaging/eventbridge"
	"videorec/infrastructure/messaging/eventstream"
	"videorec/infrastructure/persistence/dynamodb"
	"videorec/infrastructure/persistence/memory"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideGraphStore selects the graph backend from configuration.
func ProvideGraphStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.GraphStore {
	if cfg.GraphBackend == "dynamodb" {
		return dynamodb.NewGraphStore(client, cfg.DynamoDBTable, cfg.IndexName, logger)
	}
	return memory.NewGraphStore()
}

// ProvideRecommendConfig maps the recommendation tuning knobs.
func ProvideRecommendConfig(cfg *config.Config) (*recommend.Config, error) {
	rc := &recommend.Config{
		MinRating:    cfg.MinRating,
		SampleSize:   cfg.SampleSize,
		PerUserLimit: cfg.PerUserLimit,
		TopN:         cfg.TopN,
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// ProvideDeadLetterPublisher creates the dead letter surface for failed
// mutations. Without a configured bus the dead letters are logged and dropped.
func ProvideDeadLetterPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.DeadLetterPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewNopDeadLetterPublisher(logger)
	}
	return eventbridge.NewDeadLetterPublisher(client, cfg.EventBusName, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(store ports.GraphStore, logger *zap.Logger) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	createUserHandler := commands_handlers.NewCreateUserHandler(store, logger)
	commandBus.Register(commands.CreateUserCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			createCmd, ok := cmd.(commands.CreateUserCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return createUserHandler.Handle(ctx, createCmd)
		},
	})

	addVideoHandler := commands_handlers.NewAddVideoHandler(store, logger)
	commandBus.Register(commands.AddVideoCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			addCmd, ok := cmd.(commands.AddVideoCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return addVideoHandler.Handle(ctx, addCmd)
		},
	})

	rateVideoHandler := commands_handlers.NewRateVideoHandler(store, logger)
	commandBus.Register(commands.RateVideoCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			rateCmd, ok := cmd.(commands.RateVideoCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return rateVideoHandler.Handle(ctx, rateCmd)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(store ports.GraphStore, rc *recommend.Config, logger *zap.Logger) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	relatedHandler := queries_handlers.NewRelatedVideosHandler(store, rc, logger)
	queryBus.Register(queries.GetRelatedVideosQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			relatedQuery, ok := query.(queries.GetRelatedVideosQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return relatedHandler.Handle(ctx, relatedQuery)
		},
	})

	suggestedHandler := queries_handlers.NewSuggestedVideosHandler(store, rc, logger)
	queryBus.Register(queries.GetSuggestedVideosQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			suggestedQuery, ok := query.(queries.GetSuggestedVideosQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return suggestedHandler.Handle(ctx, suggestedQuery)
		},
	})

	return queryBus
}

// ProvideSubscriber creates the event stream subscriber.
func ProvideSubscriber(cfg *config.Config, logger *zap.Logger) (message.Subscriber, error) {
	subCfg := eventstream.DefaultSubscriberConfig(cfg.NATSURL)
	subCfg.DurableName = cfg.ConsumerGroup
	subCfg.QueueGroup = cfg.ConsumerGroup

	sub, _, err := eventstream.NewSubscriber(subCfg, logger)
	return sub, err
}

// ProvideConsumer creates the event stream consumer.
func ProvideConsumer(
	subscriber message.Subscriber,
	commandBus *bus.CommandBus,
	deadLetter ports.DeadLetterPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *eventstream.Consumer {
	return eventstream.NewConsumer(subscriber, commandBus, deadLetter, cfg.EventTopic, logger)
}
