package eventstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"videorec/application/commands"
	"videorec/application/commands/bus"
	"videorec/application/ports"
	"videorec/domain/events"
	"videorec/pkg/utils"
)

// Consumer reads the ordered event topic and applies each event to the graph
// through the command bus. Events are processed strictly one at a time so a
// VideoAdded is fully applied before the UserRatedVideo that follows it.
type Consumer struct {
	subscriber message.Subscriber
	commandBus *bus.CommandBus
	deadLetter ports.DeadLetterPublisher
	topic      string
	logger     *zap.Logger
}

// NewConsumer creates an event stream consumer.
func NewConsumer(subscriber message.Subscriber, commandBus *bus.CommandBus, deadLetter ports.DeadLetterPublisher, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		commandBus: commandBus,
		deadLetter: deadLetter,
		topic:      topic,
		logger:     logger,
	}
}

// Run consumes events until the context is canceled. Failed events are
// quarantined on the dead-letter surface and acked so they are not
// redelivered; only a failing dead-letter publish leaves the event in the
// stream for retry.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info("event consumer started", zap.String("topic", c.topic))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	eventType := msg.Metadata.Get(events.MetadataEventType)

	if err := c.apply(ctx, eventType, msg.Payload); err != nil {
		c.logger.Error("event mutation failed",
			zap.Error(err),
			zap.String("eventType", eventType),
			zap.String("messageUUID", msg.UUID),
		)
		// Quarantine the event. Acking only after the dead letter is out
		// means a failed event surfaces exactly once; nacking it too would
		// redeliver it and publish a dead letter per redelivery.
		if dlErr := c.reportDeadLetter(ctx, eventType, msg.Payload, err); dlErr != nil {
			c.logger.Error("dead letter publish failed, leaving event for retry",
				zap.Error(dlErr),
				zap.String("eventType", eventType),
				zap.String("messageUUID", msg.UUID),
			)
			msg.Nack()
			return
		}
		msg.Ack()
		return
	}

	msg.Ack()
}

// apply unmarshals the payload by event type and dispatches the mutation.
func (c *Consumer) apply(ctx context.Context, eventType string, payload []byte) error {
	switch eventType {
	case events.TypeUserCreated:
		var evt events.UserCreated
		if err := decode(payload, &evt); err != nil {
			return err
		}
		return c.commandBus.Send(ctx, commands.CreateUserCommand{
			UserID:    evt.UserID,
			FirstName: evt.FirstName,
			LastName:  evt.LastName,
			Email:     evt.Email,
			Timestamp: evt.Timestamp,
		})

	case events.TypeVideoAdded:
		var evt events.VideoAdded
		if err := decode(payload, &evt); err != nil {
			return err
		}
		return c.commandBus.Send(ctx, commands.AddVideoCommand{
			VideoID:              evt.VideoID,
			UserID:               evt.UserID,
			Name:                 evt.Name,
			Description:          evt.Description,
			Location:             evt.Location,
			PreviewImageLocation: evt.PreviewImageLocation,
			Tags:                 evt.Tags,
			AddedDate:            evt.AddedDate,
			Timestamp:            evt.Timestamp,
		})

	case events.TypeUserRatedVideo:
		var evt events.UserRatedVideo
		if err := decode(payload, &evt); err != nil {
			return err
		}
		return c.commandBus.Send(ctx, commands.RateVideoCommand{
			VideoID:   evt.VideoID,
			UserID:    evt.UserID,
			Rating:    evt.Rating,
			Timestamp: evt.Timestamp,
		})

	default:
		return fmt.Errorf("unknown event type %q", eventType)
	}
}

// decode unmarshals the JSON payload and runs struct-tag validation so
// malformed events fail before touching the graph.
func decode(payload []byte, out interface{}) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal event payload: %w", err)
	}
	if err := utils.ValidateStruct(out); err != nil {
		return fmt.Errorf("invalid event payload: %w", err)
	}
	return nil
}

func (c *Consumer) reportDeadLetter(ctx context.Context, eventType string, payload []byte, cause error) error {
	if c.deadLetter == nil {
		return nil
	}
	return c.deadLetter.Publish(ctx, ports.DeadLetter{
		EventType: eventType,
		Payload:   payload,
		Reason:    cause.Error(),
	})
}
