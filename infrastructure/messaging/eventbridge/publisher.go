// Package eventbridge publishes failed graph mutations to an EventBridge bus
// so operators can inspect and replay them.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"videorec/application/ports"
)

const (
	eventSource = "videorec.graph-mutator"
	detailType  = "MutationFailed"
)

// DeadLetterPublisher implements ports.DeadLetterPublisher on EventBridge.
type DeadLetterPublisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewDeadLetterPublisher creates an EventBridge-backed dead letter publisher.
func NewDeadLetterPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *DeadLetterPublisher {
	return &DeadLetterPublisher{client: client, busName: busName, logger: logger}
}

// Publish sends the failed mutation to the configured bus.
func (p *DeadLetterPublisher) Publish(ctx context.Context, dl ports.DeadLetter) error {
	detail, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("marshal dead letter: %w", err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put dead letter event: %w", err)
	}
	if out.FailedEntryCount > 0 {
		return fmt.Errorf("dead letter event rejected by bus %s", p.busName)
	}

	p.logger.Debug("dead letter published",
		zap.String("eventType", dl.EventType),
		zap.String("bus", p.busName),
	)
	return nil
}

// NopDeadLetterPublisher drops dead letters after logging them. Used when no
// bus is configured.
type NopDeadLetterPublisher struct {
	logger *zap.Logger
}

// NewNopDeadLetterPublisher creates a logging-only dead letter publisher.
func NewNopDeadLetterPublisher(logger *zap.Logger) *NopDeadLetterPublisher {
	return &NopDeadLetterPublisher{logger: logger}
}

// Publish logs the dead letter and discards it.
func (p *NopDeadLetterPublisher) Publish(ctx context.Context, dl ports.DeadLetter) error {
	p.logger.Warn("dead letter dropped, no event bus configured",
		zap.String("eventType", dl.EventType),
		zap.String("reason", dl.Reason),
	)
	return nil
}
