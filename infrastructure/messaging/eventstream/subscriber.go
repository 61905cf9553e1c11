// Package eventstream consumes the ordered video-events topic and applies
// each event to the graph through the command bus.
package eventstream

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SubscriberConfig configures the event stream subscription.
type SubscriberConfig struct {
	// URL is the NATS server URL. Empty selects the in-process channel
	// pub/sub used by development mode and tests.
	URL string

	// DurableName identifies the JetStream durable consumer so restarts
	// resume from the last acked event.
	DurableName string

	// QueueGroup load-balances across consumer instances. The mutator runs
	// a single instance per group to preserve stream order.
	QueueGroup string

	AckWaitTimeout time.Duration
	MaxReconnects  int
	ReconnectWait  time.Duration
}

// DefaultSubscriberConfig returns a SubscriberConfig with sane defaults.
func DefaultSubscriberConfig(url string) *SubscriberConfig {
	return &SubscriberConfig{
		URL:            url,
		DurableName:    "graph-mutator",
		QueueGroup:     "graph-mutator",
		AckWaitTimeout: 30 * time.Second,
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
	}
}

// NewSubscriber creates the event stream subscriber. With a NATS URL it is a
// durable JetStream consumer; without one it is an in-process channel pub/sub
// whose Publisher half is returned for tests and local tooling.
func NewSubscriber(cfg *SubscriberConfig, logger *zap.Logger) (message.Subscriber, message.Publisher, error) {
	wmLogger := NewZapLoggerAdapter(logger)

	if cfg.URL == "" {
		ch := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		return ch, ch, nil
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("event stream disconnected", zap.Error(err))
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("event stream reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.AckWait(cfg.AckWaitTimeout),
		// Sequential delivery: one unacked event at a time keeps the
		// cross-event ordering guarantee.
		natsgo.MaxAckPending(1),
		natsgo.DeliverAll(),
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision:    true,
			AckAsync:         false,
			SubscribeOptions: subOpts,
			DurablePrefix:    cfg.DurableName,
		},
	}, wmLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("create event stream subscriber: %w", err)
	}
	return sub, nil, nil
}

// zapLoggerAdapter bridges watermill's logging interface onto zap.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter wraps a zap logger for watermill.
func NewZapLoggerAdapter(logger *zap.Logger) watermill.LoggerAdapter {
	return &zapLoggerAdapter{logger: logger}
}

func (a *zapLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (a *zapLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, zapFields(fields)...)
}

func (a *zapLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, zapFields(fields)...)
}

func (a *zapLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, zapFields(fields)...)
}

func (a *zapLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zapLoggerAdapter{logger: a.logger.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
