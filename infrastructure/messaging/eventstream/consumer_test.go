package eventstream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"videorec/application/commands"
	"videorec/application/commands/bus"
	commands_handlers "videorec/application/commands/handlers"
	"videorec/application/ports"
	"videorec/domain/events"
	"videorec/domain/graph"
	"videorec/infrastructure/persistence/memory"
)

const testTopic = "video-events"

// recordingDeadLetter captures dead letters for assertions. The first
// failuresRemaining publishes fail, to exercise the retry path.
type recordingDeadLetter struct {
	mu                sync.Mutex
	letters           []ports.DeadLetter
	attempts          int
	failuresRemaining int
}

func (r *recordingDeadLetter) Publish(ctx context.Context, dl ports.DeadLetter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.failuresRemaining > 0 {
		r.failuresRemaining--
		return errors.New("bus unavailable")
	}
	r.letters = append(r.letters, dl)
	return nil
}

func (r *recordingDeadLetter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.letters)
}

func (r *recordingDeadLetter) attemptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func (r *recordingDeadLetter) last() ports.DeadLetter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.letters[len(r.letters)-1]
}

type consumerHarness struct {
	store      *memory.GraphStore
	publisher  message.Publisher
	deadLetter *recordingDeadLetter
	cancel     context.CancelFunc
}

func startConsumer(t *testing.T) *consumerHarness {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewGraphStore()

	commandBus := bus.NewCommandBus()
	registerCommand := func(cmd bus.Command, handle func(ctx context.Context, cmd bus.Command) error) {
		require.NoError(t, commandBus.Register(cmd, bus.CommandHandlerFunc(handle)))
	}
	createUser := commands_handlers.NewCreateUserHandler(store, logger)
	registerCommand(commands.CreateUserCommand{}, func(ctx context.Context, cmd bus.Command) error {
		return createUser.Handle(ctx, cmd.(commands.CreateUserCommand))
	})
	addVideo := commands_handlers.NewAddVideoHandler(store, logger)
	registerCommand(commands.AddVideoCommand{}, func(ctx context.Context, cmd bus.Command) error {
		return addVideo.Handle(ctx, cmd.(commands.AddVideoCommand))
	})
	rateVideo := commands_handlers.NewRateVideoHandler(store, logger)
	registerCommand(commands.RateVideoCommand{}, func(ctx context.Context, cmd bus.Command) error {
		return rateVideo.Handle(ctx, cmd.(commands.RateVideoCommand))
	})

	subscriber, publisher, err := NewSubscriber(DefaultSubscriberConfig(""), logger)
	require.NoError(t, err)
	require.NotNil(t, publisher)

	deadLetter := &recordingDeadLetter{}
	consumer := NewConsumer(subscriber, commandBus, deadLetter, testTopic, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = consumer.Run(ctx)
	}()
	t.Cleanup(cancel)

	// Give the in-process subscription a moment to attach.
	time.Sleep(50 * time.Millisecond)

	return &consumerHarness{
		store:      store,
		publisher:  publisher,
		deadLetter: deadLetter,
		cancel:     cancel,
	}
}

func (h *consumerHarness) publish(t *testing.T, eventType string, payload interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(events.MetadataEventType, eventType)
	require.NoError(t, h.publisher.Publish(testTopic, msg))
}

func TestConsumer_AppliesEventSequence(t *testing.T) {
	h := startConsumer(t)
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	h.publish(t, events.TypeUserCreated, events.UserCreated{
		UserID:    "u1",
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Timestamp: now,
	})
	h.publish(t, events.TypeVideoAdded, events.VideoAdded{
		VideoID:   "v1",
		UserID:    "u1",
		Name:      "compilers",
		Tags:      []string{"History", "history"},
		AddedDate: now,
		Timestamp: now,
	})
	h.publish(t, events.TypeUserRatedVideo, events.UserRatedVideo{
		VideoID:   "v1",
		UserID:    "u1",
		Rating:    5,
		Timestamp: now,
	})

	ctx := context.Background()
	require.Eventually(t, func() bool {
		video, err := h.store.FindVertex(ctx, graph.VertexVideo, "v1")
		if err != nil {
			return false
		}
		ratings, err := h.store.InEdges(ctx, video, graph.EdgeRated, graph.EdgeFilter{})
		return err == nil && len(ratings) == 1
	}, 2*time.Second, 10*time.Millisecond)

	video, err := h.store.FindVertex(ctx, graph.VertexVideo, "v1")
	require.NoError(t, err)
	assert.Equal(t, "compilers", video.Props.String(graph.PropName))

	tagged, err := h.store.OutEdges(ctx, video, graph.EdgeTaggedWith, graph.EdgeFilter{})
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	assert.Zero(t, h.deadLetter.count())
}

func TestConsumer_DeadLettersFailedMutation(t *testing.T) {
	h := startConsumer(t)
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	// No such uploader, the mutation must fail and surface as a dead letter.
	h.publish(t, events.TypeVideoAdded, events.VideoAdded{
		VideoID:   "v1",
		UserID:    "ghost",
		Name:      "orphan",
		AddedDate: now,
		Timestamp: now,
	})

	require.Eventually(t, func() bool {
		return h.deadLetter.count() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	dl := h.deadLetter.last()
	assert.Equal(t, events.TypeVideoAdded, dl.EventType)
	assert.Contains(t, dl.Reason, "not found")

	_, err := h.store.FindVertex(context.Background(), graph.VertexVideo, "v1")
	assert.Error(t, err)

	// The event is acked once quarantined: no redelivery, so the count
	// settles at exactly one dead letter for one failed event.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, h.deadLetter.count())
}

func TestConsumer_QuarantinedEventDoesNotBlockStream(t *testing.T) {
	h := startConsumer(t)
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	h.publish(t, events.TypeVideoAdded, events.VideoAdded{
		VideoID:   "bad",
		UserID:    "ghost",
		Name:      "orphan",
		AddedDate: now,
		Timestamp: now,
	})
	h.publish(t, events.TypeUserCreated, events.UserCreated{
		UserID:    "u1",
		Timestamp: now,
	})

	ctx := context.Background()
	require.Eventually(t, func() bool {
		_, err := h.store.FindVertex(ctx, graph.VertexUser, "u1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, h.deadLetter.count())
}

func TestConsumer_RetriesWhenDeadLetterPublishFails(t *testing.T) {
	h := startConsumer(t)
	h.deadLetter.failuresRemaining = 1
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	h.publish(t, events.TypeVideoAdded, events.VideoAdded{
		VideoID:   "v1",
		UserID:    "ghost",
		Name:      "orphan",
		AddedDate: now,
		Timestamp: now,
	})

	// First publish fails, the event is nacked and redelivered, and the
	// second attempt lands exactly one dead letter.
	require.Eventually(t, func() bool {
		return h.deadLetter.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, h.deadLetter.attemptCount())

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, h.deadLetter.count())
}

func TestConsumer_DeadLettersUnknownEventType(t *testing.T) {
	h := startConsumer(t)

	h.publish(t, "video-liked", map[string]string{"videoId": "v1"})

	require.Eventually(t, func() bool {
		return h.deadLetter.count() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "video-liked", h.deadLetter.last().EventType)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, h.deadLetter.count())
}

func TestConsumer_DeadLettersInvalidPayload(t *testing.T) {
	h := startConsumer(t)
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	// Rating outside 1-5 fails struct validation before any graph write.
	h.publish(t, events.TypeUserRatedVideo, map[string]interface{}{
		"videoId":   "v1",
		"userId":    "u1",
		"rating":    9,
		"timestamp": now,
	})

	require.Eventually(t, func() bool {
		return h.deadLetter.count() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, h.deadLetter.last().Reason, "rating")

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, h.deadLetter.count())
}
