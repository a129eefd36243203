package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher publishes session submission events.
type Publisher interface {
	PublishSubmissionCompleted(ctx context.Context, event *SubmissionEvent) error
	Close() error
}

// NewSubmissionEvent fills in the envelope fields for a submission event.
func NewSubmissionEvent(userID string, assignmentID uint, title string, auto bool) *SubmissionEvent {
	return &SubmissionEvent{
		ID:            watermill.NewUUID(),
		Type:          EventSubmissionCompleted,
		UserID:        userID,
		AssignmentID:  assignmentID,
		Title:         title,
		AutoSubmitted: auto,
		OccurredAt:    time.Now(),
	}
}

// ===== IN-PROCESS BUS =====

// Bus is the in-process pub/sub carrying submission events from sessions to
// the host service, backed by watermill's gochannel.
type Bus struct {
	pubsub *gochannel.GoChannel
	topic  string
	logger *slog.Logger
}

func NewBus(logger *slog.Logger, topic string) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
		topic:  topic,
		logger: logger,
	}
}

func (b *Bus) PublishSubmissionCompleted(ctx context.Context, event *SubmissionEvent) error {
	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submission event: %w", err)
	}

	msg := message.NewMessage(event.ID, encoded)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("user_id", event.UserID)

	if err := b.pubsub.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("failed to publish submission event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of decoded submission events. Messages that do
// not decode are acked and dropped with a log line.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *SubmissionEvent, error) {
	messages, err := b.pubsub.Subscribe(ctx, b.topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.topic, err)
	}

	out := make(chan *SubmissionEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			var event SubmissionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("Dropping undecodable submission event",
					"message_id", msg.UUID,
					"error", err)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// ===== KAFKA FAN-OUT =====

// KafkaPublisher forwards submission events to Kafka for downstream consumers
// (analytics, notification fan-out). Optional; selected by config.
type KafkaPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topic     string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Logger  *slog.Logger
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(cfg.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaPublisher{
		publisher: publisher,
		logger:    cfg.Logger,
		topic:     cfg.Topic,
	}, nil
}

func (p *KafkaPublisher) PublishSubmissionCompleted(ctx context.Context, event *SubmissionEvent) error {
	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submission event: %w", err)
	}

	msg := message.NewMessage(event.ID, encoded)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("timestamp", event.OccurredAt.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish submission event to Kafka",
			"event_id", event.ID,
			"error", err)
		return fmt.Errorf("failed to publish submission event: %w", err)
	}

	p.logger.Info("Published submission event",
		"event_id", event.ID,
		"assignment_id", event.AssignmentID,
		"topic", p.topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.publisher.Close()
}

// ===== FAN-OUT =====

// Fanout publishes each event to every wrapped publisher. The in-process bus
// always comes first; a failure there is returned, failures of secondary
// publishers are logged and swallowed so a Kafka outage never blocks a
// submission.
type Fanout struct {
	primary   Publisher
	secondary []Publisher
	logger    *slog.Logger
}

func NewFanout(logger *slog.Logger, primary Publisher, secondary ...Publisher) *Fanout {
	return &Fanout{primary: primary, secondary: secondary, logger: logger}
}

func (f *Fanout) PublishSubmissionCompleted(ctx context.Context, event *SubmissionEvent) error {
	if err := f.primary.PublishSubmissionCompleted(ctx, event); err != nil {
		return err
	}
	for _, p := range f.secondary {
		if err := p.PublishSubmissionCompleted(ctx, event); err != nil {
			f.logger.Error("Secondary event publisher failed",
				"event_id", event.ID,
				"error", err)
		}
	}
	return nil
}

func (f *Fanout) Close() error {
	var firstErr error
	for _, p := range append([]Publisher{f.primary}, f.secondary...) {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ===== MOCK =====

// MockPublisher stores events in memory, for tests.
type MockPublisher struct {
	mu     sync.Mutex
	events []SubmissionEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{events: make([]SubmissionEvent, 0)}
}

func (m *MockPublisher) PublishSubmissionCompleted(ctx context.Context, event *SubmissionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// PublishedEvents returns a copy of everything published so far.
func (m *MockPublisher) PublishedEvents() []SubmissionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SubmissionEvent, len(m.events))
	copy(out, m.events)
	return out
}
