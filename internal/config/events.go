package config

import (
	"log/slog"
	"strings"

	"github.com/campushub/student-portal/internal/events"
)

// EventConfig controls submission event publishing. The in-process bus always
// runs; Kafka fan-out to downstream consumers is opt-in.
type EventConfig struct {
	KafkaEnabled    bool
	KafkaBrokers    string
	SubmissionTopic string
}

// GetKafkaBrokers returns the broker list as a slice.
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreatePublisher wires the session-facing publisher: the in-process bus
// first, plus Kafka when enabled.
func (c *EventConfig) CreatePublisher(logger *slog.Logger, bus *events.Bus) (events.Publisher, error) {
	if !c.KafkaEnabled {
		return bus, nil
	}

	logger.Info("Creating Kafka submission event publisher",
		"brokers", c.KafkaBrokers,
		"topic", c.SubmissionTopic)

	kafkaPublisher, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers: c.GetKafkaBrokers(),
		Topic:   c.SubmissionTopic,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return events.NewFanout(logger, bus, kafkaPublisher), nil
}
