// Package kafka publishes completed assessments as events for downstream
// consumers (alerting, audit).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/risk-signal-service/internal/pipeline"
)

// Publisher produces assessment events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the assessment topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAssessment serializes one assessment result keyed by its ID, with
// the risk level as a header so consumers can route without unmarshalling.
func (p *Publisher) PublishAssessment(ctx context.Context, id string, result pipeline.Result) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize assessment: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(id),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(result.RiskLevel)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
