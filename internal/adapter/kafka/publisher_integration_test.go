//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/risk-signal-service/internal/adapter/kafka"
	"github.com/couchcryptid/risk-signal-service/internal/domain"
	"github.com/couchcryptid/risk-signal-service/internal/pipeline"
)

const testAssessmentTopic = "test-risk-assessments"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-broker Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishAssessment verifies that a published assessment round-trips
// through Kafka with its key, headers, and payload intact.
func TestPublishAssessment(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAssessmentTopic)

	publisher := kafkaadapter.NewPublisher([]string{broker}, testAssessmentTopic, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	published := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	result := pipeline.Result{
		Location:  "Sydney",
		RiskScore: 72,
		RiskLevel: "Medium",
		HazardAlerts: []domain.SignalRecord{
			{
				Kind:        domain.KindHazardNews,
				Title:       "Flood warning issued for Sydney",
				Severity:    domain.SeverityMedium,
				Location:    "Sydney",
				PublishedAt: &published,
			},
		},
		AlertCount:      1,
		TotalAlertCount: 1,
	}

	require.NoError(t, publisher.PublishAssessment(ctx, "assessment-1", result))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAssessmentTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from assessment topic")

	assert.Equal(t, "assessment-1", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "Medium", headers["risk_level"])

	var got pipeline.Result
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "Sydney", got.Location)
	assert.Equal(t, 72, got.RiskScore)
	require.Len(t, got.HazardAlerts, 1)
	assert.Equal(t, "Flood warning issued for Sydney", got.HazardAlerts[0].Title)
}
