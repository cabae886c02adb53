// Package kafka publishes forecast update notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/pollen-forecast-service/internal/config"
	"github.com/couchcryptid/pollen-forecast-service/internal/coordinator"
	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
	"github.com/couchcryptid/pollen-forecast-service/internal/observability"
)

// Notifier produces a message to the updates topic after every successful
// refresh, letting downstream consumers react to fresh forecasts without
// polling the HTTP surface.
type Notifier struct {
	writer  *kafkago.Writer
	entryID string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewNotifier creates a Kafka producer for the configured updates topic.
func NewNotifier(cfg *config.Config, entryID string, metrics *observability.Metrics, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaUpdatesTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Notifier{writer: w, entryID: entryID, metrics: metrics, logger: logger}
}

// Listener adapts the notifier to the coordinator's subscription contract.
// Failed refreshes publish nothing; consumers keep working off the previous
// update.
func (n *Notifier) Listener() coordinator.Listener {
	return func(ctx context.Context, snapshot *domain.Forecast, err error) {
		if err != nil || snapshot == nil {
			return
		}
		if pubErr := n.publish(ctx, *snapshot); pubErr != nil {
			n.logger.Warn("publish forecast update failed", "error", pubErr)
		}
	}
}

func (n *Notifier) publish(ctx context.Context, forecast domain.Forecast) error {
	msg, err := serializeUpdate(n.entryID, forecast, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	n.metrics.UpdatesPublished.Inc()
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

// updateEvent is the wire form of one forecast update.
type updateEvent struct {
	EntryID   string          `json:"entry_id"`
	FetchedAt time.Time       `json:"fetched_at"`
	Forecast  domain.Forecast `json:"forecast"`
}

// serializeUpdate marshals a forecast into an updates-topic message keyed by
// entry ID, so updates for one location land on one partition in order.
func serializeUpdate(entryID string, forecast domain.Forecast, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(updateEvent{
		EntryID:   entryID,
		FetchedAt: fetchedAt,
		Forecast:  forecast,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast update: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entryID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region_code", Value: []byte(forecast.RegionCode)},
			{Key: "fetched_at", Value: []byte(fetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
