// The outbox-consumer reads booking lifecycle events from Kafka and hands
// them to the notifier. It lives outside the API process so notification
// delivery can lag, fail, or restart without ever touching a reservation unit.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/boxoffice/platform/internal/infra"
	"github.com/boxoffice/platform/internal/notifier"
)

const consumerGroup = "boxoffice-notifications"

type consumerTopic struct {
	Topic     string
	EventType domain.EventType
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	topics := []consumerTopic{
		{Topic: infra.TopicPrefix + ".booking." + string(domain.EventBookingConfirmed), EventType: domain.EventBookingConfirmed},
		{Topic: infra.TopicPrefix + ".booking." + string(domain.EventBookingCancelled), EventType: domain.EventBookingCancelled},
	}

	n := notifier.NewLogNotifier(logger)

	errCh := make(chan error, len(topics))
	for _, t := range topics {
		consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, t.Topic, consumerGroup, cfg.KafkaEnabled, logger)
		if !consumer.Enabled() {
			return fmt.Errorf("kafka disabled; set KAFKA_ENABLED=true and KAFKA_BROKERS")
		}
		defer consumer.Close()

		go func(t consumerTopic, c *infra.KafkaConsumer) {
			errCh <- consume(ctx, c, t, n, logger)
		}(t, consumer)
	}

	logger.Info("outbox consumer started", "group", consumerGroup, "topics", len(topics))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("outbox consumer shutting down")
		return nil
	}
}

func consume(ctx context.Context, c *infra.KafkaConsumer, t consumerTopic, n notifier.Notifier, logger *slog.Logger) error {
	for {
		msg, err := c.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read %s: %w", t.Topic, err)
		}

		var draft domain.OutboxDraft
		if err := json.Unmarshal(msg.Value, &draft); err != nil {
			logger.Error("malformed outbox message", "topic", t.Topic, "error", err)
			continue
		}

		var projection domain.BookingProjection
		if err := json.Unmarshal(draft.Payload, &projection); err != nil {
			logger.Error("malformed booking payload", "event_id", draft.EventID, "error", err)
			continue
		}

		switch t.EventType {
		case domain.EventBookingConfirmed:
			err = n.BookingConfirmed(ctx, &projection)
		case domain.EventBookingCancelled:
			err = n.BookingCancelled(ctx, &projection)
		}
		if err != nil {
			logger.Error("notification dispatch failed", "event_id", draft.EventID, "error", err)
		}
	}
}
