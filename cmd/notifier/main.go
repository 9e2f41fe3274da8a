package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gather/internal/notifier"
	"gather/pkg/config"
	"gather/pkg/kafka"
	kafka_config "gather/pkg/kafka/config"
	kafka_middleware "gather/pkg/kafka/middleware"
	"gather/pkg/sms"
)

const (
	ServiceName   = "notifier"
	ConsumerGroup = "gather-notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	handler := notifier.New(initSender(cfg), cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.EventsTopic, ConsumerGroup, cfg.EventsDLQTopic, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.EventsTopic, "group_id", ConsumerGroup)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	metrics.Log(cfg.Log)
	cfg.Log.Info("Notifier stopped", "lag", consumer.Lag())
}

func initSender(cfg *config.Config) sms.Sender {
	if !cfg.SMSEnabled() {
		cfg.Log.Warn("Twilio not configured, messages will only be logged")
		return sms.NewLogSender(cfg.Log)
	}
	return sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.Log)
}
