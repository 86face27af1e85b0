package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ShareFrame/telemetry-writer/config"
	"github.com/ShareFrame/telemetry-writer/handler"
	"github.com/ShareFrame/telemetry-writer/logging"
	"github.com/ShareFrame/telemetry-writer/processor"
	"github.com/ShareFrame/telemetry-writer/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.ValidateKafka(); err != nil {
		logger.Fatalw("invalid Kafka config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dynamo, err := store.NewDynamoFromEnv(ctx, cfg.TableName, cfg.DynamoDBEndpoint)
	if err != nil {
		logger.Fatalw("failed to create DynamoDB store", "error", err)
	}

	reader := handler.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer reader.Close()

	logger.Infow("starting Kafka consumer", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic, "groupID", cfg.KafkaGroupID)

	p := processor.New(dynamo, logger, processor.WithTimestamp(cfg.AppendTimestamp))
	if err := handler.NewConsumer(reader, p, logger).Run(ctx); err != nil {
		logger.Errorw("Kafka consumer stopped", "error", err)
	}
}
