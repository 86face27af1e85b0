package main

import (
	"context"
	"log"

	"github.com/ShareFrame/telemetry-writer/config"
	"github.com/ShareFrame/telemetry-writer/handler"
	"github.com/ShareFrame/telemetry-writer/logging"
	"github.com/ShareFrame/telemetry-writer/processor"
	"github.com/ShareFrame/telemetry-writer/store"
	"github.com/aws/aws-lambda-go/lambda"
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

	dynamo, err := store.NewDynamoFromEnv(context.Background(), cfg.TableName, cfg.DynamoDBEndpoint)
	if err != nil {
		logger.Fatalw("failed to create DynamoDB store", "error", err)
	}

	p := processor.New(dynamo, logger, processor.WithTimestamp(cfg.AppendTimestamp))
	lambda.Start(handler.NewAPI(p).Handle)
}
