package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

// Consumer feeds Kafka messages through the same per-message path as SQS.
type Consumer struct {
	reader MessageReader
	writer MessageWriter
	logger *zap.SugaredLogger
}

func NewConsumer(reader MessageReader, writer MessageWriter, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{reader: reader, writer: writer, logger: logger}
}

// Run processes messages until ctx is done. A message is committed once it has
// been handled, whether or not the write succeeded. A message interrupted by
// shutdown is left uncommitted so it is redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	processed, failed := 0, 0
	defer func() {
		c.logger.Infow("Kafka consumer finished", "messages", processed, "failed", failed)
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer context canceled, stopping consumer loop")
				return nil
			}
			return fmt.Errorf("error reading message: %w", err)
		}

		id := fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset)
		writeErr := c.writer.WriteMessage(ctx, id, m.Value)
		if ctx.Err() != nil {
			c.logger.Infow("consumer context canceled, leaving message uncommitted", "messageId", id)
			return nil
		}

		processed++
		if writeErr != nil {
			failed++
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			return fmt.Errorf("error committing message %s: %w", id, err)
		}
	}
}
