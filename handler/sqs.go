package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

type MessageWriter interface {
	WriteMessage(ctx context.Context, id string, raw []byte) error
}

// Queue writes every SQS record independently. Failures are already logged per
// message, so the batch itself always succeeds.
type Queue struct {
	writer MessageWriter
	logger *zap.SugaredLogger
}

func NewQueue(writer MessageWriter, logger *zap.SugaredLogger) *Queue {
	return &Queue{writer: writer, logger: logger}
}

func (q *Queue) Handle(ctx context.Context, event events.SQSEvent) error {
	failed := 0
	for _, msg := range event.Records {
		if err := q.writer.WriteMessage(ctx, msg.MessageId, []byte(msg.Body)); err != nil {
			failed++
		}
	}

	q.logger.Infow("Processed batch", "messages", len(event.Records), "failed", failed)
	return nil
}
