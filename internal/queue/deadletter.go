package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// DeadLetterEnvelope is the JSON body published for every failed message.
type DeadLetterEnvelope struct {
	OriginalMessage string `json:"originalMessage"`
	Error           string `json:"error"`
	Timestamp       int64  `json:"timestamp"`
}

// DeadLetterPublisher redirects unprocessable payloads to a DLQ topic.
// It is the last line of defense: a failure to publish is logged and
// swallowed, never surfaced to the consumer loop.
type DeadLetterPublisher struct {
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewDeadLetterPublisher constructs a DeadLetterPublisher.
func NewDeadLetterPublisher(publisher Publisher) *DeadLetterPublisher {
	return &DeadLetterPublisher{
		publisher: publisher,
		logger:    log.New(log.Writer(), "[dlq] ", log.LstdFlags),
		now:       time.Now,
	}
}

// WithLogger overrides the logger used to report publish failures.
func (d *DeadLetterPublisher) WithLogger(logger *log.Logger) *DeadLetterPublisher {
	d.logger = logger
	return d
}

// Redirect publishes the original payload plus error detail to the topic.
func (d *DeadLetterPublisher) Redirect(ctx context.Context, topic, originalMessage string, cause error) {
	envelope := DeadLetterEnvelope{
		OriginalMessage: originalMessage,
		Error:           cause.Error(),
		Timestamp:       d.now().UnixMilli(),
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		d.logger.Printf("failed to encode dead-letter envelope: %v", err)
		return
	}

	if err := d.publisher.Publish(ctx, topic, kafka.Message{Value: body}); err != nil {
		d.logger.Printf("failed to publish to %s: %v", topic, err)
		return
	}
	recordDeadLettered(topic)
}
