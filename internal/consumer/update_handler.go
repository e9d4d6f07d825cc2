package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
	"github.com/ArsenAbrahamyann/trainerService/internal/queue"
)

// UpdateHandler applies training update messages to the workload store.
// It never propagates a processing failure to the consumer loop: bad
// payloads are redirected to the update DLQ and the message is considered
// handled.
type UpdateHandler struct {
	service *domain.Service
	dlq     *queue.DeadLetterPublisher
	logger  *log.Logger
}

// NewUpdateHandler constructs an UpdateHandler.
func NewUpdateHandler(service *domain.Service, dlq *queue.DeadLetterPublisher) *UpdateHandler {
	return &UpdateHandler{
		service: service,
		dlq:     dlq,
		logger:  log.New(log.Writer(), "[update] ", log.LstdFlags),
	}
}

// WithLogger overrides the handler's logger.
func (h *UpdateHandler) WithLogger(logger *log.Logger) *UpdateHandler {
	h.logger = logger
	return h
}

// Handle implements Handler.
func (h *UpdateHandler) Handle(ctx context.Context, msg Message) error {
	raw := string(msg.Payload)

	// Blank payloads are a transport no-op, not a processing failure.
	if strings.TrimSpace(raw) == "" {
		h.logger.Printf("dropping empty payload (topic=%s, offset=%d)", msg.Topic, msg.Offset)
		recordDropped(msg.Topic)
		return nil
	}

	var update domain.UpdateMessage
	if err := json.Unmarshal(msg.Payload, &update); err != nil {
		h.redirect(ctx, raw, fmt.Errorf("deserialize update: %w", err))
		return nil
	}

	if err := h.service.UpdateTrainingHours(ctx, update); err != nil {
		h.redirect(ctx, raw, err)
		return nil
	}

	h.logger.Printf("workload updated (trainer=%s, action=%s)", update.TrainerUsername, update.ActionType)
	return nil
}

func (h *UpdateHandler) redirect(ctx context.Context, raw string, cause error) {
	h.logger.Printf("redirecting update to DLQ: %v", cause)
	h.dlq.Redirect(ctx, queue.TopicTrainingUpdateDLQ, raw, cause)
}
