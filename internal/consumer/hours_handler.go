package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
	"github.com/ArsenAbrahamyann/trainerService/internal/queue"
)

// HoursRequest is the inbound query for a trainer's monthly totals.
type HoursRequest struct {
	TrainerUsername string `json:"trainerUsername"`
	Month           int    `json:"month"`
	CorrelationID   string `json:"correlationId"`
}

// HoursResponse is published on the response topic, tagged with the
// request's correlation id. Workload holds the requested month's totals
// for every year that has an entry for that month.
type HoursResponse struct {
	TrainerUsername string              `json:"trainerUsername"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	IsActive        bool                `json:"isActive"`
	Workload        map[int]map[int]int `json:"workload"`
	CorrelationID   string              `json:"correlationId"`
}

// HoursHandler answers training-hours requests over the queue. The
// correlation id is round-tripped verbatim; it is the only coupling
// between a request and its response. Failures, including lookups for
// unknown trainers, go to the DLQ instead of the response topic.
type HoursHandler struct {
	service   *domain.Service
	publisher queue.Publisher
	dlq       *queue.DeadLetterPublisher
	logger    *log.Logger
}

// NewHoursHandler constructs a HoursHandler.
func NewHoursHandler(service *domain.Service, publisher queue.Publisher, dlq *queue.DeadLetterPublisher) *HoursHandler {
	return &HoursHandler{
		service:   service,
		publisher: publisher,
		dlq:       dlq,
		logger:    log.New(log.Writer(), "[hours] ", log.LstdFlags),
	}
}

// WithLogger overrides the handler's logger.
func (h *HoursHandler) WithLogger(logger *log.Logger) *HoursHandler {
	h.logger = logger
	return h
}

// Handle implements Handler.
func (h *HoursHandler) Handle(ctx context.Context, msg Message) error {
	raw := string(msg.Payload)

	var request HoursRequest
	if err := json.Unmarshal(msg.Payload, &request); err != nil {
		h.redirect(ctx, raw, fmt.Errorf("deserialize hours request: %w", err))
		return nil
	}
	if request.CorrelationID == "" {
		request.CorrelationID = msg.Headers[queue.HeaderCorrelationID]
	}

	if strings.TrimSpace(request.TrainerUsername) == "" {
		h.redirect(ctx, raw, domain.ErrMissingRequiredFields)
		return nil
	}
	if request.Month < 1 || request.Month > 12 {
		h.redirect(ctx, raw, fmt.Errorf("month %d out of range", request.Month))
		return nil
	}

	record, err := h.service.GetWorkload(ctx, request.TrainerUsername)
	if err != nil {
		h.redirect(ctx, raw, err)
		return nil
	}

	response := HoursResponse{
		TrainerUsername: record.TrainerUsername,
		FirstName:       record.FirstName,
		LastName:        record.LastName,
		IsActive:        record.IsActive,
		Workload:        record.MonthView(request.Month),
		CorrelationID:   request.CorrelationID,
	}

	body, err := json.Marshal(response)
	if err != nil {
		h.redirect(ctx, raw, fmt.Errorf("encode hours response: %w", err))
		return nil
	}

	out := kafka.Message{
		Key:   []byte(record.TrainerUsername),
		Value: body,
		Headers: []kafka.Header{
			{Key: queue.HeaderCorrelationID, Value: []byte(request.CorrelationID)},
		},
	}
	if err := h.publisher.Publish(ctx, queue.TopicHoursResponse, out); err != nil {
		h.redirect(ctx, raw, fmt.Errorf("publish hours response: %w", err))
		return nil
	}

	recordResponded(queue.TopicHoursResponse)
	h.logger.Printf("hours response published (trainer=%s, correlation=%s)", record.TrainerUsername, request.CorrelationID)
	return nil
}

func (h *HoursHandler) redirect(ctx context.Context, raw string, cause error) {
	h.logger.Printf("redirecting hours request to DLQ: %v", cause)
	h.dlq.Redirect(ctx, queue.TopicTrainingUpdateDLQ, raw, cause)
}
