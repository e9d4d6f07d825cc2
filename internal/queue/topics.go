// Package queue provides the Kafka publishing side of the workload service.
package queue

// Topic names shared with the upstream CRM service.
const (
	TopicTrainingUpdate    = "trainer.training.update"
	TopicTrainingUpdateDLQ = "trainer.training.update.dlq"
	TopicHoursRequest      = "request.traininghours.queue"
	TopicHoursResponse     = "response.traininghours.queue"
)

// HeaderCorrelationID tags a hours response with the request's correlation id.
const HeaderCorrelationID = "correlation_id"
