package consumer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer_workload",
		Subsystem: "consumer",
		Name:      "messages_processed_total",
		Help:      "Number of Kafka messages successfully handled.",
	}, []string{"topic"})

	droppedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer_workload",
		Subsystem: "consumer",
		Name:      "messages_dropped_total",
		Help:      "Number of blank payloads dropped without dead-lettering.",
	}, []string{"topic"})

	respondedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer_workload",
		Subsystem: "consumer",
		Name:      "hours_responses_total",
		Help:      "Number of training-hours responses published.",
	}, []string{"topic"})

	lastMessageGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "trainer_workload",
		Subsystem: "consumer",
		Name:      "last_message_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successfully processed message per topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(processedCounter, droppedCounter, respondedCounter, lastMessageGauge)
}

func recordProcessed(msg Message) {
	processedCounter.WithLabelValues(msg.Topic).Inc()
	if !msg.Timestamp.IsZero() {
		lastMessageGauge.WithLabelValues(msg.Topic).Set(float64(msg.Timestamp.Unix()))
	}
}

func recordDropped(topic string) {
	droppedCounter.WithLabelValues(topic).Inc()
}

func recordResponded(topic string) {
	respondedCounter.WithLabelValues(topic).Inc()
}
