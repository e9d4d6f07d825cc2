package queue

import "github.com/prometheus/client_golang/prometheus"

var deadLetteredCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trainer_workload",
	Subsystem: "queue",
	Name:      "dead_lettered_total",
	Help:      "Number of payloads redirected to a dead-letter topic.",
}, []string{"topic"})

func init() {
	prometheus.MustRegister(deadLetteredCounter)
}

func recordDeadLettered(topic string) {
	deadLetteredCounter.WithLabelValues(topic).Inc()
}
