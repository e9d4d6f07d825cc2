package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"github.com/ArsenAbrahamyann/trainerService/internal/config"
	"github.com/ArsenAbrahamyann/trainerService/internal/consumer"
	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
	"github.com/ArsenAbrahamyann/trainerService/internal/queue"
	"github.com/ArsenAbrahamyann/trainerService/internal/store"
	storepostgres "github.com/ArsenAbrahamyann/trainerService/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workloads domain.WorkloadRepository
	switch cfg.StoreDriver {
	case "memory":
		workloads = store.NewInMemoryStore()
	default:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		workloads = storepostgres.NewRepository(pool)
	}

	publisher := queue.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	dlq := queue.NewDeadLetterPublisher(publisher)
	service := domain.NewService(workloads)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}

	go func() {
		log.Printf("consumer metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	var wg sync.WaitGroup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	handlers := map[string]consumer.Handler{
		queue.TopicTrainingUpdate: consumer.NewUpdateHandler(service, dlq),
		queue.TopicHoursRequest:   consumer.NewHoursHandler(service, publisher, dlq),
	}

	for topic, handler := range handlers {
		for i := 0; i < cfg.ConsumerConcurrency; i++ {
			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:         cfg.KafkaBrokers,
				GroupID:         cfg.ConsumerGroupID,
				Topic:           topic,
				MinBytes:        1e3,
				MaxBytes:        10e6,
				CommitInterval:  time.Second,
				RetentionTime:   24 * time.Hour,
				ReadLagInterval: -1,
			})

			proc := consumer.NewProcessor(reader, handler)

			wg.Add(1)
			go func(topic string, worker int, r *kafka.Reader) {
				defer wg.Done()
				defer r.Close()

				log.Printf("consumer started (topic=%s, group=%s, worker=%d)", topic, cfg.ConsumerGroupID, worker)
				if err := proc.Run(ctx); err != nil && err != context.Canceled {
					log.Printf("consumer stopped with error (topic=%s, worker=%d): %v", topic, worker, err)
				}
			}(topic, i, reader)
		}
	}

	<-stop
	log.Println("consumer shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}

	wg.Wait()
}
