package worker

import (
	"context"
	"errors"
	"io"
	"time"

	"storesync/internal/config"
	shopifyconn "storesync/internal/connectors/shopify"
	"storesync/internal/events"
	"storesync/internal/logger"

	"github.com/segmentio/kafka-go"
)

const minInterval = time.Minute

// Syncer runs one catalog sync pass.
type Syncer interface {
	SyncProducts(ctx context.Context) (*shopifyconn.SyncResult, error)
}

// Worker is the scheduled trigger for catalog sync. Timer ticks and Kafka
// sync requests feed one loop, so at most one run is in flight.
type Worker struct {
	config   *config.Config
	logger   *logger.Logger
	syncer   Syncer
	reader   *kafka.Reader
	triggers chan string
}

func New(cfg *config.Config, logger *logger.Logger, syncer Syncer) *Worker {
	var reader *kafka.Reader
	if brokers := events.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 && cfg.KafkaSyncRequestTopic != "" {
		reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        "storesync-worker",
			Topic:          cfg.KafkaSyncRequestTopic,
			MinBytes:       1,
			MaxBytes:       10e6, // 10MB
			CommitInterval: time.Second,
		})
	}

	return &Worker{
		config:   cfg,
		logger:   logger,
		syncer:   syncer,
		reader:   reader,
		triggers: make(chan string, 1),
	}
}

// Trigger queues a run. Requests arriving while one is already queued are
// coalesced into it.
func (w *Worker) Trigger(source string) bool {
	select {
	case w.triggers <- source:
		return true
	default:
		return false
	}
}

// Start blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	if w.reader != nil {
		go w.consume(ctx)
	}

	var tick <-chan time.Time
	if w.config.SyncEnabled {
		interval := w.config.SyncInterval
		if interval < minInterval {
			interval = minInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
		w.logger.Info("Scheduled sync every %s", interval)
	}

	w.logger.Info("Worker started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			w.runSync(ctx, "schedule")
		case source := <-w.triggers:
			w.runSync(ctx, source)
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	if w.reader != nil {
		if err := w.reader.Close(); err != nil {
			w.logger.Warn("Failed to close reader: %v", err)
		}
	}
}

// runSync swallows failures into the log; the next trigger starts over.
func (w *Worker) runSync(ctx context.Context, source string) {
	w.logger.Info("Starting catalog sync (%s)", source)

	result, err := w.syncer.SyncProducts(ctx)
	if err != nil {
		w.logger.Error("Catalog sync (%s) failed: %v", source, err)
		return
	}
	w.logger.Info("Catalog sync (%s) stored %d products", source, result.Synced)
}

func (w *Worker) consume(ctx context.Context) {
	w.logger.Info("Listening for sync requests on %s", w.config.KafkaSyncRequestTopic)

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		event, err := events.DecodeEvent(message.Value)
		if err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}
		if event.Type != events.TypeSyncRequested {
			w.logger.Debug("Ignoring %s event", event.Type)
			continue
		}

		source := "kafka"
		if event.Source != "" {
			source = "kafka:" + event.Source
		}
		if !w.Trigger(source) {
			w.logger.Debug("Sync already queued, coalescing request %s", event.ID)
		}
	}
}
