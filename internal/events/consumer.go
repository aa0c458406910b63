package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Refresher reloads the local catalog snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CatalogConsumer keeps this instance's catalog snapshot in step with writes
// made through other instances.
type CatalogConsumer struct {
	reader     messageReader
	catalog    Refresher
	instanceID string
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
	once       sync.Once
}

// NewCatalogConsumer joins a consumer group unique to the instance so every
// instance sees every catalog event.
func NewCatalogConsumer(brokers []string, topic, groupPrefix, instanceID string, catalog Refresher, logger *zap.Logger) *CatalogConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupPrefix + "-" + instanceID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.LastOffset,
		CommitInterval: 0,
	})
	return newCatalogConsumer(reader, instanceID, catalog, logger)
}

func newCatalogConsumer(reader messageReader, instanceID string, catalog Refresher, logger *zap.Logger) *CatalogConsumer {
	return &CatalogConsumer{
		reader:     reader,
		catalog:    catalog,
		instanceID: instanceID,
		logger:     logger.Named("catalog_consumer"),
		done:       make(chan struct{}),
	}
}

func (kc *CatalogConsumer) Start(ctx context.Context) {
	ctx, kc.cancel = context.WithCancel(ctx)
	kc.logger.Info("Kafka consumer started", zap.String("instance_id", kc.instanceID))
	go kc.consume(ctx)
}

func (kc *CatalogConsumer) consume(ctx context.Context) {
	defer close(kc.done)

	for {
		msg, err := kc.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				kc.logger.Info("Kafka consumer stopped")
				return
			}
			kc.logger.Error("Error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := kc.processMessage(ctx, msg); err != nil {
			kc.logger.Error("Error processing message",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			continue
		}

		if err := kc.reader.CommitMessages(ctx, msg); err != nil {
			kc.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

func (kc *CatalogConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if !event.IsProductEvent() || event.Source == kc.instanceID {
		return nil
	}

	kc.logger.Info("Refreshing catalog",
		zap.String("event_id", event.EventID),
		zap.String("type", event.Type),
		zap.String("product_id", event.AggregateID),
		zap.String("source", event.Source))
	if err := kc.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("catalog refresh after %s failed: %w", event.Type, err)
	}
	return nil
}

// Stop cancels the fetch loop, waits for it and closes the reader.
func (kc *CatalogConsumer) Stop() error {
	var err error
	kc.once.Do(func() {
		kc.logger.Info("Stopping Kafka consumer")
		if kc.cancel != nil {
			kc.cancel()
			<-kc.done
		}
		err = kc.reader.Close()
	})
	return err
}
