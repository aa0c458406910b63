package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerPublishKeysByAggregate(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, logger: zap.NewNop()}
	event, err := New(TypeOrderPlaced, "order-1", "node-a", OrderPlaced{
		OrderID: "order-1",
		Total:   decimal.RequireFromString("378.00"),
		Items:   []OrderItem{{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(175)}},
	}, now)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-1", string(w.msgs[0].Key))
	var decoded Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, TypeOrderPlaced, decoded.Type)
	assert.Equal(t, "node-a", decoded.Source)
	var payload OrderPlaced
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.True(t, decimal.RequireFromString("378").Equal(payload.Total))
}

func TestProducerPublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &KafkaProducer{writer: w, logger: zap.NewNop()}

	err := p.Publish(context.Background(), Event{EventID: "e1", Type: TypeProductCreated})

	assert.ErrorIs(t, err, w.err)
}

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{msgs: make(chan kafka.Message, 10)}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-r.msgs:
		return m, nil
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type countingRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingRefresher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func message(t *testing.T, offset int64, eventType, source string) kafka.Message {
	t.Helper()
	event, err := New(eventType, "p1", source, ProductChanged{ProductID: "p1"}, now)
	require.NoError(t, err)
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: value}
}

func TestProcessMessageRefreshesForOtherInstances(t *testing.T) {
	refresher := &countingRefresher{}
	c := newCatalogConsumer(newFakeReader(), "node-a", refresher, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, c.processMessage(ctx, message(t, 1, TypeProductUpdated, "node-b")))
	require.NoError(t, c.processMessage(ctx, message(t, 2, TypeProductUpdated, "node-a")))
	require.NoError(t, c.processMessage(ctx, message(t, 3, TypeOrderPlaced, "node-b")))

	assert.Equal(t, 1, refresher.count())
}

func TestProcessMessageErrors(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("scan failed")}
	c := newCatalogConsumer(newFakeReader(), "node-a", refresher, zap.NewNop())
	ctx := context.Background()

	assert.Error(t, c.processMessage(ctx, kafka.Message{Value: []byte("{not json")}))
	err := c.processMessage(ctx, message(t, 1, TypeProductDeleted, "node-b"))
	assert.ErrorIs(t, err, refresher.err)
}

func TestConsumerCommitsProcessedMessages(t *testing.T) {
	reader := newFakeReader()
	refresher := &countingRefresher{}
	c := newCatalogConsumer(reader, "node-a", refresher, zap.NewNop())
	reader.msgs <- message(t, 7, TypeProductCreated, "node-b")
	reader.msgs <- message(t, 8, TypeProductCreated, "node-a")

	c.Start(context.Background())
	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop())

	assert.Equal(t, []int64{7, 8}, reader.commits())
	assert.Equal(t, 1, refresher.count())
	assert.True(t, reader.closed)
}
