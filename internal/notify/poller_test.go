package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekbhola/mystic-prana-web/internal/orders"
)

type mockSource struct {
	events    []orders.OutboxEvent
	fetchErr  error
	markErr   error
	published []int64
}

func (m *mockSource) GetUnpublishedEvents(context.Context, int) ([]orders.OutboxEvent, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.events, nil
}

func (m *mockSource) MarkEventPublished(_ context.Context, id int64) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.published = append(m.published, id)
	return nil
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	source := &mockSource{
		events: []orders.OutboxEvent{
			{ID: 1, EventType: orders.EventOrderPaid, Payload: []byte(`{"order_id":"o1"}`), CreatedAt: time.Now()},
			{ID: 2, EventType: orders.EventOrderPaid, Payload: []byte(`{"order_id":"o2"}`), CreatedAt: time.Now()},
		},
	}
	writer := &mockWriter{}
	poller := &OutboxPoller{tick: time.Second, batchSize: 100, source: source, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, orders.EventOrderPaid, string(writer.messages[0].Headers[0].Value))
	assert.Equal(t, []int64{1, 2}, source.published)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventPending(t *testing.T) {
	source := &mockSource{
		events: []orders.OutboxEvent{
			{ID: 1, EventType: orders.EventOrderPaid, Payload: []byte(`{}`)},
		},
	}
	writer := &mockWriter{err: errors.New("broker unavailable")}
	poller := &OutboxPoller{tick: time.Second, batchSize: 100, source: source, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, source.published, "unpublished event must stay pending for the next tick")
}

func TestProcessUnpublishedEvents_FetchFailure(t *testing.T) {
	source := &mockSource{fetchErr: errors.New("db down")}
	writer := &mockWriter{}
	poller := &OutboxPoller{tick: time.Second, batchSize: 100, source: source, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.messages)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	source := &mockSource{}
	writer := &mockWriter{}
	poller := &OutboxPoller{tick: 5 * time.Millisecond, batchSize: 100, source: source, writer: writer}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
