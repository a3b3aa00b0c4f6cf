package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	queue   []*EventDocument
	sent    []string
	failed  []string
	lastErr string
}

func (s *fakeStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(s.queue) == 0 {
		return nil, nil
	}
	doc := s.queue[0]
	s.queue = s.queue[1:]
	return doc, nil
}

func (s *fakeStore) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.failed = append(s.failed, id)
	s.lastErr = errMsg
	return nil
}

type fakeProducer struct {
	topics   []string
	keys     []string
	payloads [][]byte
	headers  []map[string]string
	err      error
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, payload)
	p.headers = append(p.headers, headers)
	return nil
}

func stagedEvent(id, name string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       name,
		Payload:    []byte(`{"booking_id":"bk-1"}`),
		OccurredAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Aggregate:  "bk-1",
	}
}

func TestWorkerPublishesCloudEvent(t *testing.T) {
	store := &fakeStore{queue: []*EventDocument{stagedEvent("evt-1", "booking.requested")}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, Source: "app://staywise"}

	require.NoError(t, w.processOnce(context.Background()))

	require.Len(t, producer.topics, 1)
	assert.Equal(t, "booking.events.v1", producer.topics[0])
	assert.Equal(t, "bk-1", producer.keys[0])
	assert.Equal(t, []string{"evt-1"}, store.sent)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(producer.payloads[0], &envelope))
	assert.Equal(t, "1.0", envelope["specversion"])
	assert.Equal(t, "booking.requested.v1", envelope["type"])
	assert.Equal(t, "app://staywise", envelope["source"])
	assert.Equal(t, map[string]any{"booking_id": "bk-1"}, envelope["data"])
	assert.Equal(t, "application/cloudevents+json", producer.headers[0]["content-type"])
}

func TestWorkerAppliesTopicPrefix(t *testing.T) {
	store := &fakeStore{queue: []*EventDocument{stagedEvent("evt-1", "booking.confirmed")}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, TopicPrefix: "staging."}

	require.NoError(t, w.processOnce(context.Background()))
	require.Len(t, producer.topics, 1)
	assert.Equal(t, "staging.booking.events.v1", producer.topics[0])
}

func TestWorkerMarksFailedOnPublishError(t *testing.T) {
	store := &fakeStore{queue: []*EventDocument{stagedEvent("evt-1", "booking.requested")}}
	producer := &fakeProducer{err: errors.New("broker down")}
	w := &Worker{Store: store, Producer: producer, Backoff: []time.Duration{time.Second}}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, store.sent)
	assert.Equal(t, []string{"evt-1"}, store.failed)
	assert.Equal(t, "broker down", store.lastErr)
}

func TestWorkerMarksFailedOnBadPayload(t *testing.T) {
	doc := stagedEvent("evt-1", "booking.requested")
	doc.Payload = []byte("not json")
	store := &fakeStore{queue: []*EventDocument{doc}}
	w := &Worker{Store: store, Producer: &fakeProducer{}}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Equal(t, []string{"evt-1"}, store.failed)
}

func TestWorkerRequiresDependencies(t *testing.T) {
	w := &Worker{}
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestWorkerIdleWhenQueueEmpty(t *testing.T) {
	store := &fakeStore{}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, producer.topics)
	assert.Empty(t, store.sent)
}
