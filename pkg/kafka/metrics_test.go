package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerMetrics_CountPublishes(t *testing.T) {
	topic := "storefront.metrics.ok"
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, []string{"localhost:9092"}, testLogger())

	before := testutil.ToFloat64(producerMessagesPublished.WithLabelValues(topic))
	for i := 0; i < 2; i++ {
		require.NoError(t, p.Publish(context.Background(), topic, &Event{EventID: "evt"}))
	}

	assert.InDelta(t, before+2, testutil.ToFloat64(producerMessagesPublished.WithLabelValues(topic)), 0.001)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(producerPublishDuration), 1)
}

func TestProducerMetrics_CountErrors(t *testing.T) {
	topic := "storefront.metrics.fail"
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, []string{"localhost:9092"}, testLogger())

	before := testutil.ToFloat64(producerPublishErrors.WithLabelValues(topic))
	require.Error(t, p.Publish(context.Background(), topic, &Event{EventID: "evt"}))

	assert.InDelta(t, before+1, testutil.ToFloat64(producerPublishErrors.WithLabelValues(topic)), 0.001)
}

func TestBreakerMetrics_TrackStateAndRejections(t *testing.T) {
	stub := &stubPublisher{err: errors.New("broker down")}
	cfg := DefaultBreakerConfig("metrics-breaker")
	cfg.MinRequests = 1
	b := NewBreakerPublisher(stub, cfg, testLogger())

	assert.Equal(t, 0.0, testutil.ToFloat64(breakerState.WithLabelValues("metrics-breaker")))

	_ = b.Publish(context.Background(), "t", &Event{})
	assert.Equal(t, 2.0, testutil.ToFloat64(breakerState.WithLabelValues("metrics-breaker")))

	err := b.Publish(context.Background(), "t", &Event{})
	require.ErrorIs(t, err, ErrPublisherUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(breakerRejected.WithLabelValues("metrics-breaker")))
}
