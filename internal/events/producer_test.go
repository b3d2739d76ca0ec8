package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishEvent(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), TopicProduct, "7", map[string]any{
		"type":      "product_created",
		"productID": 3,
		"name":      "Desk",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicProduct, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))
	assert.False(t, msg.Time.IsZero())

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "product_created", event["type"])
	assert.EqualValues(t, 3, event["productID"])
	assert.Equal(t, "Desk", event["name"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEvent_Errors(t *testing.T) {
	t.Parallel()

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("broker down")
		p := &Producer{writer: &recordingWriter{err: boom}}

		err := p.PublishEvent(context.Background(), TopicUser, "1", map[string]any{"type": "x"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unmarshalable event", func(t *testing.T) {
		t.Parallel()

		w := &recordingWriter{}
		p := &Producer{writer: w}

		err := p.PublishEvent(context.Background(), TopicUser, "1", map[string]any{"bad": make(chan int)})
		require.Error(t, err)
		assert.Empty(t, w.msgs)
	})
}

func TestNewProducer_UsesBrokers(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"kafka:9092", "kafka2:9092"})
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "tcp,tcp", w.Addr.Network())
	assert.Contains(t, w.Addr.String(), "kafka2:9092")
	assert.Empty(t, w.Topic)
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishEvent(context.Background(), TopicUser, "1", nil))
}
