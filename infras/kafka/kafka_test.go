package kafka

import (
	"context"
	"errors"
	"testing"
	"todoapp/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkaGo "github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	messages []kafkaGo.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	if f.err != nil {
		return f.err
	}

	f.messages = append(f.messages, msgs...)

	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true

	return nil
}

type payload struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

func TestSendMessages(t *testing.T) {
	w := &fakeWriter{}
	client := NewWithWriter(w, "todo.events")

	err := client.SendMessages(context.Background(), Message{
		Key:     "1",
		Value:   payload{ID: 1, Type: "created"},
		Headers: map[string]string{"request_id": "abc"},
	})

	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("1"), w.messages[0].Key)
	assert.JSONEq(t, `{"id":1,"type":"created"}`, string(w.messages[0].Value))

	decoded, err := DecodeKafkaMessage[payload](w.messages[0])
	require.NoError(t, err)
	assert.Equal(t, payload{ID: 1, Type: "created"}, decoded.Value)
	assert.Equal(t, "abc", decoded.Headers["request_id"])

	require.NoError(t, client.Close())
	assert.True(t, w.closed)
}

func TestSendMessagesWriterError(t *testing.T) {
	client := NewWithWriter(&fakeWriter{err: errors.New("broker down")}, "todo.events")

	err := client.SendMessages(context.Background(), Message{Key: "1", Value: payload{}})

	assert.ErrorContains(t, err, "broker down")
}

func TestSendMessagesMarshalError(t *testing.T) {
	w := &fakeWriter{}
	client := NewWithWriter(w, "todo.events")

	err := client.SendMessages(context.Background(), Message{Key: "1", Value: make(chan int)})

	assert.Error(t, err)
	assert.Empty(t, w.messages)
}

func TestNewDisabled(t *testing.T) {
	cfg := &config.Config{}

	client, cleanup, err := New(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.NoError(t, client.SendMessages(context.Background(), Message{Key: "1", Value: payload{}}))
}

func TestNewEnabledWithoutTopic(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	_, _, err := New(cfg)

	assert.ErrorIs(t, err, ErrMissingTopic)
}
