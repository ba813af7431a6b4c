package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"todoapp/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	message := kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}

	for key, value := range m.Headers {
		message.Headers = append(message.Headers, kafkaGo.Header{Key: key, Value: []byte(value)})
	}

	return message, nil
}

// DecodeKafkaMessage decodes a JSON message value into T.
func DecodeKafkaMessage[T any](msg kafkaGo.Message) (Message, error) {
	var value T

	err := json.Unmarshal(msg.Value, &value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal Kafka message value from JSON")

		return Message{}, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	headers := make(map[string]string, len(msg.Headers))
	for _, header := range msg.Headers {
		headers[header.Key] = string(header.Value)
	}

	return Message{
		Key:     string(msg.Key),
		Value:   value,
		Headers: headers,
	}, nil
}

var ErrMissingTopic = errors.New("kafka enabled without brokers or topic")

// Client publishes messages to the configured topic.
type Client interface {
	SendMessages(ctx context.Context, messages ...Message) (err error)
	Close() error
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type kafkaClientImpl struct {
	writer writer
	topic  string
}

// New returns a client writing to KAFKA_TOPIC. When Kafka is disabled the client discards
// every message.
func New(config *config.Config) (Client, func(), error) {
	if !config.Kafka.Enable {
		log.Info().Msg("Kafka disabled, events will be discarded")

		return &nopClient{}, func() {}, nil
	}

	if len(config.Kafka.Brokers) == 0 || config.Kafka.Topic == "" {
		return nil, nil, ErrMissingTopic
	}

	transport := &kafkaGo.Transport{
		DialTimeout: 5 * time.Second,
	}

	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	client := NewWithWriter(&kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Topic:                  config.Kafka.Topic,
		Balancer:               &kafkaGo.Hash{},
		Transport:              transport,
		RequiredAcks:           kafkaGo.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, config.Kafka.Topic)

	log.Info().Strs("brokers", config.Kafka.Brokers).Str("topic", config.Kafka.Topic).Msg("Kafka client initialized")

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka writer")
		}
	}

	return client, cleanup, nil
}

// NewWithWriter wraps an existing writer, such as a *kafka.Writer.
func NewWithWriter(w writer, topic string) Client {
	return &kafkaClientImpl{
		writer: w,
		topic:  topic,
	}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, messages ...Message) (err error) {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", k.topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err = k.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", k.topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", k.topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}

type nopClient struct{}

func (n *nopClient) SendMessages(_ context.Context, _ ...Message) error {
	return nil
}

func (n *nopClient) Close() error {
	return nil
}
