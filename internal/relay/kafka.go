package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	kafkalib "github.com/s21platform/kafka-lib"
	"github.com/s21platform/metrics-lib/pkg"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
)

// wireBundle is the JSON shape carried on the inbound Kafka topic.
// The relay transport itself is opaque to the rest of the server; this
// struct only exists at the Kafka boundary.
type wireBundle struct {
	ID           string        `json:"id"`
	User         wireComponent `json:"user"`
	Conversation wireComponent `json:"conversation"`
	Message      wireComponent `json:"message"`
}

type wireComponent struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// KafkaClient implements Client on top of kafka-lib: an async consumer
// drains the inbound topic into a bounded in-memory buffer so Read
// never blocks the Timeline worker, and Write publishes synchronously
// to the outbound topic.
type KafkaClient struct {
	outboundTopic string

	producer *kafkalib.Producer

	mu     sync.Mutex
	buffer []Bundle
}

// NewKafkaClient starts a background consumer on inboundTopic (via
// consumerGroupID) feeding an internal buffer, and prepares a producer
// for outboundTopic. metrics is passed through to kafka-lib for
// consumer/producer instrumentation.
func NewKafkaClient(ctx context.Context, host, port, inboundTopic, outboundTopic, consumerGroupID string, metrics *pkg.Metrics) (*KafkaClient, error) {
	c := &KafkaClient{outboundTopic: outboundTopic}

	consumerCfg := kafkalib.DefaultConsumerConfig(host, port, inboundTopic, consumerGroupID)
	consumer, err := kafkalib.NewConsumer(consumerCfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("relay: new kafka consumer: %w", err)
	}
	consumer.RegisterHandler(ctx, c.handleInbound)

	producerCfg := kafkalib.DefaultProducerConfig(host, port, outboundTopic)
	producer, err := kafkalib.NewProducer(producerCfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("relay: new kafka producer: %w", err)
	}
	c.producer = producer

	return c, nil
}

func (c *KafkaClient) handleInbound(ctx context.Context, key, value []byte) error {
	var wb wireBundle
	if err := json.Unmarshal(value, &wb); err != nil {
		return fmt.Errorf("relay: decode bundle: %w", err)
	}
	bundle, err := fromWire(wb)
	if err != nil {
		return fmt.Errorf("relay: decode bundle: %w", err)
	}

	const bufferCap = 4096
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buffer) >= bufferCap {
		c.buffer = c.buffer[1:]
	}
	c.buffer = append(c.buffer, bundle)
	return nil
}

// Read drains up to max buffered bundles whose id sorts after
// sinceBundleID, in arrival order. serverID and secret are accepted
// to satisfy the Client contract but are not consulted: this
// implementation trusts topic-level access control.
func (c *KafkaClient) Read(_ context.Context, _ identity.ID, _ model.Secret, sinceBundleID identity.ID, max int) ([]Bundle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Bundle, 0, max)
	remaining := c.buffer[:0]
	consumed := 0
	for _, b := range c.buffer {
		if consumed < max && after(b.ID, sinceBundleID) {
			out = append(out, b)
			consumed++
			continue
		}
		remaining = append(remaining, b)
	}
	c.buffer = remaining
	return out, nil
}

// Write publishes a locally authored message pack to the outbound
// topic.
func (c *KafkaClient) Write(ctx context.Context, serverID identity.ID, _ model.Secret, user, conversation, message Component) error {
	wb := wireBundle{
		ID:           serverID.String(),
		User:         toWireComponent(user),
		Conversation: toWireComponent(conversation),
		Message:      toWireComponent(message),
	}
	payload, err := json.Marshal(wb)
	if err != nil {
		return fmt.Errorf("relay: encode bundle: %w", err)
	}
	if err := c.producer.Produce(ctx, []byte(serverID.String()), payload); err != nil {
		return fmt.Errorf("relay: publish bundle: %w", err)
	}
	return nil
}

func toWireComponent(c Component) wireComponent {
	return wireComponent{ID: c.ID.String(), Text: c.Text, Time: int64(c.Time)}
}

func fromWireComponent(c wireComponent) (Component, error) {
	id, err := identity.Parse(c.ID)
	if err != nil {
		return Component{}, err
	}
	return Component{ID: id, Text: c.Text, Time: model.Time(c.Time)}, nil
}

func fromWire(wb wireBundle) (Bundle, error) {
	id, err := identity.Parse(wb.ID)
	if err != nil {
		return Bundle{}, err
	}
	user, err := fromWireComponent(wb.User)
	if err != nil {
		return Bundle{}, err
	}
	conv, err := fromWireComponent(wb.Conversation)
	if err != nil {
		return Bundle{}, err
	}
	msg, err := fromWireComponent(wb.Message)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{ID: id, User: user, Conversation: conv, Message: msg}, nil
}

// after reports whether id was generated strictly after since,
// ordering first by generator then by sequence so bundles from
// distinct origin servers still sort deterministically.
func after(id, since identity.ID) bool {
	if id.Generator != since.Generator {
		return id.Generator > since.Generator
	}
	return id.Sequence > since.Sequence
}
