package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is one record to publish. Headers are optional metadata carried
// alongside the value.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes to any number of topics over one broker set. A writer
// is created per topic on first use and reused afterwards; Close flushes and
// releases all of them.
type Producer struct {
	brokers []string

	mu      sync.RWMutex
	writers map[string]*kafkago.Writer
}

// NewProducer creates a producer for the configured brokers.
func NewProducer(cfg Config) *Producer {
	return &Producer{
		brokers: cfg.Brokers,
		writers: make(map[string]*kafkago.Writer),
	}
}

// Publish writes the messages to one topic. All messages go out in a single
// batch; a failure reports the topic so log lines stay actionable.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	records := make([]kafkago.Message, 0, len(messages))
	for _, m := range messages {
		record := kafkago.Message{Key: m.Key, Value: m.Value}
		for k, v := range m.Headers {
			record.Headers = append(record.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
		records = append(records, record)
	}

	if err := p.writer(topic).WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	return nil
}

// Close shuts every topic writer down and reports all close errors joined.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka: close writer %s: %w", topic, err))
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return errors.Join(errs...)
}

func (p *Producer) writer(topic string) *kafkago.Writer {
	p.mu.RLock()
	w, ok := p.writers[topic]
	p.mu.RUnlock()
	if ok {
		return w
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.writers[topic]; ok {
		return w
	}

	w = &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	p.writers[topic] = w
	return w
}
