package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"cleangrid/internal/bookings"
	"cleangrid/internal/shared/config"
)

// Producer publishes booking lifecycle events to Kafka. It satisfies
// bookings.Notifier so the bookings and cancellation services can publish
// without knowing about Kafka.
type Producer interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking)
	PublishToDeadLetter(ctx context.Context, event *BookingEvent) error
	Close() error
}

type ProducerConfig struct {
	Brokers         []string
	Topic           string
	DeadLetterTopic string
	RetryMax        int
	Timeout         time.Duration
}

func ProducerConfigFrom(cfg *config.Config) *ProducerConfig {
	return &ProducerConfig{
		Brokers:         cfg.Kafka.Brokers,
		Topic:           cfg.Kafka.NotificationTopic,
		DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
		RetryMax:        3,
		Timeout:         10 * time.Second,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps all events for one booking on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka booking event producer created")
	return &kafkaProducer{producer: producer, config: config}, nil
}

// PublishBookingEvent is best effort: a broker failure is logged, never
// surfaced, so booking operations do not fail on notification problems.
func (p *kafkaProducer) PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking) {
	event := NewBookingEvent(eventType, booking)

	if err := p.publish(event, p.config.Topic); err != nil {
		log.Printf("📤 Failed to publish %s for booking %s: %v", eventType, booking.BookingRef, err)
	}
}

// PublishToDeadLetter parks an event the consumer could not process.
func (p *kafkaProducer) PublishToDeadLetter(ctx context.Context, event *BookingEvent) error {
	return p.publish(event, p.config.DeadLetterTopic)
}

func (p *kafkaProducer) publish(event *BookingEvent, topic string) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   eventHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		event.MarkFailed(err)
		return fmt.Errorf("failed to send booking event: %w", err)
	}

	log.Printf("📤 Published %s - Topic: %s, Partition: %d, Offset: %d, Booking: %s",
		event.Type, topic, partition, offset, event.BookingRef)
	return nil
}

func eventHeaders(event *BookingEvent) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("booking_id"), Value: []byte(event.BookingID.String())},
		{Key: []byte("booking_ref"), Value: []byte(event.BookingRef)},
		{Key: []byte("area_code"), Value: []byte(event.AreaCode)},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}

	if event.FranchiseeID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("franchisee_id"),
			Value: []byte(event.FranchiseeID.String()),
		})
	}

	return headers
}

func (p *kafkaProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka booking event producer closed")
	}
	return nil
}

// NoopProducer discards events. Used when Kafka is not configured so the
// rest of the platform keeps working without a broker.
type NoopProducer struct{}

func (NoopProducer) PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking) {
}

func (NoopProducer) PublishToDeadLetter(ctx context.Context, event *BookingEvent) error {
	return nil
}

func (NoopProducer) Close() error { return nil }
