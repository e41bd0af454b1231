package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"cleangrid/internal/shared/config"
	"cleangrid/internal/users"
)

// UserDirectory resolves recipients for booking emails. The auth repository
// satisfies it.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*users.User, error)
}

// Consumer drains booking events from Kafka and emails the customer.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

func ConsumerConfigFrom(cfg *config.Config) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topics:         []string{cfg.Kafka.NotificationTopic},
		SessionTimeout: 30 * time.Second,
		MaxRetries:     3,
		RetryBackoff:   time.Second,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	smsService    SMSService
	userDirectory UserDirectory
	deadLetter    Producer
	wg            sync.WaitGroup
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService, smsService SMSService, userDirectory UserDirectory, deadLetter Producer) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
		smsService:    smsService,
		userDirectory: userDirectory,
		deadLetter:    deadLetter,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d booking event consumer workers for topics: %v", numWorkers, c.config.Topics)

	ctx, c.cancel = context.WithCancel(ctx)

	go c.handleErrors()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &eventHandler{consumer: c, workerID: workerID}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Worker %d shutting down", workerID)
			return
		default:
			if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
				log.Printf("📥 Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (c *kafkaConsumer) Stop() error {
	log.Println("📥 Stopping booking event consumer...")
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	log.Println("📥 Booking event consumer stopped")
	return nil
}

type eventHandler struct {
	consumer *kafkaConsumer
	workerID int
}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: consumer group session started", h.workerID)
	return nil
}

func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: consumer group session ended", h.workerID)
	return nil
}

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("📥 Worker %d: error processing message: %v", h.workerID, err)
			}
			// Mark regardless: exhausted retries land on the dead letter
			// topic, so replaying the main topic would only duplicate mail.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *eventHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var event BookingEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking event: %w", err)
	}

	log.Printf("📥 Worker %d: processing %s for booking %s (partition %d, offset %d)",
		h.workerID, event.Type, event.BookingRef, message.Partition, message.Offset)

	event.EventStatus = EventStatusSending

	user, err := h.consumer.userDirectory.GetUserByID(ctx, event.CustomerID.String())
	if err != nil {
		return fmt.Errorf("failed to resolve recipient for booking %s: %w", event.BookingRef, err)
	}

	if err := h.sendWithRetry(ctx, &event, user); err != nil {
		event.MarkFailed(err)
		if dlqErr := h.consumer.deadLetter.PublishToDeadLetter(ctx, &event); dlqErr != nil {
			log.Printf("📥 Worker %d: failed to park event %s on dead letter topic: %v", h.workerID, event.ID, dlqErr)
		}
		return err
	}

	event.MarkSent()

	// SMS rides along with a delivered email: one failed text is not
	// worth a dead-letter round trip.
	if h.consumer.smsService != nil && user.Phone != "" {
		if err := h.consumer.smsService.SendBookingSMS(ctx, &event, user.Phone, user.FirstName); err != nil {
			log.Printf("📥 Worker %d: SMS for booking %s not sent: %v", h.workerID, event.BookingRef, err)
		}
	}
	return nil
}

func (h *eventHandler) sendWithRetry(ctx context.Context, event *BookingEvent, user *users.User) error {
	maxRetries := h.consumer.config.MaxRetries
	backoff := h.consumer.config.RetryBackoff
	name := user.FirstName + " " + user.LastName

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.consumer.emailService.SendBookingEmail(ctx, event, user.Email, name)
		if err == nil {
			if attempt > 0 {
				log.Printf("📥 Worker %d: delivered %s after %d retries", h.workerID, event.Type, attempt)
			}
			return nil
		}
		event.RetryCount++

		if attempt == maxRetries {
			return fmt.Errorf("failed to deliver after %d attempts: %w", maxRetries, err)
		}

		delay := backoff * time.Duration(1<<attempt)
		log.Printf("📥 Worker %d: retry %d for %s in %v", h.workerID, attempt+1, event.Type, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
