package service

import (
	"context"
	"encoding/json"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder relays events outside the process (NATS JetStream)
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// consumerService drains the in-process event topic into the history log and
// forwards every event when a forwarder is configured.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	history    logger.ILogger
	forwarder  EventForwarder
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	history logger.ILogger,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		history:    history,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Redelivery cannot fix a malformed payload
		msg.Ack()
		return
	}

	eventType := msg.Metadata.Get(MetadataEventType)
	cs.history.Info("History", eventType, payload)

	if cs.forwarder != nil {
		evt := events.BaseEvent{
			Type:       eventType,
			Data:       payload,
			OccurredAt: occurredAt(payload),
		}
		if id, ok := payload["id"].(string); ok {
			evt.ID = id
		}
		if err := cs.forwarder.Publish(ctx, evt); err != nil {
			// History is best effort; a Nack would spin while the broker is down
			cs.logger.Warn("Consumer", "Failed to forward event", map[string]interface{}{
				"event_type": eventType,
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}

func occurredAt(payload map[string]interface{}) time.Time {
	if s, ok := payload["at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Now()
}
