package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"voicepick-service/internal/models"
	"voicepick-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes picking domain events, keyed per session so
// one session's events stay ordered within a partition.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSessionStarted publishes SessionStarted
func (ep *EventPublisher) PublishSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishAnnouncement publishes Announcement
func (ep *EventPublisher) PublishAnnouncement(ctx context.Context, event *models.AnnouncementEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishMutationApplied publishes MutationApplied
func (ep *EventPublisher) PublishMutationApplied(ctx context.Context, event *models.MutationAppliedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishSessionCompleted publishes SessionCompleted
func (ep *EventPublisher) PublishSessionCompleted(ctx context.Context, event *models.SessionCompletedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// EventHandler routes incoming picking events to registered handlers
type EventHandler struct {
	logger             *zap.Logger
	onMutationApplied  func(context.Context, *models.MutationAppliedEvent) error
	onSessionCompleted func(context.Context, *models.SessionCompletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.NamedLogger("event-handler")}
}

// OnMutationApplied registers a handler for MutationApplied events
func (eh *EventHandler) OnMutationApplied(handler func(context.Context, *models.MutationAppliedEvent) error) {
	eh.onMutationApplied = handler
}

// OnSessionCompleted registers a handler for SessionCompleted events
func (eh *EventHandler) OnSessionCompleted(handler func(context.Context, *models.SessionCompletedEvent) error) {
	eh.onSessionCompleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeMutationApplied:
		if eh.onMutationApplied != nil {
			var event models.MutationAppliedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal MutationApplied event: %w", err)
			}
			return eh.onMutationApplied(ctx, &event)
		}

	case models.EventTypeSessionCompleted:
		if eh.onSessionCompleted != nil {
			var event models.SessionCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SessionCompleted event: %w", err)
			}
			return eh.onSessionCompleted(ctx, &event)
		}

	case models.EventTypeSessionStarted, models.EventTypeAnnouncement:
		// consumed by the presentation layer, nothing to fold here

	default:
		eh.logger.Debug("Unhandled event type",
			zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
