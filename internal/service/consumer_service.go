package service

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/pkg/logger"
	"pdf-insight-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns document.analyzed messages into user notifications.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	notification *NotificationService
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	notification *NotificationService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		notification: notification,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.DocumentAnalyzedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	title := "Analysis complete"
	body := fmt.Sprintf("%q has been analyzed and is ready for chat.", payload.PdfName)
	if !payload.Persisted {
		title = "Analysis complete, save failed"
		body = fmt.Sprintf("%q was analyzed but could not be saved. You can still chat with it this session.", payload.PdfName)
	}

	err := cs.notification.Notify(ctx, payload.UserId, events.TypeDocumentAnalyzed, title, body, map[string]interface{}{
		"document_id": payload.DocumentId.String(),
		"pdf_name":    payload.PdfName,
		"persisted":   payload.Persisted,
	})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to deliver notification", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
