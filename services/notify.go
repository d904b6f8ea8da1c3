package services

import (
	"context"
	"encoding/json"
	"log"

	"filmorate/models"
)

const (
	deliveryChannelQueue     = "redis"
	deliveryChannelRabbitMQ  = "rabbitmq"
	deliveryChannelWebSocket = "websocket"
)

// FeedPush - сообщение о событии ленты для WebSocket-клиента
type FeedPush struct {
	Event string       `json:"event"`
	Data  models.Event `json:"data"`
}

// NotifyEvent отправляет закоммиченное событие подписчикам: через очередь redis,
// если она поднята, иначе сразу дальше по цепочке (RabbitMQ, затем прямой WebSocket)
func NotifyEvent(ctx context.Context, event models.Event) {
	if QueueServiceInstance != nil {
		err := QueueServiceInstance.EnqueueEvent(ctx, event)
		if err == nil {
			feedEventsDelivered.WithLabelValues(deliveryChannelQueue).Inc()
			return
		}
		log.Printf("ERROR: Failed to enqueue feed event %d: %v", event.ID, err)
	}
	deliverEvent(ctx, event)
}

// deliverEvent публикует событие в RabbitMQ, а без брокера пушит его напрямую
func deliverEvent(ctx context.Context, event models.Event) {
	if rabbitReady() {
		err := PublishFeedEvent(ctx, event)
		if err == nil {
			feedEventsDelivered.WithLabelValues(deliveryChannelRabbitMQ).Inc()
			return
		}
		log.Printf("ERROR: Failed to publish feed event %d: %v", event.ID, err)
	}
	pushEvent(event, deliveryChannelWebSocket)
}

func pushEvent(event models.Event, channel string) {
	data, err := json.Marshal(FeedPush{Event: "feed_event", Data: event})
	if err != nil {
		log.Printf("ERROR: Failed to marshal feed push: %v", err)
		return
	}
	if GlobalWSConnManager.Send(event.UserID, data) > 0 {
		feedEventsPushed.WithLabelValues(channel).Inc()
	}
}
