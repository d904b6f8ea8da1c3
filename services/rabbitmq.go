package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"filmorate/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	rabbitConn    *amqp.Connection
	rabbitChannel *amqp.Channel
	feedExchange  = "feed_events"
)

// InitRabbitMQ открывает соединение, канал и объявляет topic exchange
func InitRabbitMQ(url string) error {
	if url == "" {
		return fmt.Errorf("RabbitMQ URL is empty")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	// Создаем exchange типа topic
	if err := channel.ExchangeDeclare(
		feedExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	rabbitConn, rabbitChannel = conn, channel
	log.Printf("RabbitMQ initialized, exchange %s", feedExchange)
	return nil
}

func rabbitReady() bool {
	return rabbitChannel != nil && !rabbitChannel.IsClosed()
}

func feedRoutingKey(userID int64) string {
	return fmt.Sprintf("user.%d", userID)
}

// PublishFeedEvent публикует событие ленты с ключом user.<id>
func PublishFeedEvent(ctx context.Context, event models.Event) error {
	if !rabbitReady() {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return rabbitChannel.PublishWithContext(ctx,
		feedExchange,
		feedRoutingKey(event.UserID),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// StartFeedEventConsumer слушает события из exchange и пушит их через WebSocket
func StartFeedEventConsumer(ctx context.Context, queueName string) error {
	if !rabbitReady() {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	q, err := rabbitChannel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	// Биндим очередь к exchange по routing key user.*
	if err := rabbitChannel.QueueBind(q.Name, "user.*", feedExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := rabbitChannel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Printf("ERROR: RabbitMQ consumer channel closed")
					return
				}
				var event models.Event
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Println("Failed to unmarshal feed event:", err)
					continue
				}
				pushEvent(event, deliveryChannelRabbitMQ)
			}
		}
	}()
	return nil
}

func CloseRabbitMQ() error {
	if rabbitChannel != nil {
		_ = rabbitChannel.Close()
		rabbitChannel = nil
	}
	if rabbitConn != nil {
		err := rabbitConn.Close()
		rabbitConn = nil
		return err
	}
	return nil
}
