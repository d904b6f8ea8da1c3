package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"filmorate/models"

	"github.com/go-redis/redis/v8"
)

const (
	FEED_EVENT_QUEUE   = "feed_event_queue"
	QUEUE_WORKER_COUNT = 5
	queuePollTimeout   = 5 * time.Second
)

// QueueService - очередь событий ленты в redis-списке (RPUSH/BLPOP).
// Воркеры забирают события и передают их дальше через deliverEvent
type QueueService struct {
	client *redis.Client
}

func NewQueueService(client *redis.Client) *QueueService {
	return &QueueService{client: client}
}

// QueueServiceInstance глобальный экземпляр сервиса очередей
var QueueServiceInstance *QueueService

// StartWorkers запускает воркеры для обработки очереди
func (qs *QueueService) StartWorkers(ctx context.Context) {
	for i := 0; i < QUEUE_WORKER_COUNT; i++ {
		go qs.worker(ctx, i)
	}
}

// worker обрабатывает события из очереди до отмены ctx
func (qs *QueueService) worker(ctx context.Context, workerID int) {
	log.Printf("Feed event worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Feed event worker %d stopping", workerID)
			return
		default:
		}

		event, err := qs.next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("ERROR: Worker %d failed to read event: %v", workerID, err)
			time.Sleep(time.Second)
			continue
		}
		if event == nil {
			continue
		}
		deliverEvent(ctx, *event)
	}
}

// next ждёт следующее событие; nil без ошибки - таймаут ожидания
func (qs *QueueService) next(ctx context.Context) (*models.Event, error) {
	result, err := qs.client.BLPop(ctx, queuePollTimeout, FEED_EVENT_QUEUE).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var event models.Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		log.Printf("ERROR: Dropping malformed feed event: %v", err)
		return nil, nil
	}
	return &event, nil
}

// EnqueueEvent добавляет событие в очередь
func (qs *QueueService) EnqueueEvent(ctx context.Context, event models.Event) error {
	if qs == nil || qs.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := qs.client.RPush(ctx, FEED_EVENT_QUEUE, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}

	log.Printf("DEBUG: Enqueued feed event %d for user %d", event.ID, event.UserID)
	return nil
}

// GetStats возвращает статистику очереди
func (qs *QueueService) GetStats(ctx context.Context) map[string]interface{} {
	stats := make(map[string]interface{})
	if qs == nil || qs.client == nil {
		stats["error"] = "Redis not available"
		return stats
	}

	stats["queue_length"] = qs.client.LLen(ctx, FEED_EVENT_QUEUE).Val()
	stats["worker_count"] = QUEUE_WORKER_COUNT
	stats["queue_name"] = FEED_EVENT_QUEUE
	return stats
}
