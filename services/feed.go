package services

import (
	"context"
	"time"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

// eventBatch накапливает события, записанные в текущей транзакции
type eventBatch struct {
	events []models.Event
}

func (b *eventBatch) record(tx *gorm.DB, userID int64, eventType models.EventType, operation models.Operation, entityID int64) error {
	event := models.Event{
		Timestamp: time.Now().UnixMilli(),
		UserID:    userID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
	}
	if err := tx.Create(&event).Error; err != nil {
		return internalError("record event", err)
	}
	b.events = append(b.events, event)
	return nil
}

// inTransaction выполняет fn в транзакции на мастере.
// Записанные события рассылаются только после успешного коммита
func inTransaction(ctx context.Context, op string, fn func(tx *gorm.DB, events *eventBatch) error) error {
	events := &eventBatch{}
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, events)
	})
	if err != nil {
		return internalError(op, err)
	}

	notifyCtx := context.WithoutCancel(ctx)
	for _, event := range events.events {
		NotifyEvent(notifyCtx, event)
	}
	return nil
}

type FeedService struct{}

func NewFeedService() *FeedService {
	return &FeedService{}
}

// GetFeed возвращает ленту событий пользователя в порядке их появления
func (fs *FeedService) GetFeed(ctx context.Context, userID int64) ([]models.Event, error) {
	readDB := db.GetReadOnlyDB(ctx)
	if err := requireUser(readDB, userID); err != nil {
		return nil, err
	}

	events := []models.Event{}
	err := readDB.Where("user_id = ?", userID).Order("id ASC").Find(&events).Error
	if err != nil {
		return nil, internalError("get feed", err)
	}
	return events, nil
}
