package models

type EventType string

const (
	EventTypeLike   EventType = "LIKE"
	EventTypeReview EventType = "REVIEW"
	EventTypeFriend EventType = "FRIEND"
)

type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// Event - запись ленты событий пользователя
type Event struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"eventId"`
	Timestamp int64     `gorm:"not null" json:"timestamp"` // unix ms
	UserID    int64     `gorm:"not null;index" json:"userId"`
	EventType EventType `gorm:"size:20;not null" json:"eventType"`
	Operation Operation `gorm:"size:20;not null" json:"operation"`
	EntityID  int64     `gorm:"not null" json:"entityId"`
}

func (Event) TableName() string {
	return "events"
}
