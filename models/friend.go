package models

import "time"

// Friend - направленное ребро дружбы user_id -> friend_id.
// Дружба симметрична: рёбра (a,b) и (b,a) всегда создаются и удаляются вместе в одной транзакции
type Friend struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_friend_pair" json:"user_id"`
	FriendID  int64     `gorm:"not null;uniqueIndex:idx_friend_pair;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Friend) TableName() string {
	return "friends"
}
