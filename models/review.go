package models

import "time"

// Review - отзыв на фильм. Useful не задаётся клиентом, а считается из реакций других пользователей
type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"reviewId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsPositive bool      `json:"isPositive"`
	UserID     int64     `gorm:"not null;index" json:"userId"`
	FilmID     int64     `gorm:"not null;index" json:"filmId"`
	Useful     int64     `gorm:"not null;default:0;index" json:"useful"`
	CreatedAt  time.Time `json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewReaction - реакция пользователя на отзыв: +1 (полезно) или -1 (бесполезно).
// Составной первичный ключ гарантирует не более одной реакции на пару (отзыв, пользователь)
type ReviewReaction struct {
	ReviewID  int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"primaryKey;index"`
	Polarity  int8      `gorm:"not null"`
	UpdatedAt time.Time `json:"-"`
}

func (ReviewReaction) TableName() string {
	return "review_reactions"
}
