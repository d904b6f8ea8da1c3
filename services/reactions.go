package services

import (
	"fmt"

	"filmorate/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

// Polarity - реакция пользователя на отзыв. Значение равно вкладу в полезность отзыва
type Polarity int8

const (
	PolarityDislike Polarity = -1
	PolarityNone    Polarity = 0
	PolarityLike    Polarity = 1
)

func (p Polarity) String() string {
	switch p {
	case PolarityLike:
		return "like"
	case PolarityDislike:
		return "dislike"
	default:
		return "none"
	}
}

// ReactionDelta - изменение полезности при переходе реакции from -> to.
// none->like +1, none->dislike -1, like->dislike -2, dislike->like +2, снятие like -1, снятие dislike +1
func ReactionDelta(from, to Polarity) int64 {
	return int64(to) - int64(from)
}

// ApplyDelta - новое значение счётчика полезности
func ApplyDelta(current, delta int64) int64 {
	return current + delta
}

// ReactionLedger хранит не более одной реакции на пару (отзыв, пользователь).
// Все методы работают внутри транзакции вызывающего, который держит блокировку строки отзыва
type ReactionLedger struct{}

func (ReactionLedger) Get(tx *gorm.DB, reviewID, userID int64) (Polarity, error) {
	var reactions []models.ReviewReaction
	err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).Limit(1).Find(&reactions).Error
	if err != nil {
		return PolarityNone, err
	}
	if len(reactions) == 0 {
		return PolarityNone, nil
	}
	return Polarity(reactions[0].Polarity), nil
}

// Set ставит реакцию и возвращает изменение полезности. Повтор той же реакции ничего не меняет
func (l ReactionLedger) Set(tx *gorm.DB, reviewID, userID int64, polarity Polarity) (int64, error) {
	if polarity != PolarityLike && polarity != PolarityDislike {
		return 0, fmt.Errorf("unsupported polarity %d", polarity)
	}

	old, err := l.Get(tx, reviewID, userID)
	if err != nil {
		return 0, err
	}
	if old == polarity {
		return 0, nil
	}

	if old == PolarityNone {
		err = tx.Create(&models.ReviewReaction{
			ReviewID: reviewID,
			UserID:   userID,
			Polarity: int8(polarity),
		}).Error
	} else {
		err = tx.Model(&models.ReviewReaction{}).
			Where("review_id = ? AND user_id = ?", reviewID, userID).
			Update("polarity", int8(polarity)).Error
	}
	if err != nil {
		return 0, err
	}
	return ReactionDelta(old, polarity), nil
}

// Clear снимает реакцию, только если она совпадает с expected.
// removed=false означает, что снимать было нечего (или стоит противоположная реакция)
func (ReactionLedger) Clear(tx *gorm.DB, reviewID, userID int64, expected Polarity) (delta int64, removed bool, err error) {
	result := tx.Where("review_id = ? AND user_id = ? AND polarity = ?", reviewID, userID, int8(expected)).
		Delete(&models.ReviewReaction{})
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return ReactionDelta(expected, PolarityNone), true, nil
}

// ClearAll снимает все реакции пользователя и возвращает изменения полезности по отзывам
func (l ReactionLedger) ClearAll(tx *gorm.DB, userID int64) (map[int64]int64, error) {
	var reactions []models.ReviewReaction
	if err := tx.Where("user_id = ?", userID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	deltas := make(map[int64]int64, len(reactions))
	for _, r := range reactions {
		delta, removed, err := l.Clear(tx, r.ReviewID, userID, Polarity(r.Polarity))
		if err != nil {
			return nil, err
		}
		if removed {
			deltas[r.ReviewID] += delta
		}
	}
	return deltas, nil
}
