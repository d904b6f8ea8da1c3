package services

import (
	"context"
	"errors"
	"strings"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

const DefaultListLimit = 10

// ReviewDraft - данные нового отзыва; nil означает, что поле не передано
type ReviewDraft struct {
	Content    string
	IsPositive *bool
	UserID     *int64
	FilmID     *int64
}

// ReviewPatch - частичное обновление отзыва
type ReviewPatch struct {
	Content    *string
	IsPositive *bool
}

type ReviewService struct {
	ledger ReactionLedger
}

func NewReviewService() *ReviewService {
	return &ReviewService{}
}

// CreateReview создаёт отзыв с нулевой полезностью
func (rs *ReviewService) CreateReview(ctx context.Context, draft ReviewDraft) (*models.Review, error) {
	if strings.TrimSpace(draft.Content) == "" {
		return nil, validationError("review content must not be blank")
	}
	if draft.IsPositive == nil {
		return nil, validationError("isPositive is required")
	}
	if draft.UserID == nil {
		return nil, validationError("userId is required")
	}
	if draft.FilmID == nil {
		return nil, validationError("filmId is required")
	}

	review := &models.Review{
		Content:    draft.Content,
		IsPositive: *draft.IsPositive,
		UserID:     *draft.UserID,
		FilmID:     *draft.FilmID,
		Useful:     0,
	}
	err := inTransaction(ctx, "create review", func(tx *gorm.DB, events *eventBatch) error {
		if err := requireUser(tx, review.UserID); err != nil {
			return err
		}
		if err := requireFilm(tx, review.FilmID); err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return events.record(tx, review.UserID, models.EventTypeReview, models.OperationAdd, review.ID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview меняет текст и/или оценку отзыва. Полезность не трогается
func (rs *ReviewService) UpdateReview(ctx context.Context, reviewID int64, patch ReviewPatch) (*models.Review, error) {
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, validationError("review content must not be blank")
	}

	var review models.Review
	err := inTransaction(ctx, "update review", func(tx *gorm.DB, events *eventBatch) error {
		if err := takeForUpdate(tx, &review, reviewID, "review"); err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if patch.Content != nil {
			changes["content"] = *patch.Content
			review.Content = *patch.Content
		}
		if patch.IsPositive != nil {
			changes["is_positive"] = *patch.IsPositive
			review.IsPositive = *patch.IsPositive
		}
		// пустое обновление ничего не меняет и в ленту не пишется
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).Updates(changes).Error; err != nil {
			return err
		}
		return events.record(tx, review.UserID, models.EventTypeReview, models.OperationUpdate, review.ID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview удаляет отзыв вместе со всеми реакциями на него
func (rs *ReviewService) DeleteReview(ctx context.Context, reviewID int64) error {
	return inTransaction(ctx, "delete review", func(tx *gorm.DB, events *eventBatch) error {
		var review models.Review
		if err := takeForUpdate(tx, &review, reviewID, "review"); err != nil {
			return err
		}
		if err := deleteReviews(tx, []int64{reviewID}); err != nil {
			return err
		}
		return events.record(tx, review.UserID, models.EventTypeReview, models.OperationRemove, review.ID)
	})
}

func (rs *ReviewService) GetReview(ctx context.Context, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := db.GetReadOnlyDB(ctx).Where("id = ?", reviewID).Take(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("review %d not found", reviewID)
	}
	if err != nil {
		return nil, internalError("get review", err)
	}
	return &review, nil
}

// ListReviews возвращает отзывы (всех фильмов или одного) по убыванию полезности,
// при равной полезности - в порядке создания
func (rs *ReviewService) ListReviews(ctx context.Context, filmID *int64, limit int) ([]models.Review, error) {
	if limit <= 0 {
		return nil, validationError("count must be positive")
	}

	query := db.GetReadOnlyDB(ctx).Model(&models.Review{})
	if filmID != nil {
		query = query.Where("film_id = ?", *filmID)
	}

	reviews := []models.Review{}
	err := query.Order("useful DESC").Order("id ASC").Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, internalError("list reviews", err)
	}
	return reviews, nil
}

func (rs *ReviewService) AddLike(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	return rs.setReaction(ctx, reviewID, userID, PolarityLike)
}

func (rs *ReviewService) AddDislike(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	return rs.setReaction(ctx, reviewID, userID, PolarityDislike)
}

func (rs *ReviewService) RemoveLike(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	return rs.clearReaction(ctx, reviewID, userID, PolarityLike)
}

func (rs *ReviewService) RemoveDislike(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	return rs.clearReaction(ctx, reviewID, userID, PolarityDislike)
}

func (rs *ReviewService) setReaction(ctx context.Context, reviewID, userID int64, polarity Polarity) (*models.Review, error) {
	return rs.react(ctx, reviewID, userID, func(tx *gorm.DB) (int64, error) {
		return rs.ledger.Set(tx, reviewID, userID, polarity)
	})
}

func (rs *ReviewService) clearReaction(ctx context.Context, reviewID, userID int64, expected Polarity) (*models.Review, error) {
	return rs.react(ctx, reviewID, userID, func(tx *gorm.DB) (int64, error) {
		delta, _, err := rs.ledger.Clear(tx, reviewID, userID, expected)
		return delta, err
	})
}

// react выполняет изменение реакции и пересчёт полезности одной транзакцией.
// Строка отзыва блокируется, поэтому параллельные реакции на один отзыв не теряют обновления
func (rs *ReviewService) react(ctx context.Context, reviewID, userID int64, change func(tx *gorm.DB) (int64, error)) (*models.Review, error) {
	var review models.Review
	err := inTransaction(ctx, "update reaction", func(tx *gorm.DB, _ *eventBatch) error {
		if err := takeForUpdate(tx, &review, reviewID, "review"); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		delta, err := change(tx)
		if err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}

		review.Useful = ApplyDelta(review.Useful, delta)
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).Update("useful", review.Useful).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// deleteReviews удаляет отзывы и реакции на них
func deleteReviews(tx *gorm.DB, reviewIDs []int64) error {
	if len(reviewIDs) == 0 {
		return nil
	}
	if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.ReviewReaction{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", reviewIDs).Delete(&models.Review{}).Error
}
