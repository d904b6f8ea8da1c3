package services

import (
	"context"
	"errors"
	"time"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

type FriendService struct{}

func NewFriendService() *FriendService {
	return &FriendService{}
}

// AddFriend добавляет дружбу сразу в обе стороны
func (fs *FriendService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return validationError("cannot add yourself as friend")
	}

	return inTransaction(ctx, "add friend", func(tx *gorm.DB, events *eventBatch) error {
		// Проверяем, что пользователи существуют
		if err := requireUsers(tx, userID, friendID); err != nil {
			return err
		}

		// Проверяем, что дружба не существует
		exists, err := areFriends(tx, userID, friendID)
		if err != nil {
			return err
		}
		if exists {
			return validationError("users %d and %d are already friends", userID, friendID)
		}

		now := time.Now()
		edges := []models.Friend{
			{UserID: userID, FriendID: friendID, CreatedAt: now},
			{UserID: friendID, FriendID: userID, CreatedAt: now},
		}
		if err := tx.Create(&edges).Error; err != nil {
			// параллельный запрос успел создать ту же пару
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return validationError("users %d and %d are already friends", userID, friendID)
			}
			return err
		}

		return events.record(tx, userID, models.EventTypeFriend, models.OperationAdd, friendID)
	})
}

// RemoveFriend удаляет дружбу в обе стороны
func (fs *FriendService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return inTransaction(ctx, "remove friend", func(tx *gorm.DB, events *eventBatch) error {
		if err := requireUsers(tx, userID, friendID); err != nil {
			return err
		}

		// Удаляем все записи дружбы между пользователями
		result := tx.Where(
			"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID,
		).Delete(&models.Friend{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return validationError("users %d and %d are not friends", userID, friendID)
		}

		return events.record(tx, userID, models.EventTypeFriend, models.OperationRemove, friendID)
	})
}

// GetFriends возвращает список друзей пользователя
func (fs *FriendService) GetFriends(ctx context.Context, userID int64) ([]models.User, error) {
	readDB := db.GetReadOnlyDB(ctx)
	if err := requireUser(readDB, userID); err != nil {
		return nil, err
	}

	friends := []models.User{}
	err := readDB.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN friends f ON f.friend_id = users.id").
		Where("f.user_id = ?", userID).
		Order("users.id").
		Find(&friends).Error
	if err != nil {
		return nil, internalError("get friends", err)
	}
	return friends, nil
}

// GetCommonFriends возвращает пересечение списков друзей двух пользователей
func (fs *FriendService) GetCommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	readDB := db.GetReadOnlyDB(ctx)
	if err := requireUsers(readDB, userID, otherID); err != nil {
		return nil, err
	}

	common := []models.User{}
	err := readDB.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN friends fa ON fa.friend_id = users.id AND fa.user_id = ?", userID).
		Joins("JOIN friends fb ON fb.friend_id = users.id AND fb.user_id = ?", otherID).
		Order("users.id").
		Find(&common).Error
	if err != nil {
		return nil, internalError("get common friends", err)
	}
	return common, nil
}

func (fs *FriendService) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	ok, err := areFriends(db.GetReadOnlyDB(ctx), userID, friendID)
	if err != nil {
		return false, internalError("check friendship", err)
	}
	return ok, nil
}

// areFriends - при симметричной записи достаточно проверить одно ребро
func areFriends(tx *gorm.DB, userID, friendID int64) (bool, error) {
	var count int64
	err := tx.Model(&models.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// deleteFriendships удаляет все рёбра пользователя (используется при удалении пользователя)
func deleteFriendships(tx *gorm.DB, userID int64) error {
	return tx.Where("user_id = ? OR friend_id = ?", userID, userID).Delete(&models.Friend{}).Error
}
