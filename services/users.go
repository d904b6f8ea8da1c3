package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

type UserService struct {
	ledger ReactionLedger
}

func NewUserService() *UserService {
	return &UserService{}
}

func validateUser(user *models.User) error {
	if strings.TrimSpace(user.Email) == "" || !strings.Contains(user.Email, "@") {
		return validationError("email must be a valid address")
	}
	if user.Login == "" || strings.ContainsAny(user.Login, " \t\n") {
		return validationError("login must not be empty or contain spaces")
	}
	if user.Birthday.IsZero() {
		return validationError("birthday is required")
	}
	if user.Birthday.Time().After(time.Now()) {
		return validationError("birthday must not be in the future")
	}
	// Пустое имя заменяем логином
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return nil
}

func (us *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	user.ID = 0

	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		log.Printf("ERROR: Failed to create user %s: %v", user.Login, err)
		return nil, internalError("create user", err)
	}
	log.Printf("DEBUG: User created with ID=%d", user.ID)
	return user, nil
}

func (us *UserService) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}

	err := inTransaction(ctx, "update user", func(tx *gorm.DB, _ *eventBatch) error {
		var stored models.User
		if err := takeForUpdate(tx, &stored, user.ID, "user"); err != nil {
			return err
		}
		return tx.Model(&stored).Select("email", "login", "name", "birthday").Updates(user).Error
	})
	if err != nil {
		return nil, err
	}
	return us.GetUser(ctx, user.ID)
}

func (us *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("user %d not found", userID)
	}
	if err != nil {
		return nil, internalError("get user", err)
	}
	return &user, nil
}

func (us *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := db.GetReadOnlyDB(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, internalError("list users", err)
	}
	return users, nil
}

// DeleteUser удаляет пользователя вместе с дружбами, лайками, отзывами и реакциями.
// Реакции пользователя на чужие отзывы снимаются через журнал, чтобы полезность осталась согласованной
func (us *UserService) DeleteUser(ctx context.Context, userID int64) error {
	return inTransaction(ctx, "delete user", func(tx *gorm.DB, _ *eventBatch) error {
		var user models.User
		if err := takeForUpdate(tx, &user, userID, "user"); err != nil {
			return err
		}

		deltas, err := us.ledger.ClearAll(tx, userID)
		if err != nil {
			return err
		}
		for reviewID, delta := range deltas {
			if delta == 0 {
				continue
			}
			err := tx.Model(&models.Review{}).Where("id = ?", reviewID).
				Update("useful", gorm.Expr("useful + ?", delta)).Error
			if err != nil {
				return err
			}
		}

		var reviewIDs []int64
		if err := tx.Model(&models.Review{}).Where("user_id = ?", userID).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if err := deleteReviews(tx, reviewIDs); err != nil {
			return err
		}
		if err := deleteFriendships(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.FilmLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}
