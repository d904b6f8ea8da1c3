package services

import (
	"context"
	"errors"
	"strings"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

type DirectorService struct{}

func NewDirectorService() *DirectorService {
	return &DirectorService{}
}

func (ds *DirectorService) CreateDirector(ctx context.Context, name string) (*models.Director, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("director name must not be blank")
	}
	director := &models.Director{Name: name}
	if err := db.GetWriteDB(ctx).Create(director).Error; err != nil {
		return nil, internalError("create director", err)
	}
	return director, nil
}

func (ds *DirectorService) UpdateDirector(ctx context.Context, director *models.Director) (*models.Director, error) {
	if strings.TrimSpace(director.Name) == "" {
		return nil, validationError("director name must not be blank")
	}
	err := inTransaction(ctx, "update director", func(tx *gorm.DB, _ *eventBatch) error {
		if err := requireDirector(tx, director.ID); err != nil {
			return err
		}
		return tx.Model(&models.Director{}).Where("id = ?", director.ID).Update("name", director.Name).Error
	})
	if err != nil {
		return nil, err
	}
	return director, nil
}

func (ds *DirectorService) GetDirector(ctx context.Context, directorID int64) (*models.Director, error) {
	var director models.Director
	err := db.GetReadOnlyDB(ctx).Where("id = ?", directorID).Take(&director).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("director %d not found", directorID)
	}
	if err != nil {
		return nil, internalError("get director", err)
	}
	return &director, nil
}

func (ds *DirectorService) ListDirectors(ctx context.Context) ([]models.Director, error) {
	directors := []models.Director{}
	if err := db.GetReadOnlyDB(ctx).Order("id").Find(&directors).Error; err != nil {
		return nil, internalError("list directors", err)
	}
	return directors, nil
}

// DeleteDirector удаляет режиссёра и его связи с фильмами
func (ds *DirectorService) DeleteDirector(ctx context.Context, directorID int64) error {
	return inTransaction(ctx, "delete director", func(tx *gorm.DB, _ *eventBatch) error {
		if err := requireDirector(tx, directorID); err != nil {
			return err
		}
		if err := tx.Where("director_id = ?", directorID).Delete(&models.FilmDirector{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", directorID).Delete(&models.Director{}).Error
	})
}
