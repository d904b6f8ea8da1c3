package services

import (
	"context"
	"errors"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

// CatalogService - справочники жанров и рейтингов MPA (заполняются миграциями)
type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

func (cs *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres := []models.Genre{}
	if err := db.GetReadOnlyDB(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, internalError("list genres", err)
	}
	return genres, nil
}

func (cs *CatalogService) GetGenre(ctx context.Context, genreID int64) (*models.Genre, error) {
	var genre models.Genre
	err := db.GetReadOnlyDB(ctx).Where("id = ?", genreID).Take(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("genre %d not found", genreID)
	}
	if err != nil {
		return nil, internalError("get genre", err)
	}
	return &genre, nil
}

func (cs *CatalogService) ListMpaRatings(ctx context.Context) ([]models.MpaRating, error) {
	ratings := []models.MpaRating{}
	if err := db.GetReadOnlyDB(ctx).Order("id").Find(&ratings).Error; err != nil {
		return nil, internalError("list mpa ratings", err)
	}
	return ratings, nil
}

func (cs *CatalogService) GetMpaRating(ctx context.Context, mpaID int64) (*models.MpaRating, error) {
	var rating models.MpaRating
	err := db.GetReadOnlyDB(ctx).Where("id = ?", mpaID).Take(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("mpa rating %d not found", mpaID)
	}
	if err != nil {
		return nil, internalError("get mpa rating", err)
	}
	return &rating, nil
}
