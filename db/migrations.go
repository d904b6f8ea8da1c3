package db

import (
	"fmt"
	"log"

	"filmorate/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type migration struct {
	name  string
	apply func(tx *gorm.DB) error
}

// Порядок важен: уже применённые миграции пропускаются по имени
var migrations = []migration{
	{name: "seed_mpa_ratings", apply: seedMpaRatings},
	{name: "seed_genres", apply: seedGenres},
	{name: "popularity_indexes", apply: createPopularityIndexes},
}

// RunMigrations применяет миграции, которых ещё нет в таблице migration
func RunMigrations(database *gorm.DB) error {
	for _, m := range migrations {
		var applied int64
		err := database.Model(&models.Migration{}).Where("name = ?", m.name).Count(&applied).Error
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}
		if applied > 0 {
			continue
		}

		err = database.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return tx.Create(&models.Migration{Name: m.name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
		log.Printf("Migration %s applied", m.name)
	}
	return nil
}

func seedMpaRatings(tx *gorm.DB) error {
	ratings := []models.MpaRating{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ratings).Error
}

func seedGenres(tx *gorm.DB) error {
	genres := []models.Genre{
		{ID: 1, Name: "Комедия"},
		{ID: 2, Name: "Драма"},
		{ID: 3, Name: "Мультфильм"},
		{ID: 4, Name: "Триллер"},
		{ID: 5, Name: "Документальный"},
		{ID: 6, Name: "Боевик"},
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&genres).Error
}

// createPopularityIndexes создаёт индексы для подсчёта лайков и сортировки отзывов
func createPopularityIndexes(tx *gorm.DB) error {
	indexes := map[string]string{
		"idx_film_likes_film_id":    "film_likes (film_id)",
		"idx_reviews_film_useful":   "reviews (film_id, useful)",
		"idx_events_user_id_ts":     "events (user_id, timestamp)",
		"idx_films_release_date_id": "films (release_date, id)",
	}
	for name, target := range indexes {
		createIndexSQL := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s;`, name, target)
		if err := tx.Exec(createIndexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}
	return nil
}
