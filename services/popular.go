package services

import (
	"context"
	"strings"
	"time"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
)

// PopularFilter - необязательные фильтры выдачи популярных фильмов
type PopularFilter struct {
	GenreID *int64
	Year    *int
}

// PopularityRanker упорядочивает фильмы по числу лайков (по убыванию),
// при равенстве - по id фильма (по возрастанию). Фильмы без лайков тоже попадают в выдачу
type PopularityRanker struct{}

func NewPopularityRanker() *PopularityRanker {
	return &PopularityRanker{}
}

// rankedQuery - id фильмов в порядке популярности; условия добавляются поверх
func rankedQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("films f").
		Joins("LEFT JOIN film_likes fl ON fl.film_id = f.id").
		Group("f.id").
		Order("COUNT(fl.user_id) DESC").
		Order("f.id ASC")
}

func rankedFilms(tx *gorm.DB, query *gorm.DB) ([]models.Film, error) {
	var ids []int64
	if err := query.Pluck("f.id", &ids).Error; err != nil {
		return nil, err
	}
	return loadFilms(tx, ids)
}

func (pr *PopularityRanker) GetPopular(ctx context.Context, limit int, filter PopularFilter) ([]models.Film, error) {
	if limit <= 0 {
		return nil, validationError("count must be positive")
	}

	readDB := db.GetReadOnlyDB(ctx)
	query := rankedQuery(readDB)
	if filter.GenreID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = f.id AND fg.genre_id = ?)", *filter.GenreID)
	}
	if filter.Year != nil {
		from := time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		query = query.Where("f.release_date >= ? AND f.release_date < ?", from, to)
	}

	films, err := rankedFilms(readDB, query.Limit(limit))
	if err != nil {
		return nil, internalError("get popular films", err)
	}
	return films, nil
}

// GetCommonFilms - фильмы, которые лайкнули оба пользователя, по популярности
func (pr *PopularityRanker) GetCommonFilms(ctx context.Context, userID, friendID int64) ([]models.Film, error) {
	readDB := db.GetReadOnlyDB(ctx)
	if err := requireUsers(readDB, userID, friendID); err != nil {
		return nil, err
	}

	query := rankedQuery(readDB).
		Where("EXISTS (SELECT 1 FROM film_likes a WHERE a.film_id = f.id AND a.user_id = ?)", userID).
		Where("EXISTS (SELECT 1 FROM film_likes b WHERE b.film_id = f.id AND b.user_id = ?)", friendID)
	films, err := rankedFilms(readDB, query)
	if err != nil {
		return nil, internalError("get common films", err)
	}
	return films, nil
}

// Search ищет подстроку в названии фильма и/или имени режиссёра без учёта регистра
func (pr *PopularityRanker) Search(ctx context.Context, text string, by []string) ([]models.Film, error) {
	var byTitle, byDirector bool
	for _, b := range by {
		switch strings.TrimSpace(strings.ToLower(b)) {
		case "title":
			byTitle = true
		case "director":
			byDirector = true
		default:
			return nil, validationError("unsupported search field %q", b)
		}
	}
	if !byTitle && !byDirector {
		return nil, validationError("search field is required")
	}

	pattern := "%" + strings.ToLower(text) + "%"
	var conditions []string
	var args []interface{}
	if byTitle {
		conditions = append(conditions, "LOWER(f.name) LIKE ?")
		args = append(args, pattern)
	}
	if byDirector {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM film_directors fd JOIN directors d ON d.id = fd.director_id WHERE fd.film_id = f.id AND LOWER(d.name) LIKE ?)")
		args = append(args, pattern)
	}

	readDB := db.GetReadOnlyDB(ctx)
	query := rankedQuery(readDB).Where(strings.Join(conditions, " OR "), args...)
	films, err := rankedFilms(readDB, query)
	if err != nil {
		return nil, internalError("search films", err)
	}
	return films, nil
}

// GetDirectorFilms - фильмы режиссёра, sortBy: year (по дате выхода) или likes (по популярности)
func (pr *PopularityRanker) GetDirectorFilms(ctx context.Context, directorID int64, sortBy string) ([]models.Film, error) {
	readDB := db.GetReadOnlyDB(ctx)
	if err := requireDirector(readDB, directorID); err != nil {
		return nil, err
	}

	const byDirector = "EXISTS (SELECT 1 FROM film_directors fd WHERE fd.film_id = f.id AND fd.director_id = ?)"
	var query *gorm.DB
	switch sortBy {
	case "likes":
		query = rankedQuery(readDB).Where(byDirector, directorID)
	case "year", "":
		query = readDB.Table("films f").Where(byDirector, directorID).Order("f.release_date ASC").Order("f.id ASC")
	default:
		return nil, validationError("unsupported sortBy %q", sortBy)
	}

	films, err := rankedFilms(readDB, query)
	if err != nil {
		return nil, internalError("get director films", err)
	}
	return films, nil
}

// GetRecommendations рекомендует фильмы, которые лайкнули пользователи с наибольшим
// пересечением лайков, но ещё не лайкнул сам пользователь
func (pr *PopularityRanker) GetRecommendations(ctx context.Context, userID int64) ([]models.Film, error) {
	readDB := db.GetReadOnlyDB(ctx)
	if err := requireUser(readDB, userID); err != nil {
		return nil, err
	}

	type overlap struct {
		UserID int64
		Common int64
	}
	var overlaps []overlap
	err := readDB.Table("film_likes mine").
		Select("other.user_id AS user_id, COUNT(*) AS common").
		Joins("JOIN film_likes other ON other.film_id = mine.film_id AND other.user_id <> mine.user_id").
		Where("mine.user_id = ?", userID).
		Group("other.user_id").
		Order("common DESC").
		Scan(&overlaps).Error
	if err != nil {
		return nil, internalError("find similar users", err)
	}
	if len(overlaps) == 0 {
		return []models.Film{}, nil
	}

	similar := make([]int64, 0, len(overlaps))
	for _, o := range overlaps {
		if o.Common < overlaps[0].Common {
			break
		}
		similar = append(similar, o.UserID)
	}

	query := rankedQuery(readDB).
		Where("EXISTS (SELECT 1 FROM film_likes s WHERE s.film_id = f.id AND s.user_id IN ?)", similar).
		Where("NOT EXISTS (SELECT 1 FROM film_likes m WHERE m.film_id = f.id AND m.user_id = ?)", userID)
	films, err := rankedFilms(readDB, query)
	if err != nil {
		return nil, internalError("get recommendations", err)
	}
	return films, nil
}
