package services

import (
	"context"
	"strings"
	"time"

	"filmorate/db"
	"filmorate/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxDescriptionLength = 200

// Дата первого киносеанса, раньше неё фильмов не бывает
var cinemaBirthday = models.NewDate(1895, time.December, 28)

type FilmService struct{}

func NewFilmService() *FilmService {
	return &FilmService{}
}

func validateFilm(film *models.Film) error {
	if strings.TrimSpace(film.Name) == "" {
		return validationError("film name must not be blank")
	}
	if len([]rune(film.Description)) > maxDescriptionLength {
		return validationError("description must be at most %d characters", maxDescriptionLength)
	}
	if film.ReleaseDate.IsZero() {
		return validationError("releaseDate is required")
	}
	if film.ReleaseDate.Before(cinemaBirthday) {
		return validationError("releaseDate must not be before %s", cinemaBirthday)
	}
	if film.Duration <= 0 {
		return validationError("duration must be positive")
	}
	if film.MpaID == 0 {
		return validationError("mpa is required")
	}
	return nil
}

func genreIDs(film *models.Film) []int64 {
	ids := make([]int64, 0, len(film.Genres))
	for _, g := range film.Genres {
		ids = append(ids, g.ID)
	}
	return uniqueIDs(ids)
}

func directorIDs(film *models.Film) []int64 {
	ids := make([]int64, 0, len(film.Directors))
	for _, d := range film.Directors {
		ids = append(ids, d.ID)
	}
	return uniqueIDs(ids)
}

// checkFilmRefs проверяет рейтинг, жанры и режиссёров фильма
func checkFilmRefs(tx *gorm.DB, film *models.Film) error {
	if err := requireMpa(tx, film.MpaID); err != nil {
		return err
	}
	if err := requireAll(tx, &models.Genre{}, "genre", genreIDs(film)); err != nil {
		return err
	}
	return requireAll(tx, &models.Director{}, "director", directorIDs(film))
}

// replaceFilmLinks перезаписывает связи фильма с жанрами и режиссёрами
func replaceFilmLinks(tx *gorm.DB, film *models.Film) error {
	if err := tx.Where("film_id = ?", film.ID).Delete(&models.FilmGenre{}).Error; err != nil {
		return err
	}
	if err := tx.Where("film_id = ?", film.ID).Delete(&models.FilmDirector{}).Error; err != nil {
		return err
	}

	if ids := genreIDs(film); len(ids) > 0 {
		links := make([]models.FilmGenre, 0, len(ids))
		for _, id := range ids {
			links = append(links, models.FilmGenre{FilmID: film.ID, GenreID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	if ids := directorIDs(film); len(ids) > 0 {
		links := make([]models.FilmDirector, 0, len(ids))
		for _, id := range ids {
			links = append(links, models.FilmDirector{FilmID: film.ID, DirectorID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	return nil
}

func (fs *FilmService) CreateFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	if err := validateFilm(film); err != nil {
		return nil, err
	}
	film.ID = 0

	err := inTransaction(ctx, "create film", func(tx *gorm.DB, _ *eventBatch) error {
		if err := checkFilmRefs(tx, film); err != nil {
			return err
		}
		// связи пишем сами, чтобы gorm не создавал жанры и рейтинги по ссылкам
		if err := tx.Omit(clause.Associations).Create(film).Error; err != nil {
			return err
		}
		return replaceFilmLinks(tx, film)
	})
	if err != nil {
		return nil, err
	}
	return fs.GetFilm(ctx, film.ID)
}

func (fs *FilmService) UpdateFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	if err := validateFilm(film); err != nil {
		return nil, err
	}

	err := inTransaction(ctx, "update film", func(tx *gorm.DB, _ *eventBatch) error {
		var stored models.Film
		if err := takeForUpdate(tx, &stored, film.ID, "film"); err != nil {
			return err
		}
		if err := checkFilmRefs(tx, film); err != nil {
			return err
		}
		err := tx.Model(&stored).Omit(clause.Associations).
			Select("name", "description", "release_date", "duration", "mpa_id").
			Updates(film).Error
		if err != nil {
			return err
		}
		return replaceFilmLinks(tx, film)
	})
	if err != nil {
		return nil, err
	}
	return fs.GetFilm(ctx, film.ID)
}

func (fs *FilmService) GetFilm(ctx context.Context, filmID int64) (*models.Film, error) {
	films, err := loadFilms(db.GetReadOnlyDB(ctx), []int64{filmID})
	if err != nil {
		return nil, internalError("get film", err)
	}
	if len(films) == 0 {
		return nil, notFoundError("film %d not found", filmID)
	}
	return &films[0], nil
}

func (fs *FilmService) ListFilms(ctx context.Context) ([]models.Film, error) {
	readDB := db.GetReadOnlyDB(ctx)
	var ids []int64
	if err := readDB.Model(&models.Film{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, internalError("list films", err)
	}
	films, err := loadFilms(readDB, ids)
	if err != nil {
		return nil, internalError("list films", err)
	}
	return films, nil
}

// DeleteFilm удаляет фильм со всеми лайками, отзывами и связями
func (fs *FilmService) DeleteFilm(ctx context.Context, filmID int64) error {
	return inTransaction(ctx, "delete film", func(tx *gorm.DB, _ *eventBatch) error {
		var film models.Film
		if err := takeForUpdate(tx, &film, filmID, "film"); err != nil {
			return err
		}

		var reviewIDs []int64
		if err := tx.Model(&models.Review{}).Where("film_id = ?", filmID).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if err := deleteReviews(tx, reviewIDs); err != nil {
			return err
		}
		for _, link := range []interface{}{&models.FilmLike{}, &models.FilmGenre{}, &models.FilmDirector{}} {
			if err := tx.Where("film_id = ?", filmID).Delete(link).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&film).Error
	})
}

// AddLike ставит лайк фильму. Повторный лайк ничего не меняет и событие не пишет
func (fs *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	return inTransaction(ctx, "add film like", func(tx *gorm.DB, events *eventBatch) error {
		if err := requireFilm(tx, filmID); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.FilmLike{FilmID: filmID, UserID: userID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return events.record(tx, userID, models.EventTypeLike, models.OperationAdd, filmID)
	})
}

// RemoveLike снимает лайк. Если лайка не было - ничего не делает
func (fs *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	return inTransaction(ctx, "remove film like", func(tx *gorm.DB, events *eventBatch) error {
		if err := requireFilm(tx, filmID); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		result := tx.Where("film_id = ? AND user_id = ?", filmID, userID).Delete(&models.FilmLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return events.record(tx, userID, models.EventTypeLike, models.OperationRemove, filmID)
	})
}

// loadFilms загружает фильмы с рейтингом, жанрами и режиссёрами в порядке ids
func loadFilms(tx *gorm.DB, ids []int64) ([]models.Film, error) {
	if len(ids) == 0 {
		return []models.Film{}, nil
	}

	var films []models.Film
	err := tx.
		Preload("Mpa").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Preload("Directors", func(db *gorm.DB) *gorm.DB { return db.Order("directors.id") }).
		Where("id IN ?", ids).
		Find(&films).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Film, len(films))
	for _, f := range films {
		if f.Genres == nil {
			f.Genres = []models.Genre{}
		}
		if f.Directors == nil {
			f.Directors = []models.Director{}
		}
		byID[f.ID] = f
	}
	ordered := make([]models.Film, 0, len(films))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered, nil
}
