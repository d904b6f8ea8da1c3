package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"filmorate/db"
	"filmorate/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// setupTestDB поднимает sqlite в памяти со схемой и справочниками
func setupTestDB(t *testing.T) {
	t.Helper()
	database, err := db.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	// Устанавливаем глобальную переменную ORM
	db.ORM = database
	t.Cleanup(func() { _ = db.Close() })
}

func fakeDate(from, to time.Time) models.Date {
	d := gofakeit.DateRange(from, to)
	return models.NewDate(d.Year(), d.Month(), d.Day())
}

func fakeUser() *models.User {
	login := strings.ToLower(gofakeit.FirstName()) + "_" + gofakeit.Numerify("######")
	return &models.User{
		Email:    gofakeit.Email(),
		Login:    strings.ReplaceAll(login, " ", ""),
		Name:     gofakeit.Name(),
		Birthday: fakeDate(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func createUser(t *testing.T) *models.User {
	t.Helper()
	user, err := NewUserService().CreateUser(context.Background(), fakeUser())
	require.NoError(t, err)
	return user
}

func fakeFilm(genreIDs ...int64) *models.Film {
	film := &models.Film{
		Name:        gofakeit.MovieName(),
		Description: gofakeit.LoremIpsumSentence(8),
		ReleaseDate: fakeDate(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		Duration:    gofakeit.Number(60, 200),
		MpaID:       int64(gofakeit.Number(1, 5)),
	}
	if len(film.Description) > maxDescriptionLength {
		film.Description = film.Description[:maxDescriptionLength]
	}
	for _, id := range genreIDs {
		film.Genres = append(film.Genres, models.Genre{ID: id})
	}
	return film
}

func createFilm(t *testing.T, genreIDs ...int64) *models.Film {
	t.Helper()
	film, err := NewFilmService().CreateFilm(context.Background(), fakeFilm(genreIDs...))
	require.NoError(t, err)
	return film
}

func createReview(t *testing.T, userID, filmID int64) *models.Review {
	t.Helper()
	positive := true
	review, err := NewReviewService().CreateReview(context.Background(), ReviewDraft{
		Content:    gofakeit.Sentence(6),
		IsPositive: &positive,
		UserID:     &userID,
		FilmID:     &filmID,
	})
	require.NoError(t, err)
	return review
}

func likeFilm(t *testing.T, filmID int64, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, NewFilmService().AddLike(context.Background(), filmID, u.ID))
	}
}

func filmIDs(films []models.Film) []int64 {
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}

func userIDs(users []models.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
