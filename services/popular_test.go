package services

import (
	"context"
	"testing"
	"time"

	"filmorate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPopularOrdersByLikes(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	pr := NewPopularityRanker()

	u1, u2, u3 := createUser(t), createUser(t), createUser(t)
	a, b, c := createFilm(t), createFilm(t), createFilm(t)
	likeFilm(t, c.ID, u1)
	likeFilm(t, a.ID, u1, u2, u3)
	likeFilm(t, b.ID, u2, u3)
	// повторный лайк не считается
	likeFilm(t, c.ID, u1)

	films, err := pr.GetPopular(ctx, 3, PopularFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, filmIDs(films))

	films, err = pr.GetPopular(ctx, 2, PopularFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, filmIDs(films))
}

func TestGetPopularTieBreakAndZeroLikes(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	pr := NewPopularityRanker()

	u := createUser(t)
	first, second, third, fourth := createFilm(t), createFilm(t), createFilm(t), createFilm(t)
	likeFilm(t, fourth.ID, u)
	likeFilm(t, second.ID, u)

	films, err := pr.GetPopular(ctx, 10, PopularFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID, fourth.ID, first.ID, third.ID}, filmIDs(films))

	_, err = pr.GetPopular(ctx, 0, PopularFilter{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetPopularFilters(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	pr := NewPopularityRanker()
	fs := NewFilmService()

	newFilm := func(year int, genres ...int64) *models.Film {
		film := fakeFilm(genres...)
		film.ReleaseDate = models.NewDate(year, time.June, 15)
		created, err := fs.CreateFilm(ctx, film)
		require.NoError(t, err)
		return created
	}
	comedy1999 := newFilm(1999, 1)
	drama1999 := newFilm(1999, 2)
	comedyDrama2005 := newFilm(2005, 1, 2)
	edgeOfYear := fakeFilm(1)
	edgeOfYear.ReleaseDate = models.NewDate(1999, time.December, 31)
	edge, err := fs.CreateFilm(ctx, edgeOfYear)
	require.NoError(t, err)

	u1, u2 := createUser(t), createUser(t)
	likeFilm(t, comedyDrama2005.ID, u1, u2)
	likeFilm(t, drama1999.ID, u1)

	comedy := int64(1)
	year := 1999

	films, err := pr.GetPopular(ctx, 10, PopularFilter{GenreID: &comedy})
	require.NoError(t, err)
	assert.Equal(t, []int64{comedyDrama2005.ID, comedy1999.ID, edge.ID}, filmIDs(films))

	films, err = pr.GetPopular(ctx, 10, PopularFilter{Year: &year})
	require.NoError(t, err)
	assert.Equal(t, []int64{drama1999.ID, comedy1999.ID, edge.ID}, filmIDs(films))

	films, err = pr.GetPopular(ctx, 10, PopularFilter{GenreID: &comedy, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, []int64{comedy1999.ID, edge.ID}, filmIDs(films))

	unknownGenre := int64(99)
	films, err = pr.GetPopular(ctx, 10, PopularFilter{GenreID: &unknownGenre})
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestGetPopularLoadsFilmDetails(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	film := createFilm(t, 3, 1, 3)
	films, err := NewPopularityRanker().GetPopular(ctx, 1, PopularFilter{})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, film.ID, films[0].ID)
	assert.Equal(t, film.MpaID, films[0].Mpa.ID)
	assert.NotEmpty(t, films[0].Mpa.Name)
	require.Len(t, films[0].Genres, 2)
	assert.EqualValues(t, 1, films[0].Genres[0].ID)
	assert.EqualValues(t, 3, films[0].Genres[1].ID)
	assert.NotNil(t, films[0].Directors)
}

func TestCommonFilms(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	pr := NewPopularityRanker()

	a, b, other := createUser(t), createUser(t), createUser(t)
	shared, popularShared, onlyA := createFilm(t), createFilm(t), createFilm(t)
	likeFilm(t, shared.ID, a, b)
	likeFilm(t, popularShared.ID, a, b, other)
	likeFilm(t, onlyA.ID, a)

	films, err := pr.GetCommonFilms(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{popularShared.ID, shared.ID}, filmIDs(films))

	_, err = pr.GetCommonFilms(ctx, a.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAndDirectorFilms(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	pr := NewPopularityRanker()
	fs := NewFilmService()

	director, err := NewDirectorService().CreateDirector(ctx, "Andrei Tarkovsky")
	require.NoError(t, err)

	solaris := fakeFilm()
	solaris.Name = "Солярис"
	solaris.ReleaseDate = models.NewDate(1972, time.March, 20)
	solaris.Directors = []models.Director{{ID: director.ID}}
	solaris, err = fs.CreateFilm(ctx, solaris)
	require.NoError(t, err)

	stalker := fakeFilm()
	stalker.Name = "Сталкер"
	stalker.ReleaseDate = models.NewDate(1979, time.May, 25)
	stalker.Directors = []models.Director{{ID: director.ID}}
	stalker, err = fs.CreateFilm(ctx, stalker)
	require.NoError(t, err)

	unrelated := fakeFilm()
	unrelated.Name = "Crank"
	unrelated, err = fs.CreateFilm(ctx, unrelated)
	require.NoError(t, err)

	likeFilm(t, stalker.ID, createUser(t))

	films, err := pr.GetDirectorFilms(ctx, director.ID, "year")
	require.NoError(t, err)
	assert.Equal(t, []int64{solaris.ID, stalker.ID}, filmIDs(films))

	films, err = pr.GetDirectorFilms(ctx, director.ID, "likes")
	require.NoError(t, err)
	assert.Equal(t, []int64{stalker.ID, solaris.ID}, filmIDs(films))

	_, err = pr.GetDirectorFilms(ctx, director.ID, "rating")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = pr.GetDirectorFilms(ctx, 9999, "year")
	assert.ErrorIs(t, err, ErrNotFound)

	films, err = pr.Search(ctx, "crank", []string{"title"})
	require.NoError(t, err)
	assert.Equal(t, []int64{unrelated.ID}, filmIDs(films))

	films, err = pr.Search(ctx, "TARKOVSKY", []string{"title", "director"})
	require.NoError(t, err)
	assert.Equal(t, []int64{stalker.ID, solaris.ID}, filmIDs(films))

	_, err = pr.Search(ctx, "x", []string{"genre"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecommendations(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	pr := NewPopularityRanker()

	target, similar, stranger := createUser(t), createUser(t), createUser(t)
	f1, f2, f3, f4 := createFilm(t), createFilm(t), createFilm(t), createFilm(t)
	likeFilm(t, f1.ID, target, similar)
	likeFilm(t, f2.ID, target, similar)
	likeFilm(t, f3.ID, similar)
	likeFilm(t, f4.ID, stranger)

	films, err := pr.GetRecommendations(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{f3.ID}, filmIDs(films))

	films, err = pr.GetRecommendations(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, films)

	_, err = pr.GetRecommendations(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
