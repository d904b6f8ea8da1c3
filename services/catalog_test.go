package services

import (
	"context"
	"testing"

	"filmorate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewCatalogService()

	genres, err := cs.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 6)
	assert.Equal(t, "Комедия", genres[0].Name)

	genre, err := cs.GetGenre(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Триллер", genre.Name)
	_, err = cs.GetGenre(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	ratings, err := cs.ListMpaRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.MpaRating{
		{ID: 1, Name: "G"}, {ID: 2, Name: "PG"}, {ID: 3, Name: "PG-13"}, {ID: 4, Name: "R"}, {ID: 5, Name: "NC-17"},
	}, ratings)
	_, err = cs.GetMpaRating(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirectorCRUD(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ds := NewDirectorService()

	_, err := ds.CreateDirector(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	director, err := ds.CreateDirector(ctx, "Alexei Balabanov")
	require.NoError(t, err)

	film := fakeFilm()
	film.Directors = []models.Director{{ID: director.ID}}
	film, err = NewFilmService().CreateFilm(ctx, film)
	require.NoError(t, err)

	updated, err := ds.UpdateDirector(ctx, &models.Director{ID: director.ID, Name: "A. Balabanov"})
	require.NoError(t, err)
	assert.Equal(t, "A. Balabanov", updated.Name)
	_, err = ds.UpdateDirector(ctx, &models.Director{ID: 9999, Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	directors, err := ds.ListDirectors(ctx)
	require.NoError(t, err)
	require.Len(t, directors, 1)

	require.NoError(t, ds.DeleteDirector(ctx, director.ID))
	_, err = ds.GetDirector(ctx, director.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	reloaded, err := NewFilmService().GetFilm(ctx, film.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Directors)
}
