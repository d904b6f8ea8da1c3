package services

import (
	"context"
	"math/rand"
	"os"
	"sync"
	"testing"

	"filmorate/db"
	"filmorate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

// signedSum - сумма активных реакций на отзыв по данным хранилища
func signedSum(t *testing.T, reviewID int64) int64 {
	t.Helper()
	var sum int64
	err := db.ORM.Model(&models.ReviewReaction{}).
		Select("COALESCE(SUM(polarity), 0)").
		Where("review_id = ?", reviewID).
		Scan(&sum).Error
	require.NoError(t, err)
	return sum
}

func storedUseful(t *testing.T, reviewID int64) int64 {
	t.Helper()
	review, err := NewReviewService().GetReview(context.Background(), reviewID)
	require.NoError(t, err)
	return review.Useful
}

func TestReviewUsefulnessScenario(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	user := createUser(t)
	film := createFilm(t)

	positive := true
	review, err := rs.CreateReview(ctx, ReviewDraft{
		Content:    "Nice movie",
		IsPositive: &positive,
		UserID:     &user.ID,
		FilmID:     &film.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, review.Useful)
	assert.Zero(t, signedSum(t, review.ID))

	review, err = rs.AddLike(ctx, review.ID, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, review.Useful)

	review, err = rs.AddDislike(ctx, review.ID, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -1, review.Useful)

	review, err = rs.RemoveDislike(ctx, review.ID, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, review.Useful)
	assert.EqualValues(t, 0, storedUseful(t, review.ID))
}

func TestReviewLikeIsIdempotent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author, reader := createUser(t), createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)

	first, err := rs.AddLike(ctx, review.ID, reader.ID)
	require.NoError(t, err)
	second, err := rs.AddLike(ctx, review.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Useful, second.Useful)
	assert.EqualValues(t, 1, storedUseful(t, review.ID))
}

func TestReviewReactionRoundTrip(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author, a, b := createUser(t), createUser(t), createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)

	_, err := rs.AddDislike(ctx, review.ID, a.ID)
	require.NoError(t, err)
	_, err = rs.AddLike(ctx, review.ID, b.ID)
	require.NoError(t, err)
	original := storedUseful(t, review.ID)

	_, err = rs.AddDislike(ctx, review.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, original-2, storedUseful(t, review.ID))

	_, err = rs.AddLike(ctx, review.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, original, storedUseful(t, review.ID))
}

func TestRemoveDislikeOnLikeIsNoop(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author, reader := createUser(t), createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)

	_, err := rs.AddLike(ctx, review.ID, reader.ID)
	require.NoError(t, err)

	updated, err := rs.RemoveDislike(ctx, review.ID, reader.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.Useful)

	var reaction models.ReviewReaction
	require.NoError(t, db.ORM.Where("review_id = ? AND user_id = ?", review.ID, reader.ID).Take(&reaction).Error)
	assert.EqualValues(t, PolarityLike, reaction.Polarity)

	// снимать нечего
	updated, err = rs.RemoveLike(ctx, review.ID, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.Useful)
}

func TestUsefulnessMatchesReactionsForRandomSequences(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author := createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)
	users := make([]*models.User, 5)
	for i := range users {
		users[i] = createUser(t)
	}

	ops := []func(context.Context, int64, int64) (*models.Review, error){
		rs.AddLike, rs.AddDislike, rs.RemoveLike, rs.RemoveDislike,
	}
	rnd := rand.New(rand.NewSource(42))
	for step := 0; step < 200; step++ {
		user := users[rnd.Intn(len(users))]
		op := ops[rnd.Intn(len(ops))]

		updated, err := op(ctx, review.ID, user.ID)
		require.NoError(t, err)
		expected := signedSum(t, review.ID)
		require.Equal(t, expected, updated.Useful, "step %d", step)
		require.Equal(t, expected, storedUseful(t, review.ID), "step %d", step)
	}
}

func TestConcurrentReactionsKeepUsefulnessConsistent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author := createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)
	users := make([]*models.User, 8)
	for i := range users {
		users[i] = createUser(t)
	}

	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = rs.AddLike(ctx, review.ID, userID)
			} else {
				_, err = rs.AddDislike(ctx, review.ID, userID)
			}
			assert.NoError(t, err)
		}(i, u.ID)
	}
	wg.Wait()

	assert.EqualValues(t, 0, storedUseful(t, review.ID))
	assert.Equal(t, signedSum(t, review.ID), storedUseful(t, review.ID))
}

// На sqlite пул из одного соединения сам сериализует транзакции,
// блокировка строки отзыва проверяется только на postgres.
func TestConcurrentReactionsOnPostgres(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	database, err := db.Open(postgres.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	db.ORM = database
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	rs := NewReviewService()

	author := createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)
	users := make([]*models.User, 16)
	for i := range users {
		users[i] = createUser(t)
	}

	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			for round := 0; round < 5; round++ {
				var err error
				switch (i + round) % 3 {
				case 0:
					_, err = rs.AddLike(ctx, review.ID, userID)
				case 1:
					_, err = rs.AddDislike(ctx, review.ID, userID)
				default:
					_, err = rs.RemoveLike(ctx, review.ID, userID)
				}
				assert.NoError(t, err)
			}
		}(i, u.ID)
	}
	wg.Wait()

	assert.Equal(t, signedSum(t, review.ID), storedUseful(t, review.ID))
}

func TestCreateReviewValidation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	user := createUser(t)
	film := createFilm(t)
	positive := false
	missing := int64(9999)

	tests := []struct {
		name  string
		draft ReviewDraft
		want  error
	}{
		{"blank content", ReviewDraft{Content: "   ", IsPositive: &positive, UserID: &user.ID, FilmID: &film.ID}, ErrValidation},
		{"no isPositive", ReviewDraft{Content: "ok", UserID: &user.ID, FilmID: &film.ID}, ErrValidation},
		{"no userId", ReviewDraft{Content: "ok", IsPositive: &positive, FilmID: &film.ID}, ErrValidation},
		{"no filmId", ReviewDraft{Content: "ok", IsPositive: &positive, UserID: &user.ID}, ErrValidation},
		{"unknown user", ReviewDraft{Content: "ok", IsPositive: &positive, UserID: &missing, FilmID: &film.ID}, ErrNotFound},
		{"unknown film", ReviewDraft{Content: "ok", IsPositive: &positive, UserID: &user.ID, FilmID: &missing}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rs.CreateReview(ctx, tt.draft)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, db.ORM.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReactionOnUnknownEntities(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	user := createUser(t)
	review := createReview(t, user.ID, createFilm(t).ID)

	_, err := rs.AddLike(ctx, 9999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = rs.AddDislike(ctx, review.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = rs.RemoveLike(ctx, review.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 0, storedUseful(t, review.ID))
}

func TestUpdateReviewKeepsUsefulness(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author, reader := createUser(t), createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)
	_, err := rs.AddLike(ctx, review.ID, reader.ID)
	require.NoError(t, err)

	content := "Changed my mind"
	negative := false
	updated, err := rs.UpdateReview(ctx, review.ID, ReviewPatch{Content: &content, IsPositive: &negative})
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)
	assert.False(t, updated.IsPositive)
	assert.EqualValues(t, 1, updated.Useful)

	// частичное обновление
	other := "Only text"
	updated, err = rs.UpdateReview(ctx, review.ID, ReviewPatch{Content: &other})
	require.NoError(t, err)
	assert.False(t, updated.IsPositive)
	assert.Equal(t, author.ID, updated.UserID)

	blank := " "
	_, err = rs.UpdateReview(ctx, review.ID, ReviewPatch{Content: &blank})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = rs.UpdateReview(ctx, 9999, ReviewPatch{Content: &other})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReviewCascadesReactions(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author, reader := createUser(t), createUser(t)
	review := createReview(t, author.ID, createFilm(t).ID)
	_, err := rs.AddDislike(ctx, review.ID, reader.ID)
	require.NoError(t, err)

	require.NoError(t, rs.DeleteReview(ctx, review.ID))

	_, err = rs.GetReview(ctx, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, signedSum(t, review.ID))
	assert.ErrorIs(t, rs.DeleteReview(ctx, review.ID), ErrNotFound)
}

func TestListReviewsOrdering(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewReviewService()

	author, a, b := createUser(t), createUser(t), createUser(t)
	film, other := createFilm(t), createFilm(t)

	first := createReview(t, author.ID, film.ID)
	second := createReview(t, author.ID, film.ID)
	third := createReview(t, author.ID, film.ID)
	foreign := createReview(t, author.ID, other.ID)

	for _, u := range []*models.User{a, b} {
		_, err := rs.AddLike(ctx, third.ID, u.ID)
		require.NoError(t, err)
	}
	_, err := rs.AddDislike(ctx, first.ID, a.ID)
	require.NoError(t, err)
	_, err = rs.AddLike(ctx, foreign.ID, a.ID)
	require.NoError(t, err)

	reviews, err := rs.ListReviews(ctx, &film.ID, 10)
	require.NoError(t, err)
	ids := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, ids)

	all, err := rs.ListReviews(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, foreign.ID, all[1].ID)

	_, err = rs.ListReviews(ctx, nil, 0)
	assert.ErrorIs(t, err, ErrValidation)
}
