package routes

import (
	"filmorate/api/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine) {
	users := router.Group("/users")
	{
		users.POST("", handlers.CreateUser)
		users.PUT("", handlers.UpdateUser)
		users.GET("", handlers.ListUsers)
		users.GET("/:id", handlers.GetUser)
		users.DELETE("/:id", handlers.DeleteUser)

		// Друзья
		users.PUT("/:id/friends/:friendId", handlers.AddFriend)
		users.DELETE("/:id/friends/:friendId", handlers.DeleteFriend)
		users.GET("/:id/friends", handlers.GetFriends)
		users.GET("/:id/friends/common/:otherId", handlers.GetCommonFriends)

		// Лента и рекомендации
		users.GET("/:id/feed", handlers.GetFeed)
		users.GET("/:id/feed/ws", handlers.WSFeedHandler)
		users.GET("/:id/recommendations", handlers.GetRecommendations)
	}

	films := router.Group("/films")
	{
		films.POST("", handlers.CreateFilm)
		films.PUT("", handlers.UpdateFilm)
		films.GET("", handlers.ListFilms)
		films.GET("/popular", handlers.GetPopularFilms)
		films.GET("/common", handlers.GetCommonFilms)
		films.GET("/search", handlers.SearchFilms)
		films.GET("/director/:directorId", handlers.GetDirectorFilms)
		films.GET("/:id", handlers.GetFilm)
		films.DELETE("/:id", handlers.DeleteFilm)
		films.PUT("/:id/like/:userId", handlers.LikeFilm)
		films.DELETE("/:id/like/:userId", handlers.UnlikeFilm)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", handlers.CreateReview)
		reviews.PUT("", handlers.UpdateReview)
		reviews.GET("", handlers.ListReviews)
		reviews.GET("/:id", handlers.GetReview)
		reviews.DELETE("/:id", handlers.DeleteReview)
		reviews.PUT("/:id/like/:userId", handlers.LikeReview)
		reviews.DELETE("/:id/like/:userId", handlers.RemoveReviewLike)
		reviews.PUT("/:id/dislike/:userId", handlers.DislikeReview)
		reviews.DELETE("/:id/dislike/:userId", handlers.RemoveReviewDislike)
	}

	directors := router.Group("/directors")
	{
		directors.POST("", handlers.CreateDirector)
		directors.PUT("", handlers.UpdateDirector)
		directors.GET("", handlers.ListDirectors)
		directors.GET("/:id", handlers.GetDirector)
		directors.DELETE("/:id", handlers.DeleteDirector)
	}

	router.GET("/genres", handlers.ListGenres)
	router.GET("/genres/:id", handlers.GetGenre)
	router.GET("/mpa", handlers.ListMpaRatings)
	router.GET("/mpa/:id", handlers.GetMpaRating)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
