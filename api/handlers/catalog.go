package handlers

import (
	"net/http"

	"filmorate/services"

	"github.com/gin-gonic/gin"
)

var catalogService = services.NewCatalogService()

func ListGenres(c *gin.Context) {
	genres, err := catalogService.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

func GetGenre(c *gin.Context) {
	genreID, ok := pathID(c, "id")
	if !ok {
		return
	}
	genre, err := catalogService.GetGenre(c.Request.Context(), genreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

func ListMpaRatings(c *gin.Context) {
	ratings, err := catalogService.ListMpaRatings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func GetMpaRating(c *gin.Context) {
	mpaID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rating, err := catalogService.GetMpaRating(c.Request.Context(), mpaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
