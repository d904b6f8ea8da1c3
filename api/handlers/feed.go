package handlers

import (
	"net/http"

	"filmorate/services"

	"github.com/gin-gonic/gin"
)

var feedService = services.NewFeedService()

// GetFeed - GET /users/:id/feed
func GetFeed(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	events, err := feedService.GetFeed(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetRecommendations - GET /users/:id/recommendations
func GetRecommendations(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	films, err := popularityRanker.GetRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}
