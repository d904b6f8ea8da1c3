package handlers

import (
	"net/http"

	"filmorate/services"

	"github.com/gin-gonic/gin"
)

var friendService = services.NewFriendService()

// friendPair читает :id и второй параметр пути
func friendPair(c *gin.Context, other string) (int64, int64, bool) {
	userID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	otherID, ok := pathID(c, other)
	if !ok {
		return 0, 0, false
	}
	return userID, otherID, true
}

// AddFriend - PUT /users/:id/friends/:friendId
func AddFriend(c *gin.Context) {
	userID, friendID, ok := friendPair(c, "friendId")
	if !ok {
		return
	}
	if err := friendService.AddFriend(c.Request.Context(), userID, friendID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// DeleteFriend - DELETE /users/:id/friends/:friendId
func DeleteFriend(c *gin.Context) {
	userID, friendID, ok := friendPair(c, "friendId")
	if !ok {
		return
	}
	if err := friendService.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func GetFriends(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	friends, err := friendService.GetFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func GetCommonFriends(c *gin.Context) {
	userID, otherID, ok := friendPair(c, "otherId")
	if !ok {
		return
	}
	common, err := friendService.GetCommonFriends(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common)
}
