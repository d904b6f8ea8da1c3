package handlers

import (
	"net/http"

	"filmorate/models"
	"filmorate/services"

	"github.com/gin-gonic/gin"
)

var directorService = services.NewDirectorService()

type DirectorRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" binding:"notblank"`
}

func CreateDirector(c *gin.Context) {
	var req DirectorRequest
	if !bindJSON(c, &req) {
		return
	}
	director, err := directorService.CreateDirector(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, director)
}

func UpdateDirector(c *gin.Context) {
	var req DirectorRequest
	if !bindJSON(c, &req) {
		return
	}
	director, err := directorService.UpdateDirector(c.Request.Context(), &models.Director{ID: req.ID, Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, director)
}

func GetDirector(c *gin.Context) {
	directorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	director, err := directorService.GetDirector(c.Request.Context(), directorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, director)
}

func ListDirectors(c *gin.Context) {
	directors, err := directorService.ListDirectors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, directors)
}

func DeleteDirector(c *gin.Context) {
	directorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := directorService.DeleteDirector(c.Request.Context(), directorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
