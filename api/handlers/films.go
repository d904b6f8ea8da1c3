package handlers

import (
	"net/http"
	"strings"

	"filmorate/models"
	"filmorate/services"

	"github.com/gin-gonic/gin"
)

var (
	filmService      = services.NewFilmService()
	popularityRanker = services.NewPopularityRanker()
)

// IDRef - ссылка на справочник в теле запроса: {"id": 1}
type IDRef struct {
	ID int64 `json:"id" binding:"required"`
}

type FilmRequest struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name" binding:"notblank"`
	Description string      `json:"description" binding:"max=200"`
	ReleaseDate models.Date `json:"releaseDate"`
	Duration    int         `json:"duration" binding:"gt=0"`
	Mpa         *IDRef      `json:"mpa" binding:"required"`
	Genres      []IDRef     `json:"genres" binding:"dive"`
	Directors   []IDRef     `json:"directors" binding:"dive"`
}

func (r FilmRequest) toModel() *models.Film {
	film := &models.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
		MpaID:       r.Mpa.ID,
		Genres:      make([]models.Genre, 0, len(r.Genres)),
		Directors:   make([]models.Director, 0, len(r.Directors)),
	}
	for _, g := range r.Genres {
		film.Genres = append(film.Genres, models.Genre{ID: g.ID})
	}
	for _, d := range r.Directors {
		film.Directors = append(film.Directors, models.Director{ID: d.ID})
	}
	return film
}

func CreateFilm(c *gin.Context) {
	var req FilmRequest
	if !bindJSON(c, &req) {
		return
	}
	film, err := filmService.CreateFilm(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, film)
}

func UpdateFilm(c *gin.Context) {
	var req FilmRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Film ID is required"})
		return
	}
	film, err := filmService.UpdateFilm(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

func GetFilm(c *gin.Context) {
	filmID, ok := pathID(c, "id")
	if !ok {
		return
	}
	film, err := filmService.GetFilm(c.Request.Context(), filmID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

func ListFilms(c *gin.Context) {
	films, err := filmService.ListFilms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}

func DeleteFilm(c *gin.Context) {
	filmID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := filmService.DeleteFilm(c.Request.Context(), filmID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// filmLikePair читает :id фильма и :userId
func filmLikePair(c *gin.Context) (int64, int64, bool) {
	filmID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return 0, 0, false
	}
	return filmID, userID, true
}

func LikeFilm(c *gin.Context) {
	filmID, userID, ok := filmLikePair(c)
	if !ok {
		return
	}
	if err := filmService.AddLike(c.Request.Context(), filmID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func UnlikeFilm(c *gin.Context) {
	filmID, userID, ok := filmLikePair(c)
	if !ok {
		return
	}
	if err := filmService.RemoveLike(c.Request.Context(), filmID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetPopularFilms - GET /films/popular?count=&genreId=&year=
func GetPopularFilms(c *gin.Context) {
	count, ok := queryInt(c, "count", services.DefaultListLimit)
	if !ok {
		return
	}
	genreID, ok := queryID(c, "genreId")
	if !ok {
		return
	}
	filter := services.PopularFilter{GenreID: genreID}
	if c.Query("year") != "" {
		year, ok := queryInt(c, "year", 0)
		if !ok {
			return
		}
		filter.Year = &year
	}

	films, err := popularityRanker.GetPopular(c.Request.Context(), count, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}

// GetCommonFilms - GET /films/common?userId=&friendId=
func GetCommonFilms(c *gin.Context) {
	userID, ok := queryID(c, "userId")
	if !ok {
		return
	}
	friendID, ok := queryID(c, "friendId")
	if !ok {
		return
	}
	if userID == nil || friendID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and friendId are required"})
		return
	}

	films, err := popularityRanker.GetCommonFilms(c.Request.Context(), *userID, *friendID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}

// SearchFilms - GET /films/search?query=&by=title,director
func SearchFilms(c *gin.Context) {
	by := c.DefaultQuery("by", "title")
	films, err := popularityRanker.Search(c.Request.Context(), c.Query("query"), strings.Split(by, ","))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}

// GetDirectorFilms - GET /films/director/:directorId?sortBy=year|likes
func GetDirectorFilms(c *gin.Context) {
	directorID, ok := pathID(c, "directorId")
	if !ok {
		return
	}
	films, err := popularityRanker.GetDirectorFilms(c.Request.Context(), directorID, c.Query("sortBy"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}
