package handlers

import (
	"net/http"
	"time"

	"filmorate/api/middleware"
	"filmorate/models"
	"filmorate/services"

	"github.com/gin-gonic/gin"
)

var reviewService = services.NewReviewService()

type CreateReviewRequest struct {
	Content    string `json:"content" binding:"notblank"`
	IsPositive *bool  `json:"isPositive" binding:"required"`
	UserID     *int64 `json:"userId" binding:"required"`
	FilmID     *int64 `json:"filmId" binding:"required"`
}

// UpdateReviewRequest - автор и фильм отзыва не меняются, их значения в теле игнорируются
type UpdateReviewRequest struct {
	ReviewID   int64   `json:"reviewId" binding:"required"`
	Content    *string `json:"content" binding:"omitempty,notblank"`
	IsPositive *bool   `json:"isPositive"`
}

func CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := reviewService.CreateReview(c.Request.Context(), services.ReviewDraft{
		Content:    req.Content,
		IsPositive: req.IsPositive,
		UserID:     req.UserID,
		FilmID:     req.FilmID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func UpdateReview(c *gin.Context) {
	var req UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := reviewService.UpdateReview(c.Request.Context(), req.ReviewID, services.ReviewPatch{
		Content:    req.Content,
		IsPositive: req.IsPositive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func GetReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	review, err := reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func DeleteReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := reviewService.DeleteReview(c.Request.Context(), reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListReviews - GET /reviews?filmId=&count=
func ListReviews(c *gin.Context) {
	filmID, ok := queryID(c, "filmId")
	if !ok {
		return
	}
	count, ok := queryInt(c, "count", services.DefaultListLimit)
	if !ok {
		return
	}
	reviews, err := reviewService.ListReviews(c.Request.Context(), filmID, count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type reactionFunc func(svc *services.ReviewService, c *gin.Context, reviewID, userID int64) (*models.Review, error)

// reviewReaction собирает обработчик PUT|DELETE /reviews/:id/like|dislike/:userId
func reviewReaction(operation string, fn reactionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, ok := pathID(c, "id")
		if !ok {
			return
		}
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}

		start := time.Now()
		review, err := fn(reviewService, c, reviewID, userID)
		middleware.RecordReviewReaction(operation, errorClass(err), middleware.ServiceName, time.Since(start))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

var (
	LikeReview = reviewReaction("add_like", func(svc *services.ReviewService, c *gin.Context, reviewID, userID int64) (*models.Review, error) {
		return svc.AddLike(c.Request.Context(), reviewID, userID)
	})
	DislikeReview = reviewReaction("add_dislike", func(svc *services.ReviewService, c *gin.Context, reviewID, userID int64) (*models.Review, error) {
		return svc.AddDislike(c.Request.Context(), reviewID, userID)
	})
	RemoveReviewLike = reviewReaction("remove_like", func(svc *services.ReviewService, c *gin.Context, reviewID, userID int64) (*models.Review, error) {
		return svc.RemoveLike(c.Request.Context(), reviewID, userID)
	})
	RemoveReviewDislike = reviewReaction("remove_dislike", func(svc *services.ReviewService, c *gin.Context, reviewID, userID int64) (*models.Review, error) {
		return svc.RemoveDislike(c.Request.Context(), reviewID, userID)
	})
)
