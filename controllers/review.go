package controllers

import (
	"net/http"
	"strconv"

	"github.com/stoupi/mmvd-sub000/middleware"
	"github.com/stoupi/mmvd-sub000/services"

	"github.com/gin-gonic/gin"
)

// GetReviews lists the calling reviewer's validated assignments.
func GetReviews(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	windowID := 0
	if raw := c.Query("window_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
			return
		}
		windowID = parsed
	}

	reviews, err := services.NewReviewService(nil).ListForReviewer(userID, windowID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// GetReview returns one validated assignment with its proposal.
func GetReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	review, err := services.NewReviewService(nil).GetForReviewer(reviewID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}

// CompleteReview records the reviewer's assessment.
func CompleteReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var input services.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	review, err := services.NewReviewService(nil).Complete(reviewID, userID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted",
		"review":  review,
	})
}
