package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/stoupi/mmvd-sub000/services"

	"github.com/gin-gonic/gin"
)

var notFoundErrors = []error{
	services.ErrProposalNotFound,
	services.ErrWindowNotFound,
	services.ErrReviewNotFound,
	services.ErrMainAreaNotFound,
	services.ErrCategoryNotFound,
	services.ErrCentreNotFound,
	services.ErrNoOpenWindow,
}

var forbiddenErrors = []error{
	services.ErrNotProposalOwner,
	services.ErrNotReviewOwner,
}

var badRequestErrors = []error{
	services.ErrTooManySecondaryTopics,
	services.ErrInvalidDecision,
	services.ErrInvalidWindowStatus,
	services.ErrInvalidReviewDecision,
	services.ErrInvalidOverlap,
	services.ErrOverlapDetailsRequired,
}

var conflictErrors = []error{
	services.ErrProposalNotDraft,
	services.ErrCentreAlreadySubmitted,
	services.ErrWindowNotOpen,
	services.ErrProposalNotUnderReview,
	services.ErrNoCompletedReviews,
	services.ErrProposalNotAssignable,
	services.ErrReviewerAlreadyAssigned,
	services.ErrReviewerNotEligible,
	services.ErrMaxReviewers,
	services.ErrAssignmentValidated,
	services.ErrNoDraftAssignments,
	services.ErrReviewNotVisible,
	services.ErrReviewAlreadySubmitted,
	services.ErrWindowHasProposals,
	services.ErrMainAreaReferenced,
	services.ErrCategoryReferenced,
	services.ErrCentreReferenced,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps a service error onto an HTTP status. Unknown
// errors are logged and reported with a generic message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case matchesAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case matchesAny(err, forbiddenErrors):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case matchesAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case matchesAny(err, conflictErrors):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Unhandled service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
