package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/stoupi/mmvd-sub000/middleware"
	"github.com/stoupi/mmvd-sub000/services"

	"github.com/gin-gonic/gin"
)

type createAssignmentRequest struct {
	ProposalID int       `json:"proposal_id" binding:"required"`
	ReviewerID int       `json:"reviewer_id" binding:"required"`
	Deadline   time.Time `json:"deadline" binding:"required"`
}

type updateAssignmentRequest struct {
	Deadline time.Time `json:"deadline" binding:"required"`
}

type decisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comment  string `json:"comment"`
}

// GetRankedReviewers returns the advisory reviewer ordering for a proposal.
func GetRankedReviewers(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	reviewers, err := services.NewAssignmentService(nil).RankReviewers(proposalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reviewers": reviewers,
		"total":     len(reviewers),
	})
}

// CreateAssignment stages a draft reviewer assignment.
func CreateAssignment(c *gin.Context) {
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := services.NewAssignmentService(nil).CreateDraft(req.ProposalID, req.ReviewerID, req.Deadline)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Draft assignment created",
		"review":  review,
	})
}

// UpdateAssignment changes the deadline of a draft assignment.
func UpdateAssignment(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req updateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := services.NewAssignmentService(nil).UpdateDraft(reviewID, req.Deadline)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Draft assignment updated",
		"review":  review,
	})
}

// RemoveAssignment soft-deletes a draft assignment.
func RemoveAssignment(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := services.NewAssignmentService(nil).RemoveDraft(reviewID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Draft assignment removed",
	})
}

// GetWindowAssignments lists all live assignments in a window.
func GetWindowAssignments(c *gin.Context) {
	windowID, err := strconv.Atoi(c.Param("id"))
	if err != nil || windowID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
		return
	}

	reviews, err := services.NewAssignmentService(nil).ListForWindow(windowID)
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

// ValidateAssignments validates every draft assignment in the window and
// dispatches the batched reviewer notifications.
func ValidateAssignments(c *gin.Context) {
	windowID, err := strconv.Atoi(c.Param("id"))
	if err != nil || windowID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
		return
	}
	adminID, _ := middleware.CurrentUserID(c)

	result, err := services.NewAssignmentService(nil).Validate(windowID, adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assignments validated",
		"result":  result,
	})
}

// SendEmailToReviewer validates and notifies a single reviewer's assignments.
func SendEmailToReviewer(c *gin.Context) {
	windowID, err := strconv.Atoi(c.Param("id"))
	if err != nil || windowID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
		return
	}
	reviewerID, err := strconv.Atoi(c.Param("reviewerId"))
	if err != nil || reviewerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}
	adminID, _ := middleware.CurrentUserID(c)

	result, err := services.NewAssignmentService(nil).SendEmailToReviewer(reviewerID, windowID, adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reviewer notified",
		"result":  result,
	})
}

// GetAdminProposals lists proposals for administrators with filters.
func GetAdminProposals(c *gin.Context) {
	windowID := 0
	if raw := c.Query("window_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
			return
		}
		windowID = parsed
	}

	proposals, err := services.NewProposalService(nil).ListForAdmin(windowID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"proposals": proposals,
		"total":     len(proposals),
	})
}

// GetAdminProposal returns one proposal with relations and history.
func GetAdminProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	svc := services.NewProposalService(nil)
	proposal, err := svc.Get(proposalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	history, err := svc.History(proposalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"proposal": proposal,
		"history":  history,
	})
}

// DecideProposal records the admin decision on a proposal under review.
func DecideProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID, _ := middleware.CurrentUserID(c)

	proposal, err := services.NewProposalService(nil).Decide(proposalID, adminID, req.Decision, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Decision recorded",
		"proposal": proposal,
	})
}
