package controllers

import (
	"net/http"
	"strconv"

	"github.com/stoupi/mmvd-sub000/middleware"
	"github.com/stoupi/mmvd-sub000/services"

	"github.com/gin-gonic/gin"
)

// GetProposals lists the calling PI's proposals.
func GetProposals(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	proposals, err := services.NewProposalService(nil).ListForPI(userID)
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

// GetProposal returns one proposal owned by the calling PI.
func GetProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	proposal, err := services.NewProposalService(nil).GetForPI(proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"proposal": proposal,
	})
}

// CreateProposal saves a new draft proposal.
func CreateProposal(c *gin.Context) {
	var input services.ProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	proposal, err := services.NewProposalService(nil).Create(userID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Draft saved",
		"proposal": proposal,
	})
}

// UpdateProposal patches a draft proposal.
func UpdateProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var input services.ProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	proposal, err := services.NewProposalService(nil).Update(proposalID, userID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Draft updated",
		"proposal": proposal,
	})
}

// SubmitProposal moves a draft to SUBMITTED.
func SubmitProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	proposal, err := services.NewProposalService(nil).Submit(proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Proposal submitted",
		"proposal": proposal,
	})
}

// DeleteProposal soft-deletes a draft proposal.
func DeleteProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := services.NewProposalService(nil).Delete(proposalID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Proposal deleted",
	})
}
