package services

import (
	"errors"
	"strings"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"

	"gorm.io/gorm"
)

// Review completion errors surfaced to the action boundary.
var (
	ErrReviewNotVisible       = errors.New("Review is not yet available")
	ErrReviewAlreadySubmitted = errors.New("This review has already been submitted")
	ErrNotReviewOwner         = errors.New("You are not assigned to this review")
	ErrInvalidReviewDecision  = errors.New("Invalid review decision")
	ErrInvalidOverlap         = errors.New("Invalid overlap assessment")
	ErrOverlapDetailsRequired = errors.New("Overlap details are required when overlap is not NO")
)

// ReviewInput carries the reviewer's assessment of a proposal.
type ReviewInput struct {
	Decision       string  `json:"decision" binding:"required"`
	Overlap        string  `json:"overlap" binding:"required"`
	OverlapDetails *string `json:"overlap_details"`
	CommentForPI   *string `json:"comment_for_pi"`
	CommentAdmin   *string `json:"comment_admin"`
}

// ReviewService exposes validated assignments to their reviewers.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService instantiates the service.
func NewReviewService(db *gorm.DB) *ReviewService {
	if db == nil {
		db = config.DB
	}
	return &ReviewService{db: db}
}

// ListForReviewer returns the reviewer's validated live assignments,
// optionally scoped to a window. Drafts stay invisible until validation.
func (s *ReviewService) ListForReviewer(reviewerID, windowID int) ([]models.Review, error) {
	query := s.db.
		Joins("JOIN proposals ON proposals.proposal_id = reviews.proposal_id").
		Where("reviews.reviewer_id = ? AND reviews.is_deleted = ? AND reviews.is_draft = ?", reviewerID, false, false).
		Where("proposals.is_deleted = ?", false).
		Preload("Proposal.PI").
		Preload("Proposal.Centre").
		Preload("Proposal.MainArea").
		Preload("Proposal.SecondaryTopics.MainArea")
	if windowID > 0 {
		query = query.Where("proposals.window_id = ?", windowID)
	}

	var reviews []models.Review
	err := query.Order("reviews.deadline ASC").Find(&reviews).Error
	return reviews, err
}

// GetForReviewer loads one validated assignment owned by the reviewer.
func (s *ReviewService) GetForReviewer(reviewID, reviewerID int) (*models.Review, error) {
	var review models.Review
	err := s.db.Preload("Proposal.PI").
		Preload("Proposal.Centre").
		Preload("Proposal.MainArea").
		Preload("Proposal.SecondaryTopics.MainArea").
		Where("review_id = ? AND is_deleted = ?", reviewID, false).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, ErrNotReviewOwner
	}
	if review.IsDraft {
		return nil, ErrReviewNotVisible
	}
	return &review, nil
}

// Complete records the reviewer's assessment. A review past its deadline is
// accepted but flagged late; a completed review is immutable.
func (s *ReviewService) Complete(reviewID, reviewerID int, input *ReviewInput) (*models.Review, error) {
	if !models.ValidReviewDecision(input.Decision) {
		return nil, ErrInvalidReviewDecision
	}
	if !models.ValidOverlap(input.Overlap) {
		return nil, ErrInvalidOverlap
	}
	if input.Overlap != models.OverlapNo {
		if input.OverlapDetails == nil || strings.TrimSpace(*input.OverlapDetails) == "" {
			return nil, ErrOverlapDetailsRequired
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		review, err := findLiveReview(tx, reviewID)
		if err != nil {
			return err
		}
		if review.ReviewerID != reviewerID {
			return ErrNotReviewOwner
		}
		if review.IsDraft {
			return ErrReviewNotVisible
		}
		if review.Status == models.ReviewStatusCompleted {
			return ErrReviewAlreadySubmitted
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":          models.ReviewStatusCompleted,
			"decision":        input.Decision,
			"overlap":         input.Overlap,
			"overlap_details": input.OverlapDetails,
			"comment_for_pi":  input.CommentForPI,
			"comment_admin":   input.CommentAdmin,
			"completed_at":    now,
			"is_late":         now.After(review.Deadline),
			"update_at":       now,
		}
		return tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetForReviewer(reviewID, reviewerID)
}
