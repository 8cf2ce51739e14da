package services

import (
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"

	"gorm.io/gorm"
)

// sendMailFunc is swapped out by tests to capture outgoing email.
var sendMailFunc = config.SendMail

// Reviewer assignment errors surfaced to the action boundary.
var (
	ErrReviewNotFound          = errors.New("Review not found")
	ErrReviewerAlreadyAssigned = errors.New("Reviewer is already assigned to this proposal")
	ErrMaxReviewers            = errors.New("Maximum of 3 reviewers per proposal")
	ErrAssignmentValidated     = errors.New("Assignment has already been validated")
	ErrNoDraftAssignments      = errors.New("No draft assignments to validate")
	ErrReviewerNotEligible     = errors.New("User cannot review proposals")
	ErrProposalNotAssignable   = errors.New("Proposal is not awaiting review assignment")
)

// AssignmentService owns the draft/validate reviewer assignment workflow.
type AssignmentService struct {
	db *gorm.DB
}

// NewAssignmentService instantiates the service.
func NewAssignmentService(db *gorm.DB) *AssignmentService {
	if db == nil {
		db = config.DB
	}
	return &AssignmentService{db: db}
}

// ValidationResult summarizes a validate/send-email action.
type ValidationResult struct {
	ValidatedReviews  int      `json:"validated_reviews"`
	ReviewersNotified int      `json:"reviewers_notified"`
	ProposalsMoved    int      `json:"proposals_moved"`
	EmailFailures     []string `json:"email_failures,omitempty"`
}

// RankedReviewer is an advisory ordering entry for the assignment UI.
type RankedReviewer struct {
	User       models.User `json:"user"`
	TopicMatch bool        `json:"topic_match"`
}

// CreateDraft stages a reviewer on a proposal. A soft-deleted row for the
// same (proposal, reviewer) pair is reactivated instead of duplicated, so
// the unique pair index is never violated.
func (s *AssignmentService) CreateDraft(proposalID, reviewerID int, deadline time.Time) (*models.Review, error) {
	var reviewID int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Where("proposal_id = ? AND is_deleted = ?", proposalID, false).First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProposalNotFound
			}
			return err
		}
		if proposal.Status != models.ProposalStatusSubmitted && proposal.Status != models.ProposalStatusUnderReview {
			return ErrProposalNotAssignable
		}

		var reviewer models.User
		if err := tx.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewerNotEligible
			}
			return err
		}
		if !reviewer.IsActive || !reviewer.HasPermission(models.PermissionReviewing) {
			return ErrReviewerNotEligible
		}

		var existing models.Review
		err := tx.Where("proposal_id = ? AND reviewer_id = ?", proposalID, reviewerID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && !existing.IsDeleted {
			return ErrReviewerAlreadyAssigned
		}

		var live int64
		if err := tx.Model(&models.Review{}).
			Where("proposal_id = ? AND is_deleted = ?", proposalID, false).
			Count(&live).Error; err != nil {
			return err
		}
		if live >= models.MaxReviewersPerProposal {
			return ErrMaxReviewers
		}

		now := time.Now()
		if existing.ReviewID != 0 {
			// Reactivate the soft-deleted pair row.
			if err := tx.Model(&models.Review{}).
				Where("review_id = ?", existing.ReviewID).
				Updates(map[string]interface{}{
					"is_deleted":      false,
					"is_draft":        true,
					"status":          models.ReviewStatusPending,
					"deadline":        deadline,
					"decision":        nil,
					"overlap":         nil,
					"overlap_details": nil,
					"comment_for_pi":  nil,
					"comment_admin":   nil,
					"email_sent_at":   nil,
					"completed_at":    nil,
					"is_late":         false,
					"update_at":       now,
				}).Error; err != nil {
				return err
			}
			reviewID = existing.ReviewID
			return nil
		}

		review := models.Review{
			ProposalID: proposalID,
			ReviewerID: reviewerID,
			IsDraft:    true,
			Deadline:   deadline,
			Status:     models.ReviewStatusPending,
			CreateAt:   &now,
			UpdateAt:   &now,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		reviewID = review.ReviewID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getReview(reviewID)
}

// UpdateDraft changes the deadline of a not-yet-validated assignment.
func (s *AssignmentService) UpdateDraft(reviewID int, deadline time.Time) (*models.Review, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		review, err := findLiveReview(tx, reviewID)
		if err != nil {
			return err
		}
		if !review.IsDraft {
			return ErrAssignmentValidated
		}

		now := time.Now()
		return tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(map[string]interface{}{
				"deadline":  deadline,
				"update_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.getReview(reviewID)
}

// RemoveDraft soft-deletes a not-yet-validated assignment.
func (s *AssignmentService) RemoveDraft(reviewID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		review, err := findLiveReview(tx, reviewID)
		if err != nil {
			return err
		}
		if !review.IsDraft {
			return ErrAssignmentValidated
		}

		now := time.Now()
		return tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"update_at":  now,
			}).Error
	})
}

// Validate flips every draft assignment in the window to validated, moves
// the referenced submitted proposals to UNDER_REVIEW, then sends one
// batched notification email per reviewer. State is committed before email
// dispatch; a failed send is reported, never rolled back.
func (s *AssignmentService) Validate(windowID, adminID int) (*ValidationResult, error) {
	return s.validateScope(windowID, adminID, 0)
}

// SendEmailToReviewer runs the validate flow for a single reviewer in the
// window, including the SUBMITTED to UNDER_REVIEW flip of their proposals.
func (s *AssignmentService) SendEmailToReviewer(reviewerID, windowID, adminID int) (*ValidationResult, error) {
	return s.validateScope(windowID, adminID, reviewerID)
}

func (s *AssignmentService) validateScope(windowID, adminID, reviewerID int) (*ValidationResult, error) {
	query := s.db.
		Joins("JOIN proposals ON proposals.proposal_id = reviews.proposal_id").
		Where("proposals.window_id = ? AND proposals.is_deleted = ?", windowID, false).
		Where("proposals.status IN ?", []string{models.ProposalStatusSubmitted, models.ProposalStatusUnderReview}).
		Where("reviews.is_deleted = ? AND reviews.is_draft = ?", false, true).
		Preload("Proposal.PI").
		Preload("Proposal.MainArea").
		Preload("Reviewer")
	if reviewerID > 0 {
		query = query.Where("reviews.reviewer_id = ?", reviewerID)
	}

	var drafts []models.Review
	if err := query.Find(&drafts).Error; err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, ErrNoDraftAssignments
	}

	reviewIDs := make([]int, 0, len(drafts))
	proposalSet := make(map[int]*models.Proposal, len(drafts))
	for i := range drafts {
		reviewIDs = append(reviewIDs, drafts[i].ReviewID)
		if drafts[i].Proposal != nil {
			proposalSet[drafts[i].ProposalID] = drafts[i].Proposal
		}
	}

	now := time.Now()
	moved := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("review_id IN ?", reviewIDs).
			Updates(map[string]interface{}{
				"is_draft":      false,
				"email_sent_at": now,
				"update_at":     now,
			}).Error; err != nil {
			return err
		}

		for id, proposal := range proposalSet {
			if proposal.Status != models.ProposalStatusSubmitted {
				continue
			}
			if err := tx.Model(&models.Proposal{}).
				Where("proposal_id = ?", id).
				Updates(map[string]interface{}{
					"status":    models.ProposalStatusUnderReview,
					"update_at": now,
				}).Error; err != nil {
				return err
			}
			if err := writeStatusHistory(tx, id, proposal.Status, models.ProposalStatusUnderReview, adminID, nil); err != nil {
				return err
			}
			moved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byReviewer := make(map[int][]models.Review)
	for i := range drafts {
		byReviewer[drafts[i].ReviewerID] = append(byReviewer[drafts[i].ReviewerID], drafts[i])
	}

	result := &ValidationResult{
		ValidatedReviews: len(drafts),
		ProposalsMoved:   moved,
	}
	for _, batch := range byReviewer {
		reviewer := batch[0].Reviewer
		if reviewer == nil || strings.TrimSpace(reviewer.Email) == "" {
			continue
		}
		subject, html := buildAssignmentEmail(reviewer, batch)
		if err := sendMailFunc([]string{reviewer.Email}, subject, html); err != nil {
			log.Printf("Failed to send assignment email to %s: %v", reviewer.Email, err)
			result.EmailFailures = append(result.EmailFailures, reviewer.Email)
			continue
		}
		result.ReviewersNotified++
	}

	return result, nil
}

// ListForWindow returns live assignments for a window, draft and validated.
func (s *AssignmentService) ListForWindow(windowID int) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Joins("JOIN proposals ON proposals.proposal_id = reviews.proposal_id").
		Where("proposals.window_id = ? AND proposals.is_deleted = ?", windowID, false).
		Where("reviews.is_deleted = ?", false).
		Preload("Proposal").
		Preload("Reviewer").
		Order("reviews.review_id ASC").
		Find(&reviews).Error
	return reviews, err
}

// RankReviewers orders eligible reviewers topic-match-first, then by name.
// Ordering is advisory only and never restricts who can be assigned.
func (s *AssignmentService) RankReviewers(proposalID int) ([]RankedReviewer, error) {
	var proposal models.Proposal
	if err := s.db.Where("proposal_id = ? AND is_deleted = ?", proposalID, false).First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	var users []models.User
	if err := s.db.Preload("ReviewTopics").
		Where("delete_at IS NULL AND is_active = ?", true).
		Find(&users).Error; err != nil {
		return nil, err
	}

	ranked := make([]RankedReviewer, 0, len(users))
	for i := range users {
		if !users[i].HasPermission(models.PermissionReviewing) {
			continue
		}
		ranked = append(ranked, RankedReviewer{
			User:       users[i],
			TopicMatch: users[i].ReviewsTopic(proposal.MainAreaID),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TopicMatch != ranked[j].TopicMatch {
			return ranked[i].TopicMatch
		}
		return strings.ToLower(ranked[i].User.DisplayName()) < strings.ToLower(ranked[j].User.DisplayName())
	})

	return ranked, nil
}

func (s *AssignmentService) getReview(reviewID int) (*models.Review, error) {
	var review models.Review
	err := s.db.Preload("Proposal").Preload("Reviewer").
		Where("review_id = ?", reviewID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func findLiveReview(tx *gorm.DB, reviewID int) (*models.Review, error) {
	var review models.Review
	if err := tx.Where("review_id = ? AND is_deleted = ?", reviewID, false).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}
