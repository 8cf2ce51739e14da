package services

import (
	"errors"
	"strings"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proposal lifecycle errors surfaced to the action boundary.
var (
	ErrProposalNotFound       = errors.New("Proposal not found")
	ErrNotProposalOwner       = errors.New("You do not own this proposal")
	ErrProposalNotDraft       = errors.New("Cannot edit a submitted proposal")
	ErrCentreAlreadySubmitted = errors.New("A proposal has already been submitted for this centre in this window")
	ErrWindowNotFound         = errors.New("Submission window not found")
	ErrWindowNotOpen          = errors.New("Submission window is not open")
	ErrTooManySecondaryTopics = errors.New("A proposal may have at most 2 secondary topics")
	ErrProposalNotUnderReview = errors.New("Proposal is not under review")
	ErrNoCompletedReviews     = errors.New("Proposal has no completed validated reviews")
	ErrInvalidDecision        = errors.New("Invalid decision")
)

// ProposalInput carries PI-provided proposal fields for create and update.
type ProposalInput struct {
	Title             string  `json:"title" binding:"required"`
	CentreID          int     `json:"centre_id" binding:"required"`
	WindowID          int     `json:"window_id" binding:"required"`
	CategoryID        *int    `json:"category_id"`
	MainAreaID        int     `json:"main_area_id" binding:"required"`
	SecondaryTopicIDs []int   `json:"secondary_topic_ids"`
	Background        string  `json:"background"`
	Objectives        string  `json:"objectives"`
	Methods           string  `json:"methods"`
	Endpoints         *string `json:"endpoints"`
	DataRequirements  *string `json:"data_requirements"`
	Feasibility       *string `json:"feasibility"`
	Funding           *string `json:"funding"`
}

// ProposalService owns the proposal status lifecycle and its invariants.
type ProposalService struct {
	db *gorm.DB
}

// NewProposalService instantiates the service.
func NewProposalService(db *gorm.DB) *ProposalService {
	if db == nil {
		db = config.DB
	}
	return &ProposalService{db: db}
}

func normalizeSecondaryTopics(mainAreaID int, ids []int) ([]int, error) {
	seen := map[int]struct{}{mainAreaID: {}}
	topics := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		topics = append(topics, id)
	}
	if len(topics) > models.MaxSecondaryTopics {
		return nil, ErrTooManySecondaryTopics
	}
	return topics, nil
}

func newProposalNumber() string {
	return "AS-" + strings.ToUpper(uuid.NewString()[:8])
}

// Create inserts a new DRAFT proposal. The one-submitted-per-(centre, window)
// invariant is checked inside the same transaction as the insert.
func (s *ProposalService) Create(piUserID int, input *ProposalInput) (*models.Proposal, error) {
	topics, err := normalizeSecondaryTopics(input.MainAreaID, input.SecondaryTopicIDs)
	if err != nil {
		return nil, err
	}

	var proposal models.Proposal
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var window models.SubmissionWindow
		if err := tx.Where("window_id = ? AND delete_at IS NULL", input.WindowID).First(&window).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWindowNotFound
			}
			return err
		}

		var submitted int64
		if err := tx.Model(&models.Proposal{}).
			Where("centre_id = ? AND window_id = ? AND is_deleted = ? AND status <> ?",
				input.CentreID, input.WindowID, false, models.ProposalStatusDraft).
			Count(&submitted).Error; err != nil {
			return err
		}
		if submitted > 0 {
			return ErrCentreAlreadySubmitted
		}

		now := time.Now()
		proposal = models.Proposal{
			ProposalNumber:   newProposalNumber(),
			Title:            input.Title,
			PIUserID:         piUserID,
			CentreID:         input.CentreID,
			WindowID:         input.WindowID,
			CategoryID:       input.CategoryID,
			MainAreaID:       input.MainAreaID,
			Background:       input.Background,
			Objectives:       input.Objectives,
			Methods:          input.Methods,
			Endpoints:        input.Endpoints,
			DataRequirements: input.DataRequirements,
			Feasibility:      input.Feasibility,
			Funding:          input.Funding,
			Status:           models.ProposalStatusDraft,
			CreateAt:         &now,
			UpdateAt:         &now,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}

		return replaceSecondaryTopics(tx, proposal.ProposalID, topics)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(proposal.ProposalID)
}

// Update applies a patch to a proposal that is still a draft and owned by
// the calling PI.
func (s *ProposalService) Update(proposalID, piUserID int, input *ProposalInput) (*models.Proposal, error) {
	topics, err := normalizeSecondaryTopics(input.MainAreaID, input.SecondaryTopicIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposalForPI(tx, proposalID, piUserID)
		if err != nil {
			return err
		}
		if !proposal.IsDraft() {
			return ErrProposalNotDraft
		}

		now := time.Now()
		updates := map[string]interface{}{
			"title":             input.Title,
			"centre_id":         input.CentreID,
			"window_id":         input.WindowID,
			"category_id":       input.CategoryID,
			"main_area_id":      input.MainAreaID,
			"background":        input.Background,
			"objectives":        input.Objectives,
			"methods":           input.Methods,
			"endpoints":         input.Endpoints,
			"data_requirements": input.DataRequirements,
			"feasibility":       input.Feasibility,
			"funding":           input.Funding,
			"update_at":         now,
		}
		if err := tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposal.ProposalID).
			Updates(updates).Error; err != nil {
			return err
		}

		return replaceSecondaryTopics(tx, proposal.ProposalID, topics)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(proposalID)
}

// Submit moves a draft to SUBMITTED, stamping submitted_at. The window must
// be open and the (centre, window) pair must not already hold a submitted
// proposal; both checks run inside the submitting transaction.
func (s *ProposalService) Submit(proposalID, piUserID int) (*models.Proposal, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposalForPI(tx, proposalID, piUserID)
		if err != nil {
			return err
		}
		if !proposal.IsDraft() {
			return ErrProposalNotDraft
		}

		var window models.SubmissionWindow
		if err := tx.Where("window_id = ? AND delete_at IS NULL", proposal.WindowID).First(&window).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWindowNotFound
			}
			return err
		}
		if !window.IsOpen() {
			return ErrWindowNotOpen
		}

		var submitted int64
		if err := tx.Model(&models.Proposal{}).
			Where("centre_id = ? AND window_id = ? AND is_deleted = ? AND status <> ? AND proposal_id <> ?",
				proposal.CentreID, proposal.WindowID, false, models.ProposalStatusDraft, proposal.ProposalID).
			Count(&submitted).Error; err != nil {
			return err
		}
		if submitted > 0 {
			return ErrCentreAlreadySubmitted
		}

		now := time.Now()
		if err := tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposal.ProposalID).
			Updates(map[string]interface{}{
				"status":       models.ProposalStatusSubmitted,
				"submitted_at": now,
				"update_at":    now,
			}).Error; err != nil {
			return err
		}

		return writeStatusHistory(tx, proposal.ProposalID, proposal.Status, models.ProposalStatusSubmitted, piUserID, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(proposalID)
}

// Delete soft-deletes a proposal that is still a draft.
func (s *ProposalService) Delete(proposalID, piUserID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposalForPI(tx, proposalID, piUserID)
		if err != nil {
			return err
		}
		if !proposal.IsDraft() {
			return ErrProposalNotDraft
		}

		now := time.Now()
		return tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposal.ProposalID).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"update_at":  now,
			}).Error
	})
}

// Decide records an admin decision on a proposal under review. At least one
// validated, completed review is required before any decision.
func (s *ProposalService) Decide(proposalID, adminID int, decision, comment string) (*models.Proposal, error) {
	switch decision {
	case models.ProposalStatusAccepted, models.ProposalStatusRejected, models.ProposalStatusRevisionRequired:
	default:
		return nil, ErrInvalidDecision
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Where("proposal_id = ? AND is_deleted = ?", proposalID, false).First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProposalNotFound
			}
			return err
		}
		if proposal.Status != models.ProposalStatusUnderReview {
			return ErrProposalNotUnderReview
		}

		var completed int64
		if err := tx.Model(&models.Review{}).
			Where("proposal_id = ? AND is_deleted = ? AND is_draft = ? AND status = ?",
				proposal.ProposalID, false, false, models.ReviewStatusCompleted).
			Count(&completed).Error; err != nil {
			return err
		}
		if completed == 0 {
			return ErrNoCompletedReviews
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     decision,
			"decided_at": now,
			"update_at":  now,
		}
		trimmed := strings.TrimSpace(comment)
		if trimmed != "" {
			updates["decision_comment"] = trimmed
		}
		if err := tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposal.ProposalID).
			Updates(updates).Error; err != nil {
			return err
		}

		var reason *string
		if trimmed != "" {
			reason = &trimmed
		}
		return writeStatusHistory(tx, proposal.ProposalID, proposal.Status, decision, adminID, reason)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(proposalID)
}

// Get loads one live proposal with its relations.
func (s *ProposalService) Get(proposalID int) (*models.Proposal, error) {
	var proposal models.Proposal
	err := s.db.Preload("PI").Preload("Centre").Preload("Window").
		Preload("Category").Preload("MainArea").
		Preload("SecondaryTopics.MainArea").
		Where("proposal_id = ? AND is_deleted = ?", proposalID, false).
		First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

// GetForPI loads a proposal the calling PI owns.
func (s *ProposalService) GetForPI(proposalID, piUserID int) (*models.Proposal, error) {
	proposal, err := s.Get(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.PIUserID != piUserID {
		return nil, ErrNotProposalOwner
	}
	return proposal, nil
}

// ListForPI returns the PI's live proposals, newest first.
func (s *ProposalService) ListForPI(piUserID int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := s.db.Preload("Centre").Preload("Window").Preload("MainArea").
		Where("pi_user_id = ? AND is_deleted = ?", piUserID, false).
		Order("create_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// ListForAdmin returns live proposals, optionally filtered by window and status.
func (s *ProposalService) ListForAdmin(windowID int, status string) ([]models.Proposal, error) {
	query := s.db.Preload("PI").Preload("Centre").Preload("Window").Preload("MainArea").
		Where("is_deleted = ?", false)
	if windowID > 0 {
		query = query.Where("window_id = ?", windowID)
	}
	if strings.TrimSpace(status) != "" {
		query = query.Where("status = ?", status)
	}

	var proposals []models.Proposal
	err := query.Order("submitted_at DESC").Order("create_at DESC").Find(&proposals).Error
	return proposals, err
}

// History returns the recorded status transitions for a proposal.
func (s *ProposalService) History(proposalID int) ([]models.ProposalStatusHistory, error) {
	var rows []models.ProposalStatusHistory
	err := s.db.Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func lockProposalForPI(tx *gorm.DB, proposalID, piUserID int) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := tx.Where("proposal_id = ? AND is_deleted = ?", proposalID, false).First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	if proposal.PIUserID != piUserID {
		return nil, ErrNotProposalOwner
	}
	return &proposal, nil
}

func replaceSecondaryTopics(tx *gorm.DB, proposalID int, mainAreaIDs []int) error {
	if err := tx.Where("proposal_id = ?", proposalID).
		Delete(&models.ProposalSecondaryTopic{}).Error; err != nil {
		return err
	}
	for _, id := range mainAreaIDs {
		topic := models.ProposalSecondaryTopic{ProposalID: proposalID, MainAreaID: id}
		if err := tx.Create(&topic).Error; err != nil {
			return err
		}
	}
	return nil
}

func writeStatusHistory(tx *gorm.DB, proposalID int, oldStatus, newStatus string, changedBy int, reason *string) error {
	history := models.ProposalStatusHistory{
		ProposalID: proposalID,
		NewStatus:  newStatus,
		ChangedBy:  changedBy,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
	if oldStatus != "" {
		history.OldStatus = &oldStatus
	}
	return tx.Create(&history).Error
}
