package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stoupi/mmvd-sub000/models"

	"gorm.io/gorm"
)

// seedValidatedReview inserts a validated PENDING review ready for completion.
func seedValidatedReview(t *testing.T, db *gorm.DB, proposalID, reviewerID int, deadline time.Time) *models.Review {
	t.Helper()

	now := time.Now()
	review := models.Review{
		ProposalID:  proposalID,
		ReviewerID:  reviewerID,
		IsDraft:     false,
		Deadline:    deadline,
		Status:      models.ReviewStatusPending,
		EmailSentAt: &now,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to seed review: %v", err)
	}
	return &review
}

func reviewInput(decision, overlap string) *ReviewInput {
	comment := "Sound methodology"
	return &ReviewInput{
		Decision:     decision,
		Overlap:      overlap,
		CommentForPI: &comment,
	}
}

func TestCompleteReviewRecordsAssessment(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")
	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusUnderReview)
	review := seedValidatedReview(t, db, proposal.ProposalID, reviewer.UserID, time.Now().AddDate(0, 0, 14))

	completed, err := svc.Complete(review.ReviewID, reviewer.UserID, reviewInput(models.ReviewDecisionAccept, models.OverlapNo))
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if completed.Status != models.ReviewStatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("expected completed_at to be stamped")
	}
	if completed.IsLate {
		t.Error("review completed before the deadline must not be late")
	}
	if completed.Decision == nil || *completed.Decision != models.ReviewDecisionAccept {
		t.Errorf("expected decision ACCEPT, got %v", completed.Decision)
	}
}

func TestCompleteReviewIsImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")
	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusUnderReview)
	review := seedValidatedReview(t, db, proposal.ProposalID, reviewer.UserID, time.Now().AddDate(0, 0, 14))

	if _, err := svc.Complete(review.ReviewID, reviewer.UserID, reviewInput(models.ReviewDecisionAccept, models.OverlapNo)); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if _, err := svc.Complete(review.ReviewID, reviewer.UserID, reviewInput(models.ReviewDecisionReject, models.OverlapNo)); !errors.Is(err, ErrReviewAlreadySubmitted) {
		t.Fatalf("expected ErrReviewAlreadySubmitted, got %v", err)
	}
}

func TestCompleteAfterDeadlineFlagsLate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")
	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusUnderReview)
	review := seedValidatedReview(t, db, proposal.ProposalID, reviewer.UserID, time.Now().AddDate(0, 0, -1))

	completed, err := svc.Complete(review.ReviewID, reviewer.UserID, reviewInput(models.ReviewDecisionRevise, models.OverlapNo))
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if !completed.IsLate {
		t.Error("review completed past the deadline must be flagged late")
	}
}

func TestCompleteRequiresOverlapDetails(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")
	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusUnderReview)
	review := seedValidatedReview(t, db, proposal.ProposalID, reviewer.UserID, time.Now().AddDate(0, 0, 14))

	input := reviewInput(models.ReviewDecisionAccept, models.OverlapPartial)
	if _, err := svc.Complete(review.ReviewID, reviewer.UserID, input); !errors.Is(err, ErrOverlapDetailsRequired) {
		t.Fatalf("expected ErrOverlapDetailsRequired, got %v", err)
	}

	blank := "   "
	input.OverlapDetails = &blank
	if _, err := svc.Complete(review.ReviewID, reviewer.UserID, input); !errors.Is(err, ErrOverlapDetailsRequired) {
		t.Fatalf("expected ErrOverlapDetailsRequired for blank details, got %v", err)
	}

	details := "Overlaps with the echo substudy endpoints"
	input.OverlapDetails = &details
	completed, err := svc.Complete(review.ReviewID, reviewer.UserID, input)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if completed.OverlapDetails == nil || *completed.OverlapDetails != details {
		t.Errorf("expected overlap details stored, got %v", completed.OverlapDetails)
	}
}

func TestCompleteRejectsInvalidEnums(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	if _, err := svc.Complete(1, 1, reviewInput("APPROVE", models.OverlapNo)); !errors.Is(err, ErrInvalidReviewDecision) {
		t.Fatalf("expected ErrInvalidReviewDecision, got %v", err)
	}
	if _, err := svc.Complete(1, 1, reviewInput(models.ReviewDecisionAccept, "NONE")); !errors.Is(err, ErrInvalidOverlap) {
		t.Fatalf("expected ErrInvalidOverlap, got %v", err)
	}
}

func TestCompleteRejectsForeignReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	intruder := seedUser(t, db, "Ivan", "Intruder", models.PermissionReviewing)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")
	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusUnderReview)
	review := seedValidatedReview(t, db, proposal.ProposalID, reviewer.UserID, time.Now().AddDate(0, 0, 14))

	if _, err := svc.Complete(review.ReviewID, intruder.UserID, reviewInput(models.ReviewDecisionAccept, models.OverlapNo)); !errors.Is(err, ErrNotReviewOwner) {
		t.Fatalf("expected ErrNotReviewOwner, got %v", err)
	}
}

func TestDraftAssignmentsInvisibleToReviewer(t *testing.T) {
	db := newTestDB(t)
	reviewSvc := NewReviewService(db)
	assignSvc := NewAssignmentService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")
	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusSubmitted)

	draft, err := assignSvc.CreateDraft(proposal.ProposalID, reviewer.UserID, time.Now().AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}

	reviews, err := reviewSvc.ListForReviewer(reviewer.UserID, 0)
	if err != nil {
		t.Fatalf("ListForReviewer returned error: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("draft assignment must be invisible, got %d reviews", len(reviews))
	}

	if _, err := reviewSvc.GetForReviewer(draft.ReviewID, reviewer.UserID); !errors.Is(err, ErrReviewNotVisible) {
		t.Fatalf("expected ErrReviewNotVisible, got %v", err)
	}
	if _, err := reviewSvc.Complete(draft.ReviewID, reviewer.UserID, reviewInput(models.ReviewDecisionAccept, models.OverlapNo)); !errors.Is(err, ErrReviewNotVisible) {
		t.Fatalf("expected ErrReviewNotVisible on complete, got %v", err)
	}
}

func TestListForReviewerFiltersByWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	reviewer := seedUser(t, db, "Rita", "Reviewer", models.PermissionReviewing)
	centre1 := seedCentre(t, db)
	centre2 := seedCentre(t, db)
	window1 := seedWindow(t, db, models.WindowStatusReview)
	window2 := seedWindow(t, db, models.WindowStatusReview)
	area := seedMainArea(t, db, "Cardiology")

	p1 := seedProposal(t, db, pi, centre1, window1, area, models.ProposalStatusUnderReview)
	p2 := seedProposal(t, db, pi, centre2, window2, area, models.ProposalStatusUnderReview)
	deadline := time.Now().AddDate(0, 0, 14)
	seedValidatedReview(t, db, p1.ProposalID, reviewer.UserID, deadline)
	seedValidatedReview(t, db, p2.ProposalID, reviewer.UserID, deadline)

	all, err := svc.ListForReviewer(reviewer.UserID, 0)
	if err != nil {
		t.Fatalf("ListForReviewer returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(all))
	}

	scoped, err := svc.ListForReviewer(reviewer.UserID, window1.WindowID)
	if err != nil {
		t.Fatalf("ListForReviewer returned error: %v", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("expected 1 review in window, got %d", len(scoped))
	}
	if scoped[0].ProposalID != p1.ProposalID {
		t.Errorf("expected review for proposal %d, got %d", p1.ProposalID, scoped[0].ProposalID)
	}
}
