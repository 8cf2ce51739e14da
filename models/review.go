package models

import "time"

// Review statuses and decisions.
const (
	ReviewStatusPending   = "PENDING"
	ReviewStatusCompleted = "COMPLETED"

	ReviewDecisionAccept = "ACCEPT"
	ReviewDecisionReject = "REJECT"
	ReviewDecisionRevise = "REVISE"

	OverlapNo      = "NO"
	OverlapPartial = "PARTIAL"
	OverlapMajor   = "MAJOR"
)

// MaxReviewersPerProposal caps live review rows per proposal.
const MaxReviewersPerProposal = 3

// Review represents one reviewer's assessment of one proposal. A row starts
// as an admin-staged draft (is_draft=true) and becomes visible to the
// reviewer only after batch validation, which also stamps email_sent_at.
type Review struct {
	ReviewID   int  `gorm:"primaryKey;column:review_id" json:"review_id"`
	ProposalID int  `gorm:"column:proposal_id;uniqueIndex:idx_reviews_proposal_reviewer" json:"proposal_id"`
	ReviewerID int  `gorm:"column:reviewer_id;uniqueIndex:idx_reviews_proposal_reviewer" json:"reviewer_id"`
	IsDraft    bool `gorm:"column:is_draft" json:"is_draft"`

	Deadline time.Time `gorm:"column:deadline" json:"deadline"`
	Status   string    `gorm:"column:status" json:"status"`

	Decision       *string `gorm:"column:decision" json:"decision,omitempty"`
	Overlap        *string `gorm:"column:overlap" json:"overlap,omitempty"`
	OverlapDetails *string `gorm:"column:overlap_details;type:text" json:"overlap_details,omitempty"`
	CommentForPI   *string `gorm:"column:comment_for_pi;type:text" json:"comment_for_pi,omitempty"`
	CommentAdmin   *string `gorm:"column:comment_admin;type:text" json:"comment_admin,omitempty"`

	EmailSentAt *time.Time `gorm:"column:email_sent_at" json:"email_sent_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	IsLate      bool       `gorm:"column:is_late" json:"is_late"`
	IsDeleted   bool       `gorm:"column:is_deleted" json:"is_deleted"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Proposal *Proposal `gorm:"foreignKey:ProposalID;references:ProposalID" json:"proposal,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID;references:UserID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}

// ValidReviewDecision reports whether the value is a declared decision.
func ValidReviewDecision(decision string) bool {
	switch decision {
	case ReviewDecisionAccept, ReviewDecisionReject, ReviewDecisionRevise:
		return true
	}
	return false
}

// ValidOverlap reports whether the value is a declared overlap assessment.
func ValidOverlap(overlap string) bool {
	switch overlap {
	case OverlapNo, OverlapPartial, OverlapMajor:
		return true
	}
	return false
}
