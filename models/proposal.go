package models

import "time"

// Proposal statuses. RESUBMITTED and PRIORITIZED are declared in the schema
// but no workflow step currently transitions into them.
const (
	ProposalStatusDraft            = "DRAFT"
	ProposalStatusSubmitted        = "SUBMITTED"
	ProposalStatusUnderReview      = "UNDER_REVIEW"
	ProposalStatusRevisionRequired = "REVISION_REQUIRED"
	ProposalStatusResubmitted      = "RESUBMITTED"
	ProposalStatusAccepted         = "ACCEPTED"
	ProposalStatusRejected         = "REJECTED"
	ProposalStatusPrioritized      = "PRIORITIZED"
)

// MaxSecondaryTopics caps the secondary classification topics per proposal.
const MaxSecondaryTopics = 2

// Proposal represents an ancillary-study proposal tied to the parent study.
type Proposal struct {
	ProposalID     int    `gorm:"primaryKey;column:proposal_id" json:"proposal_id"`
	ProposalNumber string `gorm:"column:proposal_number;unique" json:"proposal_number"`
	Title          string `gorm:"column:title" json:"title"`
	PIUserID       int    `gorm:"column:pi_user_id" json:"pi_user_id"`
	CentreID       int    `gorm:"column:centre_id" json:"centre_id"`
	WindowID       int    `gorm:"column:window_id" json:"window_id"`
	CategoryID     *int   `gorm:"column:category_id" json:"category_id,omitempty"`
	MainAreaID     int    `gorm:"column:main_area_id" json:"main_area_id"`

	Background       string  `gorm:"column:background;type:text" json:"background"`
	Objectives       string  `gorm:"column:objectives;type:text" json:"objectives"`
	Methods          string  `gorm:"column:methods;type:text" json:"methods"`
	Endpoints        *string `gorm:"column:endpoints;type:text" json:"endpoints,omitempty"`
	DataRequirements *string `gorm:"column:data_requirements;type:text" json:"data_requirements,omitempty"`
	Feasibility      *string `gorm:"column:feasibility;type:text" json:"feasibility,omitempty"`
	Funding          *string `gorm:"column:funding;type:text" json:"funding,omitempty"`

	Status          string     `gorm:"column:status" json:"status"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DecidedAt       *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecisionComment *string    `gorm:"column:decision_comment" json:"decision_comment,omitempty"`
	IsDeleted       bool       `gorm:"column:is_deleted" json:"is_deleted"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	PI              *User                    `gorm:"foreignKey:PIUserID;references:UserID" json:"pi,omitempty"`
	Centre          *Centre                  `gorm:"foreignKey:CentreID;references:CentreID" json:"centre,omitempty"`
	Window          *SubmissionWindow        `gorm:"foreignKey:WindowID;references:WindowID" json:"window,omitempty"`
	Category        *Category                `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	MainArea        *MainArea                `gorm:"foreignKey:MainAreaID;references:MainAreaID" json:"main_area,omitempty"`
	SecondaryTopics []ProposalSecondaryTopic `gorm:"foreignKey:ProposalID;references:ProposalID" json:"secondary_topics,omitempty"`
	Reviews         []Review                 `gorm:"foreignKey:ProposalID;references:ProposalID" json:"reviews,omitempty"`
}

// ProposalSecondaryTopic links a proposal to an additional main area.
type ProposalSecondaryTopic struct {
	SecondaryTopicID int `gorm:"primaryKey;column:secondary_topic_id" json:"secondary_topic_id"`
	ProposalID       int `gorm:"column:proposal_id" json:"proposal_id"`
	MainAreaID       int `gorm:"column:main_area_id" json:"main_area_id"`

	MainArea *MainArea `gorm:"foreignKey:MainAreaID;references:MainAreaID" json:"main_area,omitempty"`
}

// ProposalStatusHistory tracks historical status changes for proposals.
type ProposalStatusHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ProposalID int       `gorm:"column:proposal_id" json:"proposal_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Reason     *string   `gorm:"column:reason" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Proposal) TableName() string {
	return "proposals"
}

func (ProposalSecondaryTopic) TableName() string {
	return "proposal_secondary_topics"
}

func (ProposalStatusHistory) TableName() string {
	return "proposal_status_history"
}

// IsDraft reports whether the proposal can still be edited or deleted.
func (p *Proposal) IsDraft() bool {
	return p.Status == ProposalStatusDraft
}
