package models

import (
	"strings"
	"time"
)

// Permission kinds stored in users.permissions (comma separated).
const (
	PermissionSubmission = "SUBMISSION"
	PermissionReviewing  = "REVIEWING"
	PermissionAdmin      = "ADMIN"
)

type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Prefix      *string    `gorm:"column:prefix" json:"prefix,omitempty"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	Permissions string     `gorm:"column:permissions" json:"permissions"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CentreID    *int       `gorm:"column:centre_id" json:"centre_id,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Centre       *Centre         `gorm:"foreignKey:CentreID;references:CentreID" json:"centre,omitempty"`
	ReviewTopics []ReviewerTopic `gorm:"foreignKey:UserID;references:UserID" json:"review_topics,omitempty"`
}

type Centre struct {
	CentreID int        `gorm:"primaryKey;column:centre_id" json:"centre_id"`
	Name     string     `gorm:"column:name" json:"name"`
	City     *string    `gorm:"column:city" json:"city,omitempty"`
	Country  *string    `gorm:"column:country" json:"country,omitempty"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// ReviewerTopic links a reviewer to a main area they are comfortable reviewing.
// Used only to bias reviewer ordering in the assignment UI, never to filter.
type ReviewerTopic struct {
	ReviewerTopicID int `gorm:"primaryKey;column:reviewer_topic_id" json:"reviewer_topic_id"`
	UserID          int `gorm:"column:user_id" json:"user_id"`
	MainAreaID      int `gorm:"column:main_area_id" json:"main_area_id"`

	MainArea *MainArea `gorm:"foreignKey:MainAreaID;references:MainAreaID" json:"main_area,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Centre) TableName() string {
	return "centres"
}

func (ReviewerTopic) TableName() string {
	return "reviewer_topics"
}

// PermissionList splits the stored permissions column.
func (u *User) PermissionList() []string {
	if strings.TrimSpace(u.Permissions) == "" {
		return nil
	}
	parts := strings.Split(u.Permissions, ",")
	perms := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			perms = append(perms, trimmed)
		}
	}
	return perms
}

// HasPermission reports whether the user holds the given permission kind.
func (u *User) HasPermission(permission string) bool {
	for _, p := range u.PermissionList() {
		if p == permission {
			return true
		}
	}
	return false
}

// DisplayName renders "Prefix First Last" without empty segments.
func (u *User) DisplayName() string {
	parts := make([]string, 0, 3)
	if u.Prefix != nil && strings.TrimSpace(*u.Prefix) != "" {
		parts = append(parts, strings.TrimSpace(*u.Prefix))
	}
	if strings.TrimSpace(u.FirstName) != "" {
		parts = append(parts, strings.TrimSpace(u.FirstName))
	}
	if strings.TrimSpace(u.LastName) != "" {
		parts = append(parts, strings.TrimSpace(u.LastName))
	}
	return strings.Join(parts, " ")
}

// ReviewsTopic reports whether the reviewer has declared the given main area.
func (u *User) ReviewsTopic(mainAreaID int) bool {
	for _, topic := range u.ReviewTopics {
		if topic.MainAreaID == mainAreaID {
			return true
		}
	}
	return false
}
