package models

import "time"

// Submission window statuses. The stored status is authoritative and
// admin-set; the open/close dates are descriptive metadata only.
const (
	WindowStatusUpcoming = "UPCOMING"
	WindowStatusOpen     = "OPEN"
	WindowStatusReview   = "REVIEW"
	WindowStatusResponse = "RESPONSE"
	WindowStatusClosed   = "CLOSED"
)

// SubmissionWindow represents a time-boxed call for proposals.
type SubmissionWindow struct {
	WindowID          int        `gorm:"primaryKey;column:window_id" json:"window_id"`
	Name              string     `gorm:"column:name" json:"name"`
	SubmissionOpenAt  time.Time  `gorm:"column:submission_open_at" json:"submission_open_at"`
	SubmissionCloseAt time.Time  `gorm:"column:submission_close_at" json:"submission_close_at"`
	ReviewDeadline    *time.Time `gorm:"column:review_deadline" json:"review_deadline,omitempty"`
	Status            string     `gorm:"column:status" json:"status"`
	CreateAt          *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides the table name for SubmissionWindow
func (SubmissionWindow) TableName() string {
	return "submission_windows"
}

// IsOpen reports whether the window currently accepts submissions.
func (w *SubmissionWindow) IsOpen() bool {
	return w.Status == WindowStatusOpen
}

// ValidWindowStatus reports whether the value is a declared window status.
func ValidWindowStatus(status string) bool {
	switch status {
	case WindowStatusUpcoming, WindowStatusOpen, WindowStatusReview, WindowStatusResponse, WindowStatusClosed:
		return true
	}
	return false
}
