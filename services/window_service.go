package services

import (
	"errors"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"

	"gorm.io/gorm"
)

// Window errors surfaced to the action boundary.
var (
	ErrWindowHasProposals  = errors.New("Cannot delete a window with proposals")
	ErrInvalidWindowStatus = errors.New("Invalid window status")
	ErrNoOpenWindow        = errors.New("No submission window is currently open")
)

// WindowInput carries admin-provided window fields.
type WindowInput struct {
	Name              string     `json:"name" binding:"required"`
	SubmissionOpenAt  time.Time  `json:"submission_open_at" binding:"required"`
	SubmissionCloseAt time.Time  `json:"submission_close_at" binding:"required"`
	ReviewDeadline    *time.Time `json:"review_deadline"`
	Status            string     `json:"status"`
}

// WindowService owns submission window CRUD. The status enum is
// authoritative and admin-toggled; dates are informational.
type WindowService struct {
	db *gorm.DB
}

// NewWindowService instantiates the service.
func NewWindowService(db *gorm.DB) *WindowService {
	if db == nil {
		db = config.DB
	}
	return &WindowService{db: db}
}

// Create inserts a window, defaulting to UPCOMING.
func (s *WindowService) Create(input *WindowInput) (*models.SubmissionWindow, error) {
	status := input.Status
	if status == "" {
		status = models.WindowStatusUpcoming
	}
	if !models.ValidWindowStatus(status) {
		return nil, ErrInvalidWindowStatus
	}

	now := time.Now()
	window := models.SubmissionWindow{
		Name:              input.Name,
		SubmissionOpenAt:  input.SubmissionOpenAt,
		SubmissionCloseAt: input.SubmissionCloseAt,
		ReviewDeadline:    input.ReviewDeadline,
		Status:            status,
		CreateAt:          &now,
		UpdateAt:          &now,
	}
	if err := s.db.Create(&window).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

// Update patches name and dates. Status changes go through SetStatus.
func (s *WindowService) Update(windowID int, input *WindowInput) (*models.SubmissionWindow, error) {
	window, err := s.Get(windowID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Model(&models.SubmissionWindow{}).
		Where("window_id = ?", window.WindowID).
		Updates(map[string]interface{}{
			"name":                input.Name,
			"submission_open_at":  input.SubmissionOpenAt,
			"submission_close_at": input.SubmissionCloseAt,
			"review_deadline":     input.ReviewDeadline,
			"update_at":           now,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(windowID)
}

// SetStatus moves the window to a new admin-chosen status.
func (s *WindowService) SetStatus(windowID int, status string) (*models.SubmissionWindow, error) {
	if !models.ValidWindowStatus(status) {
		return nil, ErrInvalidWindowStatus
	}

	window, err := s.Get(windowID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Model(&models.SubmissionWindow{}).
		Where("window_id = ?", window.WindowID).
		Updates(map[string]interface{}{
			"status":    status,
			"update_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(windowID)
}

// Delete soft-deletes a window with zero proposals.
func (s *WindowService) Delete(windowID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var window models.SubmissionWindow
		if err := tx.Where("window_id = ? AND delete_at IS NULL", windowID).First(&window).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWindowNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Proposal{}).
			Where("window_id = ? AND is_deleted = ?", windowID, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrWindowHasProposals
		}

		now := time.Now()
		return tx.Model(&models.SubmissionWindow{}).
			Where("window_id = ?", windowID).
			Updates(map[string]interface{}{
				"delete_at": now,
				"update_at": now,
			}).Error
	})
}

// Get loads one live window.
func (s *WindowService) Get(windowID int) (*models.SubmissionWindow, error) {
	var window models.SubmissionWindow
	if err := s.db.Where("window_id = ? AND delete_at IS NULL", windowID).First(&window).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}
	return &window, nil
}

// List returns all live windows, newest opening first.
func (s *WindowService) List() ([]models.SubmissionWindow, error) {
	var windows []models.SubmissionWindow
	err := s.db.Where("delete_at IS NULL").
		Order("submission_open_at DESC").
		Find(&windows).Error
	return windows, err
}

// Current returns the window whose status is OPEN, if any.
func (s *WindowService) Current() (*models.SubmissionWindow, error) {
	var window models.SubmissionWindow
	err := s.db.Where("status = ? AND delete_at IS NULL", models.WindowStatusOpen).
		Order("submission_open_at DESC").
		First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenWindow
		}
		return nil, err
	}
	return &window, nil
}
