package services

import (
	"errors"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"

	"gorm.io/gorm"
)

// Catalog errors surfaced to the action boundary.
var (
	ErrMainAreaNotFound   = errors.New("Main area not found")
	ErrMainAreaReferenced = errors.New("Cannot delete a main area referenced by proposals")
	ErrCategoryNotFound   = errors.New("Category not found")
	ErrCategoryReferenced = errors.New("Cannot delete a category referenced by proposals")
	ErrCentreNotFound     = errors.New("Centre not found")
	ErrCentreReferenced   = errors.New("Cannot delete a centre referenced by proposals or users")
)

// CatalogService owns CRUD over the classification catalog entities.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService instantiates the service.
func NewCatalogService(db *gorm.DB) *CatalogService {
	if db == nil {
		db = config.DB
	}
	return &CatalogService{db: db}
}

// ListMainAreas returns live main areas ordered by name.
func (s *CatalogService) ListMainAreas() ([]models.MainArea, error) {
	var areas []models.MainArea
	err := s.db.Where("delete_at IS NULL").Order("name ASC").Find(&areas).Error
	return areas, err
}

// CreateMainArea inserts a classification topic.
func (s *CatalogService) CreateMainArea(name string, description *string) (*models.MainArea, error) {
	now := time.Now()
	area := models.MainArea{
		Name:        name,
		Description: description,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := s.db.Create(&area).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

// UpdateMainArea patches a live main area.
func (s *CatalogService) UpdateMainArea(mainAreaID int, name string, description *string) (*models.MainArea, error) {
	var area models.MainArea
	if err := s.db.Where("main_area_id = ? AND delete_at IS NULL", mainAreaID).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMainAreaNotFound
		}
		return nil, err
	}

	now := time.Now()
	if err := s.db.Model(&models.MainArea{}).
		Where("main_area_id = ?", mainAreaID).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
			"update_at":   now,
		}).Error; err != nil {
		return nil, err
	}
	area.Name = name
	area.Description = description
	area.UpdateAt = &now
	return &area, nil
}

// DeleteMainArea soft-deletes a topic no proposal references as a main or
// secondary topic.
func (s *CatalogService) DeleteMainArea(mainAreaID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var area models.MainArea
		if err := tx.Where("main_area_id = ? AND delete_at IS NULL", mainAreaID).First(&area).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMainAreaNotFound
			}
			return err
		}

		var asMain int64
		if err := tx.Model(&models.Proposal{}).
			Where("main_area_id = ? AND is_deleted = ?", mainAreaID, false).
			Count(&asMain).Error; err != nil {
			return err
		}
		var asSecondary int64
		if err := tx.Model(&models.ProposalSecondaryTopic{}).
			Where("main_area_id = ?", mainAreaID).
			Count(&asSecondary).Error; err != nil {
			return err
		}
		if asMain > 0 || asSecondary > 0 {
			return ErrMainAreaReferenced
		}

		now := time.Now()
		return tx.Model(&models.MainArea{}).
			Where("main_area_id = ?", mainAreaID).
			Updates(map[string]interface{}{
				"delete_at": now,
				"update_at": now,
			}).Error
	})
}

// ListCategories returns live categories ordered by name.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Where("delete_at IS NULL").Order("name ASC").Find(&categories).Error
	return categories, err
}

// CreateCategory inserts a study-type category.
func (s *CatalogService) CreateCategory(name string) (*models.Category, error) {
	now := time.Now()
	category := models.Category{
		Name:     name,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory soft-deletes a category no proposal references.
func (s *CatalogService) DeleteCategory(categoryID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("category_id = ? AND delete_at IS NULL", categoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Proposal{}).
			Where("category_id = ? AND is_deleted = ?", categoryID, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryReferenced
		}

		now := time.Now()
		return tx.Model(&models.Category{}).
			Where("category_id = ?", categoryID).
			Updates(map[string]interface{}{
				"delete_at": now,
				"update_at": now,
			}).Error
	})
}

// ListCentres returns live centres ordered by name.
func (s *CatalogService) ListCentres() ([]models.Centre, error) {
	var centres []models.Centre
	err := s.db.Where("delete_at IS NULL").Order("name ASC").Find(&centres).Error
	return centres, err
}

// CreateCentre inserts a participating clinical site.
func (s *CatalogService) CreateCentre(name string, city, country *string) (*models.Centre, error) {
	now := time.Now()
	centre := models.Centre{
		Name:     name,
		City:     city,
		Country:  country,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := s.db.Create(&centre).Error; err != nil {
		return nil, err
	}
	return &centre, nil
}

// DeleteCentre soft-deletes a centre with no proposals and no users.
func (s *CatalogService) DeleteCentre(centreID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var centre models.Centre
		if err := tx.Where("centre_id = ? AND delete_at IS NULL", centreID).First(&centre).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCentreNotFound
			}
			return err
		}

		var proposals int64
		if err := tx.Model(&models.Proposal{}).
			Where("centre_id = ? AND is_deleted = ?", centreID, false).
			Count(&proposals).Error; err != nil {
			return err
		}
		var users int64
		if err := tx.Model(&models.User{}).
			Where("centre_id = ? AND delete_at IS NULL", centreID).
			Count(&users).Error; err != nil {
			return err
		}
		if proposals > 0 || users > 0 {
			return ErrCentreReferenced
		}

		now := time.Now()
		return tx.Model(&models.Centre{}).
			Where("centre_id = ?", centreID).
			Updates(map[string]interface{}{
				"delete_at": now,
				"update_at": now,
			}).Error
	})
}
