package models

import "time"

// MainArea represents a classification topic proposals are tagged with.
type MainArea struct {
	MainAreaID  int        `gorm:"primaryKey;column:main_area_id" json:"main_area_id"`
	Name        string     `gorm:"column:name" json:"name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Category represents the study-type classification of a proposal.
type Category struct {
	CategoryID int        `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name       string     `gorm:"column:name" json:"name"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (MainArea) TableName() string {
	return "main_areas"
}

func (Category) TableName() string {
	return "categories"
}
