package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stoupi/mmvd-sub000/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database migrated with every model.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Centre{},
		&models.ReviewerTopic{},
		&models.MainArea{},
		&models.Category{},
		&models.SubmissionWindow{},
		&models.Proposal{},
		&models.ProposalSecondaryTopic{},
		&models.ProposalStatusHistory{},
		&models.Review{},
		&models.UserToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type sentMail struct {
	to      []string
	subject string
	html    string
}

// captureMail swaps the package mail hook for the duration of the test.
func captureMail(t *testing.T) *[]sentMail {
	t.Helper()

	var sent []sentMail
	original := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error {
		sent = append(sent, sentMail{to: to, subject: subject, html: html})
		return nil
	}
	t.Cleanup(func() { sendMailFunc = original })
	return &sent
}

// failMail makes every outgoing email fail for the duration of the test.
func failMail(t *testing.T) {
	t.Helper()

	original := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error {
		return fmt.Errorf("smtp unavailable")
	}
	t.Cleanup(func() { sendMailFunc = original })
}

var seedSequence int

func nextSeed() int {
	seedSequence++
	return seedSequence
}

func seedCentre(t *testing.T, db *gorm.DB) *models.Centre {
	t.Helper()

	now := time.Now()
	centre := models.Centre{
		Name:     fmt.Sprintf("Centre %d", nextSeed()),
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := db.Create(&centre).Error; err != nil {
		t.Fatalf("failed to seed centre: %v", err)
	}
	return &centre
}

func seedWindow(t *testing.T, db *gorm.DB, status string) *models.SubmissionWindow {
	t.Helper()

	now := time.Now()
	window := models.SubmissionWindow{
		Name:              fmt.Sprintf("Window %d", nextSeed()),
		SubmissionOpenAt:  now.AddDate(0, -1, 0),
		SubmissionCloseAt: now.AddDate(0, 1, 0),
		Status:            status,
		CreateAt:          &now,
		UpdateAt:          &now,
	}
	if err := db.Create(&window).Error; err != nil {
		t.Fatalf("failed to seed window: %v", err)
	}
	return &window
}

func seedMainArea(t *testing.T, db *gorm.DB, name string) *models.MainArea {
	t.Helper()

	now := time.Now()
	area := models.MainArea{
		Name:     name,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := db.Create(&area).Error; err != nil {
		t.Fatalf("failed to seed main area: %v", err)
	}
	return &area
}

func seedUser(t *testing.T, db *gorm.DB, firstName, lastName, permissions string) *models.User {
	t.Helper()

	now := time.Now()
	user := models.User{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       fmt.Sprintf("user%d@example.org", nextSeed()),
		Password:    "not-a-real-hash",
		Permissions: permissions,
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func seedReviewerTopic(t *testing.T, db *gorm.DB, userID, mainAreaID int) {
	t.Helper()

	topic := models.ReviewerTopic{UserID: userID, MainAreaID: mainAreaID}
	if err := db.Create(&topic).Error; err != nil {
		t.Fatalf("failed to seed reviewer topic: %v", err)
	}
}

// seedProposal inserts a proposal directly with the given status.
func seedProposal(t *testing.T, db *gorm.DB, pi *models.User, centre *models.Centre, window *models.SubmissionWindow, area *models.MainArea, status string) *models.Proposal {
	t.Helper()

	now := time.Now()
	proposal := models.Proposal{
		ProposalNumber: fmt.Sprintf("AS-TEST%04d", nextSeed()),
		Title:          fmt.Sprintf("Proposal %d", seedSequence),
		PIUserID:       pi.UserID,
		CentreID:       centre.CentreID,
		WindowID:       window.WindowID,
		MainAreaID:     area.MainAreaID,
		Background:     "background",
		Objectives:     "objectives",
		Methods:        "methods",
		Status:         status,
		CreateAt:       &now,
		UpdateAt:       &now,
	}
	if status != models.ProposalStatusDraft {
		submitted := now
		proposal.SubmittedAt = &submitted
	}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("failed to seed proposal: %v", err)
	}
	return &proposal
}
