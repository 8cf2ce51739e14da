package services

import (
	"errors"
	"testing"

	"github.com/stoupi/mmvd-sub000/models"
)

func TestDeleteMainAreaGuardedByReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusOpen)
	asMain := seedMainArea(t, db, "Cardiology")
	asSecondary := seedMainArea(t, db, "Nephrology")
	unused := seedMainArea(t, db, "Neurology")

	proposal := seedProposal(t, db, pi, centre, window, asMain, models.ProposalStatusDraft)
	topic := models.ProposalSecondaryTopic{ProposalID: proposal.ProposalID, MainAreaID: asSecondary.MainAreaID}
	if err := db.Create(&topic).Error; err != nil {
		t.Fatalf("failed to seed secondary topic: %v", err)
	}

	if err := svc.DeleteMainArea(asMain.MainAreaID); !errors.Is(err, ErrMainAreaReferenced) {
		t.Fatalf("expected ErrMainAreaReferenced for main topic, got %v", err)
	}
	if err := svc.DeleteMainArea(asSecondary.MainAreaID); !errors.Is(err, ErrMainAreaReferenced) {
		t.Fatalf("expected ErrMainAreaReferenced for secondary topic, got %v", err)
	}
	if err := svc.DeleteMainArea(unused.MainAreaID); err != nil {
		t.Fatalf("DeleteMainArea returned error: %v", err)
	}

	areas, err := svc.ListMainAreas()
	if err != nil {
		t.Fatalf("ListMainAreas returned error: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("expected 2 live main areas, got %d", len(areas))
	}
}

func TestDeleteCategoryGuardedByProposals(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	centre := seedCentre(t, db)
	window := seedWindow(t, db, models.WindowStatusOpen)
	area := seedMainArea(t, db, "Cardiology")

	category, err := svc.CreateCategory("Retrospective analysis")
	if err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}

	proposal := seedProposal(t, db, pi, centre, window, area, models.ProposalStatusDraft)
	if err := db.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposal.ProposalID).
		Update("category_id", category.CategoryID).Error; err != nil {
		t.Fatalf("failed to attach category: %v", err)
	}

	if err := svc.DeleteCategory(category.CategoryID); !errors.Is(err, ErrCategoryReferenced) {
		t.Fatalf("expected ErrCategoryReferenced, got %v", err)
	}

	if err := db.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposal.ProposalID).
		Update("is_deleted", true).Error; err != nil {
		t.Fatalf("failed to delete proposal: %v", err)
	}
	if err := svc.DeleteCategory(category.CategoryID); err != nil {
		t.Fatalf("DeleteCategory returned error: %v", err)
	}
}

func TestDeleteCentreGuardedByUsersAndProposals(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	centre := seedCentre(t, db)
	member := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	if err := db.Model(&models.User{}).
		Where("user_id = ?", member.UserID).
		Update("centre_id", centre.CentreID).Error; err != nil {
		t.Fatalf("failed to attach user to centre: %v", err)
	}

	if err := svc.DeleteCentre(centre.CentreID); !errors.Is(err, ErrCentreReferenced) {
		t.Fatalf("expected ErrCentreReferenced, got %v", err)
	}

	empty := seedCentre(t, db)
	if err := svc.DeleteCentre(empty.CentreID); err != nil {
		t.Fatalf("DeleteCentre returned error: %v", err)
	}
	if err := svc.DeleteCentre(empty.CentreID); !errors.Is(err, ErrCentreNotFound) {
		t.Fatalf("expected ErrCentreNotFound for deleted centre, got %v", err)
	}
}

func TestUpdateMainArea(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	area := seedMainArea(t, db, "Cardiology")
	description := "Structural and valvular disease"

	updated, err := svc.UpdateMainArea(area.MainAreaID, "Cardiology and imaging", &description)
	if err != nil {
		t.Fatalf("UpdateMainArea returned error: %v", err)
	}
	if updated.Name != "Cardiology and imaging" {
		t.Errorf("expected renamed area, got %s", updated.Name)
	}
	if updated.Description == nil || *updated.Description != description {
		t.Errorf("expected description stored, got %v", updated.Description)
	}

	if _, err := svc.UpdateMainArea(9999, "Ghost", nil); !errors.Is(err, ErrMainAreaNotFound) {
		t.Fatalf("expected ErrMainAreaNotFound, got %v", err)
	}
}
