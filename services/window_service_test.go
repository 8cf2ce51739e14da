package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stoupi/mmvd-sub000/models"
)

func windowInput(name string) *WindowInput {
	now := time.Now()
	return &WindowInput{
		Name:              name,
		SubmissionOpenAt:  now,
		SubmissionCloseAt: now.AddDate(0, 2, 0),
	}
}

func TestCreateWindowDefaultsToUpcoming(t *testing.T) {
	db := newTestDB(t)
	svc := NewWindowService(db)

	window, err := svc.Create(windowInput("2026 Spring Call"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if window.Status != models.WindowStatusUpcoming {
		t.Errorf("expected status UPCOMING, got %s", window.Status)
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewWindowService(db)

	window, err := svc.Create(windowInput("2026 Spring Call"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.SetStatus(window.WindowID, "PAUSED"); !errors.Is(err, ErrInvalidWindowStatus) {
		t.Fatalf("expected ErrInvalidWindowStatus, got %v", err)
	}

	updated, err := svc.SetStatus(window.WindowID, models.WindowStatusOpen)
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if updated.Status != models.WindowStatusOpen {
		t.Errorf("expected status OPEN, got %s", updated.Status)
	}
}

func TestCurrentReturnsOpenWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewWindowService(db)

	if _, err := svc.Current(); !errors.Is(err, ErrNoOpenWindow) {
		t.Fatalf("expected ErrNoOpenWindow, got %v", err)
	}

	seedWindow(t, db, models.WindowStatusClosed)
	open := seedWindow(t, db, models.WindowStatusOpen)

	current, err := svc.Current()
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if current.WindowID != open.WindowID {
		t.Errorf("expected window %d, got %d", open.WindowID, current.WindowID)
	}
}

func TestDeleteWindowGuardedByProposals(t *testing.T) {
	db := newTestDB(t)
	svc := NewWindowService(db)

	pi := seedUser(t, db, "Alice", "Amundsen", models.PermissionSubmission)
	centre := seedCentre(t, db)
	area := seedMainArea(t, db, "Cardiology")
	window := seedWindow(t, db, models.WindowStatusOpen)
	seedProposal(t, db, pi, centre, window, area, models.ProposalStatusDraft)

	if err := svc.Delete(window.WindowID); !errors.Is(err, ErrWindowHasProposals) {
		t.Fatalf("expected ErrWindowHasProposals, got %v", err)
	}

	empty := seedWindow(t, db, models.WindowStatusUpcoming)
	if err := svc.Delete(empty.WindowID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(empty.WindowID); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound after delete, got %v", err)
	}
}

func TestUpdateWindowKeepsStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewWindowService(db)

	window := seedWindow(t, db, models.WindowStatusOpen)

	updated, err := svc.Update(window.WindowID, windowInput("Renamed call"))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Renamed call" {
		t.Errorf("expected renamed window, got %s", updated.Name)
	}
	if updated.Status != models.WindowStatusOpen {
		t.Errorf("Update must not touch status, got %s", updated.Status)
	}
}
