//go:build integration

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestIntegration_Application_Lifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	listing, err := db.InsertListingIfAbsent(ctx, testListing("test-"+uuid.New().String(), true))
	if err != nil {
		t.Fatalf("insert listing failed: %v", err)
	}

	app, err := db.CreateApplication(ctx, listing.ID, StatusPending, "resumes/Backend.pdf")
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if app.Status != StatusPending {
		t.Errorf("Status = %q, want pending", app.Status)
	}
	if app.SubmittedAt != nil {
		t.Error("pending application must not have submitted_at")
	}
	if app.ResumeUsed == nil || *app.ResumeUsed != "resumes/Backend.pdf" {
		t.Error("resume_used should be recorded at creation")
	}

	updated, err := db.SetApplicationStatus(ctx, app.ID, StatusQuickApplied, "")
	if err != nil {
		t.Fatalf("SetApplicationStatus failed: %v", err)
	}
	if updated.Status != StatusQuickApplied {
		t.Errorf("Status = %q, want quick_applied", updated.Status)
	}
	if updated.SubmittedAt == nil {
		t.Error("success status must set submitted_at")
	}
}

func TestIntegration_Application_FailureKeepsSubmittedAtNull(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	listing, err := db.InsertListingIfAbsent(ctx, testListing("test-"+uuid.New().String(), true))
	if err != nil {
		t.Fatalf("insert listing failed: %v", err)
	}

	app, err := db.CreateApplication(ctx, listing.ID, StatusPending, "")
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	failed, err := db.SetApplicationStatus(ctx, app.ID, StatusFailed, "step limit reached")
	if err != nil {
		t.Fatalf("SetApplicationStatus failed: %v", err)
	}
	if failed.SubmittedAt != nil {
		t.Error("failed application must not have submitted_at")
	}
	if failed.ErrorMessage == nil || *failed.ErrorMessage != "step limit reached" {
		t.Error("error_message should be recorded")
	}
}

func TestIntegration_SetApplicationStatus_UnknownID(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	_, err := db.SetApplicationStatus(ctx, uuid.New(), StatusFailed, "")
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("err = %v, want ErrApplicationNotFound", err)
	}
}

func TestIntegration_Stats_CountsByStatus(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	before, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	listing, err := db.InsertListingIfAbsent(ctx, testListing("test-"+uuid.New().String(), true))
	if err != nil {
		t.Fatalf("insert listing failed: %v", err)
	}
	app, err := db.CreateApplication(ctx, listing.ID, StatusPending, "")
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if _, err := db.SetApplicationStatus(ctx, app.ID, StatusSkipped, ""); err != nil {
		t.Fatalf("SetApplicationStatus failed: %v", err)
	}

	after, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if got := after.TotalListings - before.TotalListings; got != 1 {
		t.Errorf("TotalListings grew by %d, want 1", got)
	}
	if got := after.Skipped - before.Skipped; got != 1 {
		t.Errorf("Skipped grew by %d, want 1", got)
	}
}
