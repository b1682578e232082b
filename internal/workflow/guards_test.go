package workflow_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

func guardRecord(kind string, owner uuid.UUID, status string) *interfaces.SubmissionRecord {
	return &interfaces.SubmissionRecord{
		EntityKind: kind,
		EntityID:   uuid.New(),
		Status:     interfaces.SubmissionStatus(status),
		OwnerID:    owner,
	}
}

func TestGuardPublisherRequiresAdminOrOwner(t *testing.T) {
	guards := workflow.NewGuardEvaluator()
	record := guardRecord("listing", uuid.New(), "submitted")

	for _, role := range []string{"developer", "staff", "agent", "ops", "guest"} {
		err := guards.Authorize(workflow.GuardPublisher, interfaces.Actor{ID: uuid.New(), Role: role}, record)
		if !errors.Is(err, workflow.ErrForbidden) {
			t.Fatalf("role %s should not publish, got %v", role, err)
		}
	}
	for _, role := range []string{"admin", "owner"} {
		if err := guards.Authorize(workflow.GuardPublisher, interfaces.Actor{ID: uuid.New(), Role: role}, record); err != nil {
			t.Fatalf("role %s should publish, got %v", role, err)
		}
	}
}

func TestGuardArchiverAllowsStaffsideForListings(t *testing.T) {
	guards := workflow.NewGuardEvaluator()

	listing := guardRecord("listing", uuid.New(), "published")
	for _, role := range []string{"staff", "ops", "agent", "admin", "owner"} {
		if err := guards.Authorize(workflow.GuardArchiver, interfaces.Actor{ID: uuid.New(), Role: role}, listing); err != nil {
			t.Fatalf("role %s should archive listings, got %v", role, err)
		}
	}

	developerID := uuid.New()
	campaign := guardRecord("ad_campaign", developerID, "published")
	err := guards.Authorize(workflow.GuardArchiver, interfaces.Actor{ID: developerID, Role: "developer"}, campaign)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("owning developer must not self-archive a campaign, got %v", err)
	}
	if err := guards.Authorize(workflow.GuardArchiver, interfaces.Actor{ID: uuid.New(), Role: "admin"}, campaign); err != nil {
		t.Fatalf("admin should archive campaigns, got %v", err)
	}
}

func TestGuardSubmitterRequiresOwnership(t *testing.T) {
	guards := workflow.NewGuardEvaluator()
	ownerID := uuid.New()
	record := guardRecord("project", ownerID, "draft")

	if err := guards.Authorize(workflow.GuardSubmitter, interfaces.Actor{ID: ownerID, Role: "developer"}, record); err != nil {
		t.Fatalf("owning developer should submit, got %v", err)
	}

	err := guards.Authorize(workflow.GuardSubmitter, interfaces.Actor{ID: uuid.New(), Role: "developer"}, record)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("non-owner developer must not submit, got %v", err)
	}

	// Admins and owners act on behalf of developers.
	if err := guards.Authorize(workflow.GuardSubmitter, interfaces.Actor{ID: uuid.New(), Role: "admin"}, record); err != nil {
		t.Fatalf("admin should submit on behalf of a developer, got %v", err)
	}

	err = guards.Authorize(workflow.GuardSubmitter, interfaces.Actor{ID: ownerID, Role: "guest"}, record)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("guest must not submit, got %v", err)
	}
}

func TestGuardReviewerBlocksSelfReview(t *testing.T) {
	guards := workflow.NewGuardEvaluator()
	staffID := uuid.New()
	record := guardRecord("listing", staffID, "submitted")

	err := guards.Authorize(workflow.GuardReviewer, interfaces.Actor{ID: staffID, Role: "staff"}, record)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("staff owner must not review own submission, got %v", err)
	}

	if err := guards.Authorize(workflow.GuardReviewer, interfaces.Actor{ID: uuid.New(), Role: "ops"}, record); err != nil {
		t.Fatalf("ops reviewer should review, got %v", err)
	}

	err = guards.Authorize(workflow.GuardReviewer, interfaces.Actor{ID: uuid.New(), Role: "developer"}, record)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("developer must not review, got %v", err)
	}
}

func TestEditableByConfinesOwnersToEditableStates(t *testing.T) {
	ownerID := uuid.New()

	for status, want := range map[string]bool{
		"draft":         true,
		"needs_changes": true,
		"submitted":     false,
		"under_review":  false,
		"approved":      false,
		"published":     false,
		"archived":      false,
	} {
		record := guardRecord("listing", ownerID, status)
		if got := workflow.EditableBy(interfaces.Actor{ID: ownerID, Role: "developer"}, record); got != want {
			t.Fatalf("editable in %s: want %v got %v", status, want, got)
		}
	}

	record := guardRecord("listing", ownerID, "published")
	if !workflow.EditableBy(interfaces.Actor{ID: uuid.New(), Role: "admin"}, record) {
		t.Fatalf("admin should remain able to edit")
	}
	if workflow.EditableBy(interfaces.Actor{ID: uuid.New(), Role: "developer"}, guardRecord("listing", ownerID, "draft")) {
		t.Fatalf("non-owner developer must not edit")
	}
}
