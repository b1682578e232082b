package marketplace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	marketplace "github.com/goliatone/go-marketplace"
	"github.com/goliatone/go-marketplace/internal/activity"
	"github.com/goliatone/go-marketplace/internal/campaigns"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/media"
	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/internal/projects"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/goliatone/go-marketplace/pkg/storage"
)

func newSQLiteModule(t *testing.T, mutate func(*marketplace.Config)) (*marketplace.Module, *activity.MemorySink) {
	t.Helper()

	db, err := storage.Open(storage.Config{Driver: "sqlite", DSN: "file::memory:?cache=shared&mode=memory&_fk=1"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := storage.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	cfg := marketplace.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = 50 * time.Millisecond
	cfg.Logging.Provider = "noop"
	cfg.Features.PayloadValidation = true
	if mutate != nil {
		mutate(&cfg)
	}

	sink := activity.NewMemorySink()
	module, err := marketplace.New(cfg,
		di.WithBunDB(db),
		di.WithActivitySink(sink),
	)
	if err != nil {
		t.Fatalf("new marketplace module: %v", err)
	}
	return module, sink
}

func TestModule_ListingLifecycleWithBunAndCache(t *testing.T) {
	ctx := context.Background()
	module, sink := newSQLiteModule(t, nil)

	owner := uuid.New()
	developer := marketplace.Actor{ID: owner, Role: "developer"}
	reviewer := marketplace.Actor{ID: uuid.New(), Role: "staff"}
	admin := marketplace.Actor{ID: uuid.New(), Role: "admin"}

	project, err := module.Projects().Create(ctx, projects.CreateProjectRequest{
		OwnerID:   owner,
		Name:      "Palm Heights October",
		UnitCount: 240,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	listing, err := module.Listings().Create(ctx, listings.CreateListingRequest{
		OwnerID:      owner,
		ProjectID:    &project.ID,
		Title:        "Three bedroom apartment, garden view",
		PropertyType: "apartment",
		Purpose:      "sale",
		Price:        8_400_000,
		Bedrooms:     3,
		Bathrooms:    2,
		AreaSqm:      165,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if listing.SubmissionStatus != "draft" || listing.Status != "draft" {
		t.Fatalf("expected draft listing, got %s/%s", listing.SubmissionStatus, listing.Status)
	}

	if _, err := module.Media().Attach(ctx, media.AttachAssetRequest{
		OwnerID:    owner,
		EntityKind: "listing",
		EntityID:   listing.ID,
		URL:        "https://cdn.example.com/photos/li-001.jpg",
	}); err != nil {
		t.Fatalf("attach media: %v", err)
	}

	engine := module.WorkflowEngine()

	record, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "submitted",
		Actor:      developer,
	})
	if err != nil {
		t.Fatalf("submit listing: %v", err)
	}
	if record.SubmittedAt == nil {
		t.Fatal("expected submitted_at")
	}
	if len(record.Payload) == 0 {
		t.Fatal("expected payload snapshot on submit")
	}

	if _, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "needs_changes",
		Actor:      reviewer,
		Note:       "photos are too dark, please reshoot unit 102",
	}); err != nil {
		t.Fatalf("request changes: %v", err)
	}

	visible, err := module.Notes().ListForEntity(ctx, "listing", listing.ID, developer)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected the reviewer note to be developer-visible, got %d", len(visible))
	}

	if _, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "submitted",
		Actor:      developer,
	}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	if _, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "approved",
		Actor:      reviewer,
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	record, err = engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "published",
		Actor:      admin,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if record.Projection != "published" {
		t.Fatalf("expected published projection, got %q", record.Projection)
	}

	stored, err := module.Listings().Get(ctx, listing.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if stored.Status != "published" || stored.PublishedAt == nil {
		t.Fatalf("expected published listing row, got status %q", stored.Status)
	}

	verbs := map[string]int{}
	for _, entry := range sink.Entries() {
		verbs[entry.Verb]++
	}
	if verbs["listing_submission_status"] != 5 {
		t.Fatalf("expected 5 transition audit entries, got %d", verbs["listing_submission_status"])
	}
}

func TestModule_PublishRequiresPublisherRole(t *testing.T) {
	ctx := context.Background()
	module, _ := newSQLiteModule(t, nil)

	owner := uuid.New()
	developer := marketplace.Actor{ID: owner, Role: "developer"}

	listing, err := module.Listings().Create(ctx, listings.CreateListingRequest{
		OwnerID:      owner,
		Title:        "Studio near AUC",
		PropertyType: "apartment",
		Purpose:      "rent",
		Price:        25_000,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	engine := module.WorkflowEngine()
	if _, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "submitted",
		Actor:      developer,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = engine.AttemptTransition(ctx, marketplace.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "published",
		Actor:      marketplace.Actor{ID: uuid.New(), Role: "staff"},
	})
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for staff publish, got %v", err)
	}
}

func TestModule_CampaignActivationFlow(t *testing.T) {
	ctx := context.Background()
	module, _ := newSQLiteModule(t, nil)

	owner := uuid.New()
	developer := marketplace.Actor{ID: owner, Role: "developer"}

	campaign, err := module.Campaigns().Create(ctx, campaigns.CreateCampaignRequest{
		OwnerID:   owner,
		Name:      "October launch leads",
		Objective: "leads",
		Budget:    150_000,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if campaign.SubmissionStatus != "pending_setup" {
		t.Fatalf("expected pending_setup, got %s", campaign.SubmissionStatus)
	}

	engine := module.WorkflowEngine()
	for _, target := range []string{"draft", "submitted"} {
		if _, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
			EntityKind: "ad_campaign",
			EntityID:   campaign.ID,
			Target:     marketplace.SubmissionStatus(target),
			Actor:      developer,
		}); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}

	snapshot, err := module.ReviewQueue().Snapshot(ctx, marketplace.Actor{ID: uuid.New(), Role: "ops"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.Totals["submitted"] != 1 {
		t.Fatalf("expected 1 submitted, got %d", snapshot.Totals["submitted"])
	}
}

func TestModule_NotesVisibilityAcrossPortals(t *testing.T) {
	ctx := context.Background()
	module, _ := newSQLiteModule(t, nil)

	entityID := uuid.New()
	staff := marketplace.Actor{ID: uuid.New(), Role: "staff"}

	noteSvc := module.Notes()
	for _, visibility := range []string{notes.VisibilityDeveloper, notes.VisibilityInternal} {
		if err := noteSvc.Append(ctx, interfaces.NoteInput{
			EntityKind: "listing",
			EntityID:   entityID,
			AuthorID:   staff.ID,
			AuthorRole: staff.Role,
			Visibility: visibility,
			Note:       "note with " + visibility + " visibility",
		}); err != nil {
			t.Fatalf("append %s note: %v", visibility, err)
		}
	}

	developerView, err := noteSvc.ListForEntity(ctx, "listing", entityID, marketplace.Actor{ID: uuid.New(), Role: "developer"})
	if err != nil {
		t.Fatalf("developer view: %v", err)
	}
	if len(developerView) != 1 {
		t.Fatalf("expected internal note hidden from developers, got %d notes", len(developerView))
	}

	staffView, err := noteSvc.ListForEntity(ctx, "listing", entityID, staff)
	if err != nil {
		t.Fatalf("staff view: %v", err)
	}
	if len(staffView) != 2 {
		t.Fatalf("expected both notes for staff, got %d", len(staffView))
	}
}
