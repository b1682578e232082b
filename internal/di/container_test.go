package di_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-marketplace/internal/activity"
	"github.com/goliatone/go-marketplace/internal/campaigns"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/identity"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Cache.Enabled = false
	cfg.Features.AdvancedCache = false
	cfg.Logging.Provider = "noop"
	return cfg
}

func TestNewContainerDefaults(t *testing.T) {
	container, err := di.NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if container.WorkflowEngine() == nil {
		t.Fatal("expected workflow engine")
	}
	if container.ListingService() == nil || container.ProjectService() == nil {
		t.Fatal("expected entity services")
	}
	if container.CampaignService() == nil || container.MediaService() == nil {
		t.Fatal("expected campaign and media services")
	}
	if container.NoteService() == nil {
		t.Fatal("expected note service when notes feature is on")
	}
	if container.ReviewQueueService() == nil {
		t.Fatal("expected review queue service when feature is on")
	}
}

func TestNewContainerFeatureToggles(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.Notes = false
	cfg.Features.ReviewQueue = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.NoteService() != nil {
		t.Fatal("expected nil note service when notes are disabled")
	}
	if container.ReviewQueueService() != nil {
		t.Fatal("expected nil review queue when feature is disabled")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Workflow.Definitions = nil

	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected config validation to fail")
	}
}

func TestContainerEndToEndSubmission(t *testing.T) {
	sink := activity.NewMemorySink()
	container, err := di.NewContainer(memoryConfig(), di.WithActivitySink(sink))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	owner := uuid.New()
	listing, err := container.ListingService().Create(context.Background(), listings.CreateListingRequest{
		OwnerID:      owner,
		Title:        "Garden duplex in Zamalek",
		PropertyType: "duplex",
		Purpose:      "sale",
		Price:        12_500_000,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	record, err := container.WorkflowEngine().AttemptTransition(context.Background(), interfaces.TransitionInput{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "submitted",
		Actor:      interfaces.Actor{ID: owner, Role: "developer"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if record.Status != "submitted" {
		t.Fatalf("expected submitted, got %s", record.Status)
	}
	if record.SubmittedAt == nil {
		t.Fatal("expected submitted_at to be stamped")
	}

	entries := sink.Entries()
	if len(entries) == 0 {
		t.Fatal("expected audit entry for the transition")
	}
	last := entries[len(entries)-1]
	if last.Verb != "listing_submission_status" {
		t.Fatalf("unexpected audit verb %q", last.Verb)
	}

	snapshot, err := container.ReviewQueueService().Snapshot(context.Background(), interfaces.Actor{ID: uuid.New(), Role: "admin"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.Totals["submitted"] != 1 {
		t.Fatalf("expected 1 submitted entity, got %d", snapshot.Totals["submitted"])
	}
}

func TestContainerCampaignsStartInEngineInitialState(t *testing.T) {
	container, err := di.NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	initial, err := container.WorkflowEngine().InitialState("ad_campaign")
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}
	if initial != "pending_setup" {
		t.Fatalf("expected campaigns to start in pending_setup, got %q", initial)
	}

	record, err := container.CampaignService().Create(context.Background(), campaigns.CreateCampaignRequest{
		OwnerID: uuid.New(),
		Name:    "Zamalek Towers Launch",
		Budget:  75000,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if record.SubmissionStatus != string(initial) {
		t.Fatalf("service status %q disagrees with engine initial state %q", record.SubmissionStatus, initial)
	}
	if !strings.HasPrefix(record.ReferenceCode, "CMP-") {
		t.Fatalf("expected a CMP reference code, got %q", record.ReferenceCode)
	}
}

func TestContainerMintsListingCodesFromIdentity(t *testing.T) {
	container, err := di.NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	listing, err := container.ListingService().Create(context.Background(), listings.CreateListingRequest{
		OwnerID:      uuid.New(),
		Title:        "Nile view studio",
		PropertyType: "studio",
		Purpose:      "rent",
		Price:        35_000,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if listing.ListingCode != identity.ListingCode(listing.ID) {
		t.Fatalf("expected code derived from the listing id, got %q", listing.ListingCode)
	}
}

type roleStore map[uuid.UUID]string

func (s roleStore) RoleFor(_ context.Context, userID uuid.UUID) (string, error) {
	role, ok := s[userID]
	if !ok {
		return "", nil
	}
	return role, nil
}

func TestContainerProfileStoreResolvesActors(t *testing.T) {
	agent := uuid.New()
	store := roleStore{agent: "agent"}

	container, err := di.NewContainer(memoryConfig(), di.WithProfileStore(store, "guest"))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	resolver := container.RoleResolver()
	if resolver == nil {
		t.Fatal("expected a role resolver")
	}

	actor, err := resolver.Resolve(context.Background(), agent)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if actor.Role != "agent" {
		t.Fatalf("expected stored role, got %q", actor.Role)
	}

	fallback, err := resolver.Resolve(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("resolve fallback: %v", err)
	}
	if fallback.Role != "guest" {
		t.Fatalf("expected fallback role, got %q", fallback.Role)
	}
}
