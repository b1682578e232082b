// Command example walks a listing through the full submission lifecycle
// against an in-memory sqlite database and prints the review queue as it
// changes. Run it with `go run ./cmd/example`.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	marketplace "github.com/goliatone/go-marketplace"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/identity"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/media"
	"github.com/goliatone/go-marketplace/internal/projects"
	"github.com/goliatone/go-marketplace/pkg/storage"
)

func main() {
	ctx := context.Background()

	db, err := storage.Open(storage.Config{Driver: "sqlite"})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.CreateSchema(ctx, db); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	cfg := marketplace.DefaultConfig()
	cfg.Features.PayloadValidation = true

	module, err := marketplace.New(cfg, di.WithBunDB(db))
	if err != nil {
		log.Fatalf("new module: %v", err)
	}

	resolver := identity.NewStaticResolver()
	developerID := identity.UserUUID("demo-developer")
	reviewerID := identity.UserUUID("demo-reviewer")
	adminID := identity.UserUUID("demo-admin")
	must(resolver.Assign(developerID, "developer"))
	must(resolver.Assign(reviewerID, "staff"))
	must(resolver.Assign(adminID, "admin"))

	developer := resolve(ctx, resolver, developerID)
	reviewer := resolve(ctx, resolver, reviewerID)
	admin := resolve(ctx, resolver, adminID)

	project, err := module.Projects().Create(ctx, projects.CreateProjectRequest{
		OwnerID:   developer.ID,
		Name:      "Palm Heights October",
		UnitCount: 240,
	})
	if err != nil {
		log.Fatalf("create project: %v", err)
	}
	fmt.Printf("project %s created (%s)\n", project.Name, project.SubmissionStatus)

	listing, err := module.Listings().Create(ctx, listings.CreateListingRequest{
		OwnerID:      developer.ID,
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
		log.Fatalf("create listing: %v", err)
	}
	fmt.Printf("listing %s created as %s\n", listing.ListingCode, listing.SubmissionStatus)

	if _, err := module.Media().Attach(ctx, media.AttachAssetRequest{
		OwnerID:    developer.ID,
		EntityKind: "listing",
		EntityID:   listing.ID,
		URL:        "https://cdn.example.com/photos/li-001.jpg",
	}); err != nil {
		log.Fatalf("attach media: %v", err)
	}

	engine := module.WorkflowEngine()
	steps := []struct {
		target marketplace.SubmissionStatus
		actor  marketplace.Actor
		note   string
	}{
		{target: "submitted", actor: developer},
		{target: "needs_changes", actor: reviewer, note: "photos are too dark, please reshoot unit 102"},
		{target: "submitted", actor: developer},
		{target: "approved", actor: reviewer},
		{target: "published", actor: admin},
	}

	for _, step := range steps {
		record, err := engine.AttemptTransition(ctx, marketplace.TransitionInput{
			EntityKind: "listing",
			EntityID:   listing.ID,
			Target:     step.target,
			Actor:      step.actor,
			Note:       step.note,
		})
		if err != nil {
			log.Fatalf("transition to %s: %v", step.target, err)
		}
		fmt.Printf("listing is now %s (projection %s)\n", record.Status, record.Projection)

		snapshot, err := module.ReviewQueue().Snapshot(ctx, admin)
		if err != nil {
			log.Fatalf("review queue snapshot: %v", err)
		}
		for _, kind := range snapshot.Kinds {
			if kind.AwaitingReview > 0 {
				fmt.Printf("  review queue: %d %s awaiting review\n", kind.AwaitingReview, kind.Kind)
			}
		}
	}

	conversation, err := module.Notes().ListForEntity(ctx, "listing", listing.ID, developer)
	if err != nil {
		log.Fatalf("list notes: %v", err)
	}
	for _, note := range conversation {
		fmt.Printf("note from %s: %s\n", note.AuthorRole, note.Note)
	}
}

func resolve(ctx context.Context, resolver *identity.StaticResolver, id uuid.UUID) marketplace.Actor {
	actor, err := resolver.Resolve(ctx, id)
	if err != nil {
		log.Fatalf("resolve actor: %v", err)
	}
	return actor
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
