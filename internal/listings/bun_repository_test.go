package listings_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

func newListingBunDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	if _, err := bunDB.NewCreateTable().Model((*listings.Listing)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create listings table: %v", err)
	}
	return bunDB
}

func newListingCache(t *testing.T) (repocache.CacheService, repocache.KeySerializer) {
	t.Helper()

	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service, repocache.NewDefaultKeySerializer()
}

func TestBunListingRepository_ApplySubmissionEvictsCachedReads(t *testing.T) {
	ctx := context.Background()
	bunDB := newListingBunDB(t, "listings_submission_cache")
	cacheService, keySerializer := newListingCache(t)

	repo := listings.NewBunListingRepositoryWithCache(bunDB, cacheService, keySerializer)

	created, err := repo.Create(ctx, &listings.Listing{
		ID:               uuid.New(),
		ListingCode:      "LST-TEST0001",
		OwnerID:          uuid.New(),
		Title:            "Two bedroom apartment",
		Slug:             "two-bedroom-apartment",
		PropertyType:     "apartment",
		Purpose:          "sale",
		Price:            4_500_000,
		Currency:         "EGP",
		SubmissionStatus: "draft",
		Status:           "draft",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	// Warm the cache so a stale entry would be visible after the write.
	warmed, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("warm read: %v", err)
	}
	if warmed.SubmissionStatus != "draft" {
		t.Fatalf("expected draft before submit, got %q", warmed.SubmissionStatus)
	}

	submittedAt := time.Now().UTC()
	applied, err := repo.ApplySubmission(ctx, created.ID, interfaces.SubmissionUpdate{
		Status:         "submitted",
		Projection:     "draft",
		ExpectedStatus: "draft",
		SubmittedAt:    &submittedAt,
		Payload:        map[string]any{"title": "Two bedroom apartment"},
	})
	if err != nil {
		t.Fatalf("apply submission: %v", err)
	}
	if applied.SubmissionStatus != "submitted" {
		t.Fatalf("expected submitted from apply, got %q", applied.SubmissionStatus)
	}
	if applied.SubmittedAt == nil {
		t.Fatal("expected submitted_at to be stamped")
	}

	reloaded, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.SubmissionStatus != "submitted" {
		t.Fatalf("cached read is stale: got %q, want submitted", reloaded.SubmissionStatus)
	}

	// A second transition must load the fresh status and pass its guard.
	reviewedAt := time.Now().UTC()
	advanced, err := repo.ApplySubmission(ctx, created.ID, interfaces.SubmissionUpdate{
		Status:         "under_review",
		Projection:     "draft",
		ExpectedStatus: "submitted",
		ReviewedAt:     &reviewedAt,
	})
	if err != nil {
		t.Fatalf("apply second transition: %v", err)
	}
	if advanced.SubmissionStatus != "under_review" {
		t.Fatalf("expected under_review, got %q", advanced.SubmissionStatus)
	}
}

func TestBunListingRepository_DeleteEvictsCachedReads(t *testing.T) {
	ctx := context.Background()
	bunDB := newListingBunDB(t, "listings_delete_cache")
	cacheService, keySerializer := newListingCache(t)

	repo := listings.NewBunListingRepositoryWithCache(bunDB, cacheService, keySerializer)

	created, err := repo.Create(ctx, &listings.Listing{
		ID:               uuid.New(),
		ListingCode:      "LST-TEST0002",
		OwnerID:          uuid.New(),
		Title:            "Garden duplex",
		Slug:             "garden-duplex",
		PropertyType:     "duplex",
		Purpose:          "sale",
		Price:            7_200_000,
		Currency:         "EGP",
		SubmissionStatus: "draft",
		Status:           "draft",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if _, err := repo.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("warm read: %v", err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.DeletedAt == nil {
		t.Fatal("cached read is stale: expected deleted_at after delete")
	}
}
