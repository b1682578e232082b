package media_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-marketplace/internal/media"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

func TestServiceAttachValidation(t *testing.T) {
	store := media.NewMemoryAssetRepository()
	svc := media.NewService(store)
	owner := uuid.New()
	listingID := uuid.New()

	cases := []struct {
		name string
		req  media.AttachAssetRequest
		want error
	}{
		{"missing owner", media.AttachAssetRequest{EntityKind: "listing", EntityID: listingID, URL: "https://cdn.example.com/a.jpg"}, media.ErrOwnerRequired},
		{"missing entity", media.AttachAssetRequest{OwnerID: owner, EntityKind: "listing", URL: "https://cdn.example.com/a.jpg"}, media.ErrEntityRequired},
		{"bad entity kind", media.AttachAssetRequest{OwnerID: owner, EntityKind: "campaign", EntityID: listingID, URL: "https://cdn.example.com/a.jpg"}, media.ErrEntityKindBad},
		{"bad kind", media.AttachAssetRequest{OwnerID: owner, EntityKind: "listing", EntityID: listingID, Kind: "hologram", URL: "https://cdn.example.com/a.jpg"}, media.ErrKindInvalid},
		{"bad url", media.AttachAssetRequest{OwnerID: owner, EntityKind: "listing", EntityID: listingID, URL: "not a url"}, media.ErrURLInvalid},
	}

	for _, tc := range cases {
		if _, err := svc.Attach(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestServiceAttachAndListOrdered(t *testing.T) {
	store := media.NewMemoryAssetRepository()
	svc := media.NewService(store)
	owner := uuid.New()
	listingID := uuid.New()

	for i := 2; i >= 0; i-- {
		_, err := svc.Attach(context.Background(), media.AttachAssetRequest{
			OwnerID:    owner,
			EntityKind: "listing",
			EntityID:   listingID,
			URL:        "https://cdn.example.com/a.jpg",
			Position:   i,
		})
		if err != nil {
			t.Fatalf("attach: %v", err)
		}
	}

	assets, err := svc.ListForEntity(context.Background(), "listing", listingID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}
	for i, asset := range assets {
		if asset.Position != i {
			t.Fatalf("expected position ordering, got %d at index %d", asset.Position, i)
		}
		if asset.SubmissionStatus != "draft" {
			t.Fatalf("new assets must start in draft, got %q", asset.SubmissionStatus)
		}
	}
}

func TestServiceDeleteGating(t *testing.T) {
	store := media.NewMemoryAssetRepository()
	svc := media.NewService(store)
	owner := uuid.New()
	listingID := uuid.New()

	asset, err := svc.Attach(context.Background(), media.AttachAssetRequest{
		OwnerID:    owner,
		EntityKind: "listing",
		EntityID:   listingID,
		URL:        "https://cdn.example.com/a.jpg",
	})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	if _, err := store.ApplySubmission(context.Background(), asset.ID, interfaces.SubmissionUpdate{
		Status:         "submitted",
		ExpectedStatus: "draft",
	}); err != nil {
		t.Fatalf("apply submission: %v", err)
	}

	err = svc.Delete(context.Background(), asset.ID, interfaces.Actor{ID: owner, Role: "developer"})
	if !errors.Is(err, media.ErrNotDeletable) {
		t.Fatalf("owner delete of submitted asset must fail, got %v", err)
	}

	if err := svc.Delete(context.Background(), asset.ID, interfaces.Actor{ID: uuid.New(), Role: "owner"}); err != nil {
		t.Fatalf("publisher delete: %v", err)
	}
}
