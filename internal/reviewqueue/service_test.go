package reviewqueue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/internal/reviewqueue"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

type stubCounter struct {
	counts map[string]int
	err    error
}

func (s *stubCounter) CountByStatus(context.Context) (map[string]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func TestSnapshotAggregatesAcrossKinds(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := reviewqueue.NewService(
		reviewqueue.WithSource("listing", &stubCounter{counts: map[string]int{
			"draft": 4, "submitted": 2, "under_review": 1, "published": 7,
		}}),
		reviewqueue.WithSource("project", &stubCounter{counts: map[string]int{
			"submitted": 3, "approved": 1,
		}}),
		reviewqueue.WithClock(func() time.Time { return fixed }),
	)

	snapshot, err := svc.Snapshot(context.Background(), interfaces.Actor{ID: uuid.New(), Role: "staff"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snapshot.GeneratedAt.Equal(fixed) {
		t.Fatalf("expected timestamp %v, got %v", fixed, snapshot.GeneratedAt)
	}
	if len(snapshot.Kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(snapshot.Kinds))
	}
	if snapshot.Kinds[0].Kind != "listing" || snapshot.Kinds[1].Kind != "project" {
		t.Fatalf("expected sorted kinds, got %q then %q", snapshot.Kinds[0].Kind, snapshot.Kinds[1].Kind)
	}
	if snapshot.Kinds[0].AwaitingReview != 3 {
		t.Fatalf("expected 3 listings awaiting review, got %d", snapshot.Kinds[0].AwaitingReview)
	}
	if snapshot.Kinds[1].AwaitingReview != 3 {
		t.Fatalf("expected 3 projects awaiting review, got %d", snapshot.Kinds[1].AwaitingReview)
	}
	if snapshot.Totals["submitted"] != 5 {
		t.Fatalf("expected 5 submitted total, got %d", snapshot.Totals["submitted"])
	}
	if snapshot.Totals["published"] != 7 {
		t.Fatalf("expected 7 published total, got %d", snapshot.Totals["published"])
	}
}

func TestSnapshotRejectsNonReviewers(t *testing.T) {
	svc := reviewqueue.NewService(
		reviewqueue.WithSource("listing", &stubCounter{counts: map[string]int{}}),
	)

	for _, role := range []string{"developer", "agent", "guest"} {
		_, err := svc.Snapshot(context.Background(), interfaces.Actor{ID: uuid.New(), Role: role})
		if !errors.Is(err, reviewqueue.ErrViewerForbidden) {
			t.Fatalf("role %s: expected ErrViewerForbidden, got %v", role, err)
		}
	}
}

func TestSnapshotSurfacesCounterErrors(t *testing.T) {
	boom := errors.New("database offline")
	svc := reviewqueue.NewService(
		reviewqueue.WithSource("listing", &stubCounter{err: boom}),
	)

	_, err := svc.Snapshot(context.Background(), interfaces.Actor{ID: uuid.New(), Role: "admin"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped counter error, got %v", err)
	}
}

func TestSnapshotWithoutSources(t *testing.T) {
	svc := reviewqueue.NewService()
	_, err := svc.Snapshot(context.Background(), interfaces.Actor{ID: uuid.New(), Role: "admin"})
	if !errors.Is(err, reviewqueue.ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestRecentNotesRespectsViewer(t *testing.T) {
	noteService := notes.NewService(notes.NewMemoryNoteRepository())
	entityID := uuid.New()
	reviewer := interfaces.Actor{ID: uuid.New(), Role: "staff"}

	for _, visibility := range []string{notes.VisibilityDeveloper, notes.VisibilityInternal} {
		err := noteService.Append(context.Background(), interfaces.NoteInput{
			EntityKind: "listing",
			EntityID:   entityID,
			AuthorID:   reviewer.ID,
			AuthorRole: reviewer.Role,
			Visibility: visibility,
			Note:       "note with " + visibility + " visibility",
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	svc := reviewqueue.NewService(
		reviewqueue.WithSource("listing", &stubCounter{counts: map[string]int{}}),
		reviewqueue.WithNotes(noteService),
	)

	recent, err := svc.RecentNotes(context.Background(), 10, reviewer)
	if err != nil {
		t.Fatalf("recent notes: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 notes for staff, got %d", len(recent))
	}

	_, err = svc.RecentNotes(context.Background(), 10, interfaces.Actor{ID: uuid.New(), Role: "developer"})
	if !errors.Is(err, reviewqueue.ErrViewerForbidden) {
		t.Fatalf("expected ErrViewerForbidden for developer, got %v", err)
	}
}
