package reviewqueue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// Sentinel errors for the review queue read model.
var (
	ErrNoSources       = errors.New("reviewqueue: no status sources registered")
	ErrViewerForbidden = errors.New("reviewqueue: viewer may not read the review queue")
)

// StatusCounter tallies entities per submission status. Every entity
// repository satisfies this through its CountByStatus method.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// KindCounts aggregates one entity kind's lifecycle occupancy.
type KindCounts struct {
	Kind           string
	ByStatus       map[string]int
	AwaitingReview int
}

// Snapshot is a point-in-time view of the review backlog across all
// registered entity kinds.
type Snapshot struct {
	GeneratedAt time.Time
	Kinds       []KindCounts
	Totals      map[string]int
}

// Service exposes the staff review dashboard reads. It never mutates
// submission state.
type Service interface {
	Snapshot(ctx context.Context, viewer interfaces.Actor) (*Snapshot, error)
	RecentNotes(ctx context.Context, limit int, viewer interfaces.Actor) ([]*notes.SubmissionNote, error)
}

type service struct {
	counters map[string]StatusCounter
	notes    notes.Service
	logger   interfaces.Logger
	now      func() time.Time
}

// ServiceOption customizes review queue construction.
type ServiceOption func(*service)

// WithSource registers a status counter for an entity kind. Registering the
// same kind twice replaces the earlier source.
func WithSource(kind string, counter StatusCounter) ServiceOption {
	return func(s *service) {
		if kind != "" && counter != nil {
			s.counters[kind] = counter
		}
	}
}

// WithNotes wires the submission note feed into RecentNotes.
func WithNotes(noteService notes.Service) ServiceOption {
	return func(s *service) {
		s.notes = noteService
	}
}

// WithLogger overrides the queue logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the review queue read model over the registered sources.
func NewService(opts ...ServiceOption) Service {
	svc := &service{
		counters: map[string]StatusCounter{},
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Snapshot(ctx context.Context, viewer interfaces.Actor) (*Snapshot, error) {
	if !domain.ParseRole(viewer.Role).IsReviewer() {
		return nil, ErrViewerForbidden
	}
	if len(s.counters) == 0 {
		return nil, ErrNoSources
	}

	kinds := make([]string, 0, len(s.counters))
	for kind := range s.counters {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	snapshot := &Snapshot{
		GeneratedAt: s.now().UTC(),
		Kinds:       make([]KindCounts, 0, len(kinds)),
		Totals:      map[string]int{},
	}

	for _, kind := range kinds {
		counts, err := s.counters[kind].CountByStatus(ctx)
		if err != nil {
			s.logger.Error("review queue count failed", "kind", kind, "error", err)
			return nil, fmt.Errorf("reviewqueue: count %s: %w", kind, err)
		}

		entry := KindCounts{Kind: kind, ByStatus: map[string]int{}}
		for status, count := range counts {
			entry.ByStatus[status] = count
			snapshot.Totals[status] += count
		}
		entry.AwaitingReview = entry.ByStatus[string(domain.SubmissionSubmitted)] +
			entry.ByStatus[string(domain.SubmissionUnderReview)]
		snapshot.Kinds = append(snapshot.Kinds, entry)
	}

	s.logger.Debug("review queue snapshot",
		"kinds", len(snapshot.Kinds),
		"awaiting", snapshot.Totals[string(domain.SubmissionSubmitted)]+snapshot.Totals[string(domain.SubmissionUnderReview)],
	)
	return snapshot, nil
}

// RecentNotes returns the latest reviewer conversation across all entities.
// Visibility filtering happens in the notes service, so a developer viewer
// only sees developer-visible notes here.
func (s *service) RecentNotes(ctx context.Context, limit int, viewer interfaces.Actor) ([]*notes.SubmissionNote, error) {
	if s.notes == nil {
		return nil, nil
	}
	if !domain.ParseRole(viewer.Role).IsStaffside() {
		return nil, ErrViewerForbidden
	}
	return s.notes.ListRecent(ctx, limit, viewer)
}
