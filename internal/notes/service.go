package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Visibility levels for submission notes.
const (
	VisibilityDeveloper = "developer"
	VisibilityInternal  = "internal"
)

var (
	ErrNoteRequired       = errors.New("notes: note text required")
	ErrEntityRequired     = errors.New("notes: entity reference required")
	ErrAuthorRequired     = errors.New("notes: author required")
	ErrVisibilityInvalid  = errors.New("notes: unknown visibility")
	ErrEntityKindRequired = errors.New("notes: entity kind required")
)

// NoteRepository abstracts storage for submission notes.
type NoteRepository interface {
	Create(ctx context.Context, record *SubmissionNote) (*SubmissionNote, error)
	ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID) ([]*SubmissionNote, error)
	ListRecent(ctx context.Context, limit int) ([]*SubmissionNote, error)
}

// Service appends and reads submission notes. It satisfies the workflow
// engine's NoteAppender contract.
type Service interface {
	interfaces.NoteAppender
	ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID, viewer interfaces.Actor) ([]*SubmissionNote, error)
	ListRecent(ctx context.Context, limit int, viewer interfaces.Actor) ([]*SubmissionNote, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = clock
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

type service struct {
	notes NoteRepository
	now   func() time.Time
	id    IDGenerator
}

// NewService constructs a note service.
func NewService(notes NoteRepository, opts ...ServiceOption) Service {
	s := &service{
		notes: notes,
		now:   time.Now,
		id:    uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Append persists a new note. Notes are immutable once written.
func (s *service) Append(ctx context.Context, input interfaces.NoteInput) error {
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return ErrNoteRequired
	}
	entityKind := strings.ToLower(strings.TrimSpace(input.EntityKind))
	if entityKind == "" {
		return ErrEntityKindRequired
	}
	if input.EntityID == uuid.Nil {
		return ErrEntityRequired
	}
	if input.AuthorID == uuid.Nil {
		return ErrAuthorRequired
	}

	visibility := strings.ToLower(strings.TrimSpace(input.Visibility))
	if visibility == "" {
		visibility = VisibilityDeveloper
	}
	if visibility != VisibilityDeveloper && visibility != VisibilityInternal {
		return ErrVisibilityInvalid
	}

	_, err := s.notes.Create(ctx, &SubmissionNote{
		ID:         s.id(),
		EntityKind: entityKind,
		EntityID:   input.EntityID,
		AuthorID:   input.AuthorID,
		AuthorRole: strings.ToLower(strings.TrimSpace(input.AuthorRole)),
		Visibility: visibility,
		Note:       note,
		CreatedAt:  s.now(),
	})
	return err
}

// ListForEntity returns the notes the viewer is allowed to read, oldest first.
// Internal notes stay within the staff side.
func (s *service) ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID, viewer interfaces.Actor) ([]*SubmissionNote, error) {
	if entityID == uuid.Nil {
		return nil, ErrEntityRequired
	}

	records, err := s.notes.ListForEntity(ctx, strings.ToLower(strings.TrimSpace(entityKind)), entityID)
	if err != nil {
		return nil, err
	}
	return filterVisible(records, viewer), nil
}

// ListRecent returns the latest notes across all entities, newest first.
func (s *service) ListRecent(ctx context.Context, limit int, viewer interfaces.Actor) ([]*SubmissionNote, error) {
	records, err := s.notes.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return filterVisible(records, viewer), nil
}

func filterVisible(records []*SubmissionNote, viewer interfaces.Actor) []*SubmissionNote {
	role := domain.ParseRole(viewer.Role)
	if role.IsStaffside() {
		return records
	}

	out := make([]*SubmissionNote, 0, len(records))
	for _, record := range records {
		if record.Visibility == VisibilityInternal {
			continue
		}
		out = append(out, record)
	}
	return out
}
