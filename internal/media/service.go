package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes media asset use-cases.
type Service interface {
	Attach(ctx context.Context, req AttachAssetRequest) (*Asset, error)
	Get(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID) ([]*Asset, error)
	Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error
}

// AttachAssetRequest captures a new media attachment.
type AttachAssetRequest struct {
	OwnerID    uuid.UUID
	EntityKind string
	EntityID   uuid.UUID
	Kind       string
	URL        string
	Caption    *string
	Position   int
}

var (
	ErrAssetIDRequired = errors.New("media: asset id required")
	ErrOwnerRequired   = errors.New("media: owner id required")
	ErrEntityRequired  = errors.New("media: entity reference required")
	ErrEntityKindBad   = errors.New("media: assets attach to listings or projects")
	ErrKindInvalid     = errors.New("media: unknown asset kind")
	ErrURLInvalid      = errors.New("media: url is not valid")
	ErrNotDeletable    = errors.New("media: asset cannot be deleted while under review or live")
	ErrSubmissionStale = errors.New("media: submission status changed underneath")
)

var assetKinds = map[string]struct{}{
	"image":      {},
	"video":      {},
	"floor_plan": {},
	"brochure":   {},
}

// AssetRepository abstracts storage operations for media assets.
type AssetRepository interface {
	Create(ctx context.Context, record *Asset) (*Asset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID) ([]*Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Asset, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
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
	assets AssetRepository
	now    func() time.Time
	id     IDGenerator
}

// NewService constructs a media service.
func NewService(assets AssetRepository, opts ...ServiceOption) Service {
	s := &service{
		assets: assets,
		now:    time.Now,
		id:     uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Attach(ctx context.Context, req AttachAssetRequest) (*Asset, error) {
	if req.OwnerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	if req.EntityID == uuid.Nil {
		return nil, ErrEntityRequired
	}

	entityKind := strings.ToLower(strings.TrimSpace(req.EntityKind))
	if entityKind != "listing" && entityKind != "project" {
		return nil, ErrEntityKindBad
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = "image"
	}
	if _, ok := assetKinds[kind]; !ok {
		return nil, ErrKindInvalid
	}

	parsed, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrURLInvalid
	}

	now := s.now()
	record := &Asset{
		ID:               s.id(),
		OwnerID:          req.OwnerID,
		EntityKind:       entityKind,
		EntityID:         req.EntityID,
		Kind:             kind,
		URL:              parsed.String(),
		Caption:          req.Caption,
		Position:         req.Position,
		SubmissionStatus: "draft",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.assets.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	if id == uuid.Nil {
		return nil, ErrAssetIDRequired
	}
	return s.assets.GetByID(ctx, id)
}

func (s *service) ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID) ([]*Asset, error) {
	if entityID == uuid.Nil {
		return nil, ErrEntityRequired
	}
	return s.assets.ListForEntity(ctx, strings.ToLower(strings.TrimSpace(entityKind)), entityID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error {
	if id == uuid.Nil {
		return ErrAssetIDRequired
	}

	record, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return err
	}

	publisher := domain.ParseRole(actor.Role).IsPublisher()
	switch record.SubmissionStatus {
	case "draft", "needs_changes", "archived":
		if record.OwnerID != actor.ID && !publisher {
			return ErrNotDeletable
		}
	default:
		if !publisher {
			return ErrNotDeletable
		}
	}

	return s.assets.Delete(ctx, id)
}
