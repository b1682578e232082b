package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes project management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slugValue string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, req UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error
}

// CreateProjectRequest captures the fields required to create a project draft.
type CreateProjectRequest struct {
	OwnerID     uuid.UUID
	Name        string
	Slug        string
	Description *string
	City        *string
	District    *string
	DeliveryAt  *time.Time
	UnitCount   int
}

// UpdateProjectRequest carries editable fields plus the acting user.
type UpdateProjectRequest struct {
	ID    uuid.UUID
	Actor interfaces.Actor

	Name        *string
	Description *string
	City        *string
	District    *string
	DeliveryAt  *time.Time
	UnitCount   *int
}

var (
	ErrProjectIDRequired = errors.New("projects: project id required")
	ErrOwnerRequired     = errors.New("projects: owner id required")
	ErrNameRequired      = errors.New("projects: name is required")
	ErrSlugInvalid       = errors.New("projects: slug contains invalid characters")
	ErrSlugExists        = errors.New("projects: slug already exists")
	ErrNotEditable       = errors.New("projects: project is not editable in its current submission state")
	ErrNotDeletable      = errors.New("projects: project cannot be deleted while under review or live")
)

// ErrSubmissionStale signals a conditional submission write that lost the race.
var ErrSubmissionStale = errors.New("projects: submission status changed underneath")

// ProjectRepository abstracts storage operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, record *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slugValue string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, record *Project) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Project, error)
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

// WithClock overrides the clock used to stamp records.
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
	projects ProjectRepository
	now      func() time.Time
	id       IDGenerator
}

// NewService constructs a project service.
func NewService(projects ProjectRepository, opts ...ServiceOption) Service {
	s := &service{
		projects: projects,
		now:      time.Now,
		id:       uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if req.OwnerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	slugValue, err := s.resolveSlug(ctx, req.Slug, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Project{
		ID:               s.id(),
		OwnerID:          req.OwnerID,
		Name:             name,
		Slug:             slugValue,
		Description:      req.Description,
		City:             req.City,
		District:         req.District,
		DeliveryAt:       req.DeliveryAt,
		UnitCount:        req.UnitCount,
		SubmissionStatus: "draft",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.projects.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	if id == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	return s.projects.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*Project, error) {
	return s.projects.GetBySlug(ctx, strings.TrimSpace(slugValue))
}

func (s *service) List(ctx context.Context) ([]*Project, error) {
	return s.projects.List(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateProjectRequest) (*Project, error) {
	if req.ID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}

	record, err := s.projects.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !workflow.EditableBy(req.Actor, submissionRecord(record)) {
		return nil, ErrNotEditable
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		record.Name = name
	}
	if req.Description != nil {
		record.Description = req.Description
	}
	if req.City != nil {
		record.City = req.City
	}
	if req.District != nil {
		record.District = req.District
	}
	if req.DeliveryAt != nil {
		record.DeliveryAt = req.DeliveryAt
	}
	if req.UnitCount != nil {
		record.UnitCount = *req.UnitCount
	}

	record.UpdatedAt = s.now()
	return s.projects.Update(ctx, record)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error {
	if id == uuid.Nil {
		return ErrProjectIDRequired
	}

	record, err := s.projects.GetByID(ctx, id)
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

	return s.projects.Delete(ctx, id)
}

func (s *service) resolveSlug(ctx context.Context, requested, name string) (string, error) {
	candidate := strings.TrimSpace(requested)
	if candidate == "" {
		candidate = name
	}

	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}

	if existing, err := s.projects.GetBySlug(ctx, normalized); err == nil && existing != nil {
		return "", ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return "", err
		}
	}

	return normalized, nil
}
