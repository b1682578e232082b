package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/identity"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes campaign management use-cases. Activation out of
// pending_setup and every later status change run through the workflow engine.
type Service interface {
	Create(ctx context.Context, req CreateCampaignRequest) (*Campaign, error)
	Get(ctx context.Context, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context) ([]*Campaign, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Campaign, error)
	Update(ctx context.Context, req UpdateCampaignRequest) (*Campaign, error)
	Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error
}

// CreateCampaignRequest captures the fields required to create a campaign.
type CreateCampaignRequest struct {
	OwnerID     uuid.UUID
	ExternalRef string
	Name        string
	Headline    *string
	Objective   string
	Budget      int64
	Currency    string
	StartsAt    *time.Time
	EndsAt      *time.Time
	TargetKind  *string
	TargetID    *uuid.UUID
}

// UpdateCampaignRequest carries editable fields plus the acting user.
type UpdateCampaignRequest struct {
	ID    uuid.UUID
	Actor interfaces.Actor

	Name      *string
	Headline  *string
	Objective *string
	Budget    *int64
	Currency  *string
	StartsAt  *time.Time
	EndsAt    *time.Time
}

var (
	ErrCampaignIDRequired = errors.New("campaigns: campaign id required")
	ErrOwnerRequired      = errors.New("campaigns: owner id required")
	ErrNameRequired       = errors.New("campaigns: name is required")
	ErrBudgetInvalid      = errors.New("campaigns: budget must be positive")
	ErrObjectiveInvalid   = errors.New("campaigns: unknown objective")
	ErrScheduleInvalid    = errors.New("campaigns: starts_at must be before ends_at")
	ErrTargetInvalid      = errors.New("campaigns: target must reference a listing or project")
	ErrNotEditable        = errors.New("campaigns: campaign is not editable in its current submission state")
	ErrNotDeletable       = errors.New("campaigns: campaign cannot be deleted while under review or live")
)

var ErrSubmissionStale = errors.New("campaigns: submission status changed underneath")

var objectives = map[string]struct{}{
	"leads":     {},
	"awareness": {},
	"traffic":   {},
}

// CampaignRepository abstracts storage operations for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, record *Campaign) (*Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context) ([]*Campaign, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Campaign, error)
	Update(ctx context.Context, record *Campaign) (*Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Campaign, error)
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

// CodeGenerator mints human-facing reference codes for new campaigns.
type CodeGenerator func(id uuid.UUID) string

// WithCodeGenerator overrides how campaign reference codes are minted.
func WithCodeGenerator(generator CodeGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.code = generator
		}
	}
}

// WithInitialStatus overrides the submission status assigned at creation.
// Callers wiring a workflow engine should pass the initial state of the
// ad_campaign transition table so the two never disagree.
func WithInitialStatus(status string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(status); trimmed != "" {
			s.initialStatus = trimmed
		}
	}
}

type service struct {
	campaigns     CampaignRepository
	now           func() time.Time
	id            IDGenerator
	code          CodeGenerator
	initialStatus string
}

// NewService constructs a campaign service.
func NewService(campaigns CampaignRepository, opts ...ServiceOption) Service {
	s := &service{
		campaigns:     campaigns,
		now:           time.Now,
		id:            uuid.New,
		code:          identity.CampaignCode,
		initialStatus: "pending_setup",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Create(ctx context.Context, req CreateCampaignRequest) (*Campaign, error) {
	if req.OwnerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	objective := strings.ToLower(strings.TrimSpace(req.Objective))
	if objective == "" {
		objective = "leads"
	}
	if _, ok := objectives[objective]; !ok {
		return nil, ErrObjectiveInvalid
	}

	if req.Budget <= 0 {
		return nil, ErrBudgetInvalid
	}

	if req.StartsAt != nil && req.EndsAt != nil && !req.StartsAt.Before(*req.EndsAt) {
		return nil, ErrScheduleInvalid
	}

	if req.TargetKind != nil {
		kind := strings.ToLower(strings.TrimSpace(*req.TargetKind))
		if kind != "listing" && kind != "project" {
			return nil, ErrTargetInvalid
		}
		if req.TargetID == nil || *req.TargetID == uuid.Nil {
			return nil, ErrTargetInvalid
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "EGP"
	}

	id := s.id()
	if ref := strings.TrimSpace(req.ExternalRef); ref != "" {
		id = identity.CampaignUUID(ref)
	}

	now := s.now()
	record := &Campaign{
		ID:               id,
		ReferenceCode:    s.code(id),
		OwnerID:          req.OwnerID,
		Name:             name,
		Headline:         req.Headline,
		Objective:        objective,
		Budget:           req.Budget,
		Currency:         currency,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		TargetKind:       req.TargetKind,
		TargetID:         req.TargetID,
		SubmissionStatus: s.initialStatus,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.campaigns.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	if id == uuid.Nil {
		return nil, ErrCampaignIDRequired
	}
	return s.campaigns.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Campaign, error) {
	return s.campaigns.List(ctx)
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Campaign, error) {
	if ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	return s.campaigns.ListByOwner(ctx, ownerID)
}

func (s *service) Update(ctx context.Context, req UpdateCampaignRequest) (*Campaign, error) {
	if req.ID == uuid.Nil {
		return nil, ErrCampaignIDRequired
	}

	record, err := s.campaigns.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// pending_setup is part of the creation flow; the owner keeps editing
	// there in addition to the regular editable states.
	if record.SubmissionStatus != "pending_setup" && !workflow.EditableBy(req.Actor, submissionRecord(record)) {
		return nil, ErrNotEditable
	}
	if record.SubmissionStatus == "pending_setup" && record.OwnerID != req.Actor.ID && !domain.ParseRole(req.Actor.Role).IsPublisher() {
		return nil, ErrNotEditable
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		record.Name = name
	}
	if req.Headline != nil {
		record.Headline = req.Headline
	}
	if req.Objective != nil {
		objective := strings.ToLower(strings.TrimSpace(*req.Objective))
		if _, ok := objectives[objective]; !ok {
			return nil, ErrObjectiveInvalid
		}
		record.Objective = objective
	}
	if req.Budget != nil {
		if *req.Budget <= 0 {
			return nil, ErrBudgetInvalid
		}
		record.Budget = *req.Budget
	}
	if req.Currency != nil {
		record.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.StartsAt != nil {
		record.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		record.EndsAt = req.EndsAt
	}
	if record.StartsAt != nil && record.EndsAt != nil && !record.StartsAt.Before(*record.EndsAt) {
		return nil, ErrScheduleInvalid
	}

	record.UpdatedAt = s.now()
	return s.campaigns.Update(ctx, record)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error {
	if id == uuid.Nil {
		return ErrCampaignIDRequired
	}

	record, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return err
	}

	publisher := domain.ParseRole(actor.Role).IsPublisher()
	switch record.SubmissionStatus {
	case "pending_setup", "draft", "needs_changes", "archived":
		if record.OwnerID != actor.ID && !publisher {
			return ErrNotDeletable
		}
	default:
		if !publisher {
			return ErrNotDeletable
		}
	}

	return s.campaigns.Delete(ctx, id)
}
