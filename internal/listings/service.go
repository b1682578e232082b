package listings

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
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes listing management use-cases. Submission status is never
// mutated here; transitions go through the workflow engine.
type Service interface {
	Create(ctx context.Context, req CreateListingRequest) (*Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetBySlug(ctx context.Context, slugValue string) (*Listing, error)
	List(ctx context.Context) ([]*Listing, error)
	Update(ctx context.Context, req UpdateListingRequest) (*Listing, error)
	Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error
	Duplicate(ctx context.Context, id uuid.UUID, actor interfaces.Actor) (*Listing, error)
}

// CreateListingRequest captures the fields required to create a listing draft.
// ExternalRef, when set, keys the listing identifier deterministically so
// re-running an inventory import updates the same row instead of minting a
// second one.
type CreateListingRequest struct {
	OwnerID      uuid.UUID
	ExternalRef  string
	ProjectID    *uuid.UUID
	Title        string
	Slug         string
	Description  *string
	PropertyType string
	Purpose      string
	Price        int64
	Currency     string
	Bedrooms     int
	Bathrooms    int
	AreaSqm      float64
	City         *string
	District     *string
	UnitCode     *string
}

// UpdateListingRequest carries the editable fields plus the acting user. A nil
// pointer leaves the stored value untouched.
type UpdateListingRequest struct {
	ID    uuid.UUID
	Actor interfaces.Actor

	Title        *string
	Description  *string
	PropertyType *string
	Purpose      *string
	Price        *int64
	Currency     *string
	Bedrooms     *int
	Bathrooms    *int
	AreaSqm      *float64
	City         *string
	District     *string
	UnitCode     *string
}

var (
	ErrListingIDRequired   = errors.New("listings: listing id required")
	ErrOwnerRequired       = errors.New("listings: owner id required")
	ErrTitleRequired       = errors.New("listings: title is required")
	ErrPropertyTypeInvalid = errors.New("listings: unknown property type")
	ErrPurposeInvalid      = errors.New("listings: purpose must be sale or rent")
	ErrPriceInvalid        = errors.New("listings: price must be positive")
	ErrSlugInvalid         = errors.New("listings: slug contains invalid characters")
	ErrSlugExists          = errors.New("listings: slug already exists")
	ErrNotEditable         = errors.New("listings: listing is not editable in its current submission state")
	ErrNotDeletable        = errors.New("listings: listing cannot be deleted while under review or live")
)

// ErrSubmissionStale signals a conditional submission write that found the
// stored status already moved.
var ErrSubmissionStale = errors.New("listings: submission status changed underneath")

var propertyTypes = map[string]struct{}{
	"apartment": {},
	"villa":     {},
	"townhouse": {},
	"duplex":    {},
	"penthouse": {},
	"chalet":    {},
	"office":    {},
	"retail":    {},
	"land":      {},
}

// ListingRepository abstracts storage operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, record *Listing) (*Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetBySlug(ctx context.Context, slugValue string) (*Listing, error)
	List(ctx context.Context) ([]*Listing, error)
	Update(ctx context.Context, record *Listing) (*Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ApplySubmission performs the conditional single-write status transition,
	// returning ErrSubmissionStale when the stored status no longer matches
	// update.ExpectedStatus.
	ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Listing, error)
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

// CodeGenerator mints human-facing reference codes for new listings.
type CodeGenerator func(id uuid.UUID) string

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

// WithCodeGenerator overrides how listing reference codes are minted.
func WithCodeGenerator(generator CodeGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.code = generator
		}
	}
}

// WithActivitySink enables audit records for service-level actions such as
// duplication.
func WithActivitySink(sink interfaces.ActivitySink) ServiceOption {
	return func(s *service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

type service struct {
	listings ListingRepository
	sink     interfaces.ActivitySink
	now      func() time.Time
	id       IDGenerator
	code     CodeGenerator
}

// NewService constructs a listing service with the required dependencies.
func NewService(listings ListingRepository, opts ...ServiceOption) Service {
	s := &service{
		listings: listings,
		now:      time.Now,
		id:       uuid.New,
		code:     identity.ListingCode,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates and persists a new listing in submission draft.
func (s *service) Create(ctx context.Context, req CreateListingRequest) (*Listing, error) {
	if req.OwnerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	propertyType := strings.ToLower(strings.TrimSpace(req.PropertyType))
	if _, ok := propertyTypes[propertyType]; !ok {
		return nil, ErrPropertyTypeInvalid
	}

	purpose := strings.ToLower(strings.TrimSpace(req.Purpose))
	if purpose == "" {
		purpose = "sale"
	}
	if purpose != "sale" && purpose != "rent" {
		return nil, ErrPurposeInvalid
	}

	if req.Price <= 0 {
		return nil, ErrPriceInvalid
	}

	slugValue, err := s.resolveSlug(ctx, req.Slug, title)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "EGP"
	}

	id := s.id()
	if ref := strings.TrimSpace(req.ExternalRef); ref != "" {
		id = identity.ListingUUID(ref)
	}

	now := s.now()
	record := &Listing{
		ID:               id,
		ProjectID:        req.ProjectID,
		OwnerID:          req.OwnerID,
		Title:            title,
		Slug:             slugValue,
		Description:      req.Description,
		PropertyType:     propertyType,
		Purpose:          purpose,
		Price:            req.Price,
		Currency:         currency,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		AreaSqm:          req.AreaSqm,
		City:             req.City,
		District:         req.District,
		UnitCode:         req.UnitCode,
		SubmissionStatus: "draft",
		Status:           "draft",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	record.ListingCode = s.code(record.ID)
	if record.ProjectID != nil && record.UnitCode == nil {
		unit := identity.UnitCode(record.ID)
		record.UnitCode = &unit
	}

	return s.listings.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	if id == uuid.Nil {
		return nil, ErrListingIDRequired
	}
	return s.listings.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*Listing, error) {
	return s.listings.GetBySlug(ctx, strings.TrimSpace(slugValue))
}

func (s *service) List(ctx context.Context) ([]*Listing, error) {
	return s.listings.List(ctx)
}

// Update applies editable-field changes. Owners may edit only while the
// submission sits in draft or needs_changes; publishers may always edit.
func (s *service) Update(ctx context.Context, req UpdateListingRequest) (*Listing, error) {
	if req.ID == uuid.Nil {
		return nil, ErrListingIDRequired
	}

	record, err := s.listings.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !workflow.EditableBy(req.Actor, submissionRecord(record)) {
		return nil, ErrNotEditable
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if req.Description != nil {
		record.Description = req.Description
	}
	if req.PropertyType != nil {
		propertyType := strings.ToLower(strings.TrimSpace(*req.PropertyType))
		if _, ok := propertyTypes[propertyType]; !ok {
			return nil, ErrPropertyTypeInvalid
		}
		record.PropertyType = propertyType
	}
	if req.Purpose != nil {
		purpose := strings.ToLower(strings.TrimSpace(*req.Purpose))
		if purpose != "sale" && purpose != "rent" {
			return nil, ErrPurposeInvalid
		}
		record.Purpose = purpose
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrPriceInvalid
		}
		record.Price = *req.Price
	}
	if req.Currency != nil {
		record.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Bedrooms != nil {
		record.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		record.Bathrooms = *req.Bathrooms
	}
	if req.AreaSqm != nil {
		record.AreaSqm = *req.AreaSqm
	}
	if req.City != nil {
		record.City = req.City
	}
	if req.District != nil {
		record.District = req.District
	}
	if req.UnitCode != nil {
		record.UnitCode = req.UnitCode
	}

	record.UpdatedAt = s.now()
	return s.listings.Update(ctx, record)
}

// Delete soft-deletes a listing. Records under review or live stay undeletable
// for everyone except publishers, who may remove at any point.
func (s *service) Delete(ctx context.Context, id uuid.UUID, actor interfaces.Actor) error {
	if id == uuid.Nil {
		return ErrListingIDRequired
	}

	record, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !deletable(actor, record) {
		return ErrNotDeletable
	}

	return s.listings.Delete(ctx, id)
}

// Duplicate clones a listing into a fresh draft owned by the same developer.
// Submission history and timestamps never carry over. Any staffside actor may
// duplicate; developers may only duplicate their own listings.
func (s *service) Duplicate(ctx context.Context, id uuid.UUID, actor interfaces.Actor) (*Listing, error) {
	if id == uuid.Nil {
		return nil, ErrListingIDRequired
	}

	source, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.ParseRole(actor.Role).IsStaffside() && source.OwnerID != actor.ID {
		return nil, ErrNotEditable
	}

	copied := *source
	now := s.now()
	copied.ID = s.id()
	copied.ListingCode = s.code(copied.ID)
	copied.Slug, err = s.resolveSlug(ctx, source.Slug+"-copy", source.Title)
	if err != nil {
		return nil, err
	}
	copied.SubmissionStatus = "draft"
	copied.Status = "draft"
	copied.SubmissionPayload = nil
	copied.SubmittedAt = nil
	copied.ReviewedAt = nil
	copied.ApprovedAt = nil
	copied.PublishedAt = nil
	copied.ArchivedAt = nil
	copied.DeletedAt = nil
	copied.CreatedAt = now
	copied.UpdatedAt = now

	created, err := s.listings.Create(ctx, &copied)
	if err != nil {
		return nil, err
	}

	if s.sink != nil {
		sinkErr := s.sink.Log(ctx, interfaces.ActivityRecord{
			ActorID:    actor.ID,
			UserID:     created.OwnerID,
			Verb:       "listing_duplicated",
			ObjectType: "listing",
			ObjectID:   created.ID.String(),
			Channel:    "marketplace",
			OccurredAt: now,
			Data: map[string]any{
				"source_listing_id": source.ID.String(),
				"listing_code":      created.ListingCode,
			},
		})
		if sinkErr != nil {
			return nil, fmt.Errorf("listings: record duplication audit: %w", sinkErr)
		}
	}

	return created, nil
}

func (s *service) resolveSlug(ctx context.Context, requested, title string) (string, error) {
	candidate := strings.TrimSpace(requested)
	if candidate == "" {
		candidate = title
	}

	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}

	if existing, err := s.listings.GetBySlug(ctx, normalized); err == nil && existing != nil {
		return "", ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return "", err
		}
	}

	return normalized, nil
}

func deletable(actor interfaces.Actor, record *Listing) bool {
	publisher := domain.ParseRole(actor.Role).IsPublisher()
	switch record.SubmissionStatus {
	case "draft", "needs_changes", "archived":
		return record.OwnerID == actor.ID || publisher
	default:
		return publisher
	}
}
