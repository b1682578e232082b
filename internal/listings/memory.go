package listings

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryListingRepository is an in-memory implementation for scaffolding and tests.
type MemoryListingRepository struct {
	mu        sync.RWMutex
	listings  map[uuid.UUID]*Listing
	slugIndex map[string]uuid.UUID
	now       func() time.Time
}

// NewMemoryListingRepository creates an empty in-memory listing repository.
func NewMemoryListingRepository() *MemoryListingRepository {
	return &MemoryListingRepository{
		listings:  make(map[uuid.UUID]*Listing),
		slugIndex: make(map[string]uuid.UUID),
		now:       time.Now,
	}
}

// Create inserts the supplied listing.
func (m *MemoryListingRepository) Create(_ context.Context, record *Listing) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneListing(record)
	m.listings[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneListing(copied), nil
}

// GetByID retrieves a listing by identifier.
func (m *MemoryListingRepository) GetByID(_ context.Context, id uuid.UUID) (*Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.listings[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "listing", Key: id.String()}
	}
	return cloneListing(rec), nil
}

// GetBySlug retrieves a listing by slug, returning NotFoundError when absent.
func (m *MemoryListingRepository) GetBySlug(_ context.Context, slugValue string) (*Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugValue]
	if !ok {
		return nil, &NotFoundError{Resource: "listing", Key: slugValue}
	}
	rec := m.listings[id]
	if rec == nil || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "listing", Key: slugValue}
	}
	return cloneListing(rec), nil
}

// List returns all non-deleted listings.
func (m *MemoryListingRepository) List(_ context.Context) ([]*Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Listing, 0, len(m.listings))
	for _, rec := range m.listings {
		if rec.DeletedAt != nil {
			continue
		}
		out = append(out, cloneListing(rec))
	}
	return out, nil
}

// Update replaces the stored listing.
func (m *MemoryListingRepository) Update(_ context.Context, record *Listing) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.listings[record.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "listing", Key: record.ID.String()}
	}

	delete(m.slugIndex, existing.Slug)
	copied := cloneListing(record)
	m.listings[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneListing(copied), nil
}

// Delete soft-deletes the listing.
func (m *MemoryListingRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.listings[id]
	if !ok || rec.DeletedAt != nil {
		return &NotFoundError{Resource: "listing", Key: id.String()}
	}
	now := m.now()
	rec.DeletedAt = &now
	return nil
}

// ApplySubmission applies the conditional status transition.
func (m *MemoryListingRepository) ApplySubmission(_ context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.listings[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "listing", Key: id.String()}
	}
	if rec.SubmissionStatus != string(update.ExpectedStatus) {
		return nil, ErrSubmissionStale
	}

	rec.SubmissionStatus = string(update.Status)
	rec.Status = update.Projection
	if update.SubmittedAt != nil {
		rec.SubmittedAt = update.SubmittedAt
	}
	if update.ReviewedAt != nil {
		rec.ReviewedAt = update.ReviewedAt
	}
	if update.ApprovedAt != nil {
		rec.ApprovedAt = update.ApprovedAt
	}
	if update.PublishedAt != nil {
		rec.PublishedAt = update.PublishedAt
	}
	if update.ArchivedAt != nil {
		rec.ArchivedAt = update.ArchivedAt
	}
	if update.Payload != nil {
		rec.SubmissionPayload = cloneMap(update.Payload)
	}
	rec.UpdatedAt = m.now()

	return cloneListing(rec), nil
}

// CountByStatus tallies non-deleted listings per submission status.
func (m *MemoryListingRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range m.listings {
		if rec.DeletedAt != nil {
			continue
		}
		counts[rec.SubmissionStatus]++
	}
	return counts, nil
}

func cloneListing(src *Listing) *Listing {
	if src == nil {
		return nil
	}
	copied := *src
	copied.SubmissionPayload = cloneMap(src.SubmissionPayload)
	return &copied
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
