package campaigns

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryCampaignRepository is an in-memory implementation for scaffolding and tests.
type MemoryCampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[uuid.UUID]*Campaign
	now       func() time.Time
}

func NewMemoryCampaignRepository() *MemoryCampaignRepository {
	return &MemoryCampaignRepository{
		campaigns: make(map[uuid.UUID]*Campaign),
		now:       time.Now,
	}
}

func (m *MemoryCampaignRepository) Create(_ context.Context, record *Campaign) (*Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneCampaign(record)
	m.campaigns[copied.ID] = copied
	return cloneCampaign(copied), nil
}

func (m *MemoryCampaignRepository) GetByID(_ context.Context, id uuid.UUID) (*Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.campaigns[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "campaign", Key: id.String()}
	}
	return cloneCampaign(rec), nil
}

func (m *MemoryCampaignRepository) List(_ context.Context) ([]*Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Campaign, 0, len(m.campaigns))
	for _, rec := range m.campaigns {
		if rec.DeletedAt != nil {
			continue
		}
		out = append(out, cloneCampaign(rec))
	}
	return out, nil
}

func (m *MemoryCampaignRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Campaign, 0)
	for _, rec := range m.campaigns {
		if rec.DeletedAt != nil || rec.OwnerID != ownerID {
			continue
		}
		out = append(out, cloneCampaign(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryCampaignRepository) Update(_ context.Context, record *Campaign) (*Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.campaigns[record.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "campaign", Key: record.ID.String()}
	}

	copied := cloneCampaign(record)
	m.campaigns[copied.ID] = copied
	return cloneCampaign(copied), nil
}

func (m *MemoryCampaignRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.campaigns[id]
	if !ok || rec.DeletedAt != nil {
		return &NotFoundError{Resource: "campaign", Key: id.String()}
	}
	now := m.now()
	rec.DeletedAt = &now
	return nil
}

func (m *MemoryCampaignRepository) ApplySubmission(_ context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.campaigns[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "campaign", Key: id.String()}
	}
	if rec.SubmissionStatus != string(update.ExpectedStatus) {
		return nil, ErrSubmissionStale
	}

	rec.SubmissionStatus = string(update.Status)
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

	return cloneCampaign(rec), nil
}

func (m *MemoryCampaignRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range m.campaigns {
		if rec.DeletedAt != nil {
			continue
		}
		counts[rec.SubmissionStatus]++
	}
	return counts, nil
}

func cloneCampaign(src *Campaign) *Campaign {
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
