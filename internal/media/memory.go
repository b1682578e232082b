package media

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryAssetRepository is an in-memory implementation for scaffolding and tests.
type MemoryAssetRepository struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]*Asset
	now    func() time.Time
}

func NewMemoryAssetRepository() *MemoryAssetRepository {
	return &MemoryAssetRepository{
		assets: make(map[uuid.UUID]*Asset),
		now:    time.Now,
	}
}

func (m *MemoryAssetRepository) Create(_ context.Context, record *Asset) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneAsset(record)
	m.assets[copied.ID] = copied
	return cloneAsset(copied), nil
}

func (m *MemoryAssetRepository) GetByID(_ context.Context, id uuid.UUID) (*Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.assets[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "media asset", Key: id.String()}
	}
	return cloneAsset(rec), nil
}

func (m *MemoryAssetRepository) ListForEntity(_ context.Context, entityKind string, entityID uuid.UUID) ([]*Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Asset, 0)
	for _, rec := range m.assets {
		if rec.DeletedAt != nil || rec.EntityKind != entityKind || rec.EntityID != entityID {
			continue
		}
		out = append(out, cloneAsset(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryAssetRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.assets[id]
	if !ok || rec.DeletedAt != nil {
		return &NotFoundError{Resource: "media asset", Key: id.String()}
	}
	now := m.now()
	rec.DeletedAt = &now
	return nil
}

func (m *MemoryAssetRepository) ApplySubmission(_ context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.assets[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "media asset", Key: id.String()}
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

	return cloneAsset(rec), nil
}

func (m *MemoryAssetRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range m.assets {
		if rec.DeletedAt != nil {
			continue
		}
		counts[rec.SubmissionStatus]++
	}
	return counts, nil
}

func cloneAsset(src *Asset) *Asset {
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
