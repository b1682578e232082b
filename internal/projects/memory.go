package projects

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryProjectRepository is an in-memory implementation for scaffolding and tests.
type MemoryProjectRepository struct {
	mu        sync.RWMutex
	projects  map[uuid.UUID]*Project
	slugIndex map[string]uuid.UUID
	now       func() time.Time
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects:  make(map[uuid.UUID]*Project),
		slugIndex: make(map[string]uuid.UUID),
		now:       time.Now,
	}
}

func (m *MemoryProjectRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneProject(record)
	m.projects[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryProjectRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.projects[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "project", Key: id.String()}
	}
	return cloneProject(rec), nil
}

func (m *MemoryProjectRepository) GetBySlug(_ context.Context, slugValue string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugValue]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: slugValue}
	}
	rec := m.projects[id]
	if rec == nil || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "project", Key: slugValue}
	}
	return cloneProject(rec), nil
}

func (m *MemoryProjectRepository) List(_ context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Project, 0, len(m.projects))
	for _, rec := range m.projects {
		if rec.DeletedAt != nil {
			continue
		}
		out = append(out, cloneProject(rec))
	}
	return out, nil
}

func (m *MemoryProjectRepository) Update(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.projects[record.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "project", Key: record.ID.String()}
	}

	delete(m.slugIndex, existing.Slug)
	copied := cloneProject(record)
	m.projects[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryProjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.projects[id]
	if !ok || rec.DeletedAt != nil {
		return &NotFoundError{Resource: "project", Key: id.String()}
	}
	now := m.now()
	rec.DeletedAt = &now
	return nil
}

func (m *MemoryProjectRepository) ApplySubmission(_ context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.projects[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "project", Key: id.String()}
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

	return cloneProject(rec), nil
}

func (m *MemoryProjectRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range m.projects {
		if rec.DeletedAt != nil {
			continue
		}
		counts[rec.SubmissionStatus]++
	}
	return counts, nil
}

func cloneProject(src *Project) *Project {
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
