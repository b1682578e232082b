package notes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryNoteRepository is an in-memory implementation for scaffolding and tests.
type MemoryNoteRepository struct {
	mu    sync.RWMutex
	notes []*SubmissionNote
}

func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{}
}

func (m *MemoryNoteRepository) Create(_ context.Context, record *SubmissionNote) (*SubmissionNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	m.notes = append(m.notes, &copied)
	clone := copied
	return &clone, nil
}

func (m *MemoryNoteRepository) ListForEntity(_ context.Context, entityKind string, entityID uuid.UUID) ([]*SubmissionNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*SubmissionNote, 0)
	for _, record := range m.notes {
		if record.EntityKind != entityKind || record.EntityID != entityID {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryNoteRepository) ListRecent(_ context.Context, limit int) ([]*SubmissionNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]*SubmissionNote, 0, len(m.notes))
	for _, record := range m.notes {
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
