package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrVerbRequired   = errors.New("activity: verb required")
	ErrObjectRequired = errors.New("activity: object reference required")
)

// BunSink persists activity records as audit log rows.
type BunSink struct {
	db  *bun.DB
	id  func() uuid.UUID
	now func() time.Time
}

// NewBunSink constructs an audit sink writing into audit_logs.
func NewBunSink(db *bun.DB) *BunSink {
	return &BunSink{db: db, id: uuid.New, now: time.Now}
}

var _ interfaces.ActivitySink = (*BunSink)(nil)

func (s *BunSink) Log(ctx context.Context, record interfaces.ActivityRecord) error {
	entry, err := auditEntry(record, s.id, s.now)
	if err != nil {
		return err
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("activity: persist audit log: %w", err)
	}
	return nil
}

// ListForObject returns the audit trail for one entity, newest first.
func (s *BunSink) ListForObject(ctx context.Context, objectType, objectID string) ([]*AuditLog, error) {
	var records []*AuditLog
	err := s.db.NewSelect().
		Model(&records).
		Where("object_type = ?", objectType).
		Where("object_id = ?", objectID).
		Order("occurred_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("activity: list audit logs: %w", err)
	}
	return records, nil
}

// MemorySink records activity in memory for scaffolding and tests.
type MemorySink struct {
	mu      sync.RWMutex
	entries []*AuditLog
	id      func() uuid.UUID
	now     func() time.Time
}

func NewMemorySink() *MemorySink {
	return &MemorySink{id: uuid.New, now: time.Now}
}

var _ interfaces.ActivitySink = (*MemorySink)(nil)

func (s *MemorySink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	entry, err := auditEntry(record, s.id, s.now)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// ListForObject returns the audit trail for one entity, newest first.
func (s *MemorySink) ListForObject(_ context.Context, objectType, objectID string) ([]*AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*AuditLog, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if entry.ObjectType != objectType || entry.ObjectID != objectID {
			continue
		}
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

// Entries returns every recorded entry in insertion order.
func (s *MemorySink) Entries() []*AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*AuditLog, len(s.entries))
	for i, entry := range s.entries {
		copied := *entry
		out[i] = &copied
	}
	return out
}

func auditEntry(record interfaces.ActivityRecord, id func() uuid.UUID, now func() time.Time) (*AuditLog, error) {
	if strings.TrimSpace(record.Verb) == "" {
		return nil, ErrVerbRequired
	}
	if strings.TrimSpace(record.ObjectType) == "" || strings.TrimSpace(record.ObjectID) == "" {
		return nil, ErrObjectRequired
	}

	occurred := record.OccurredAt
	if occurred.IsZero() {
		occurred = now()
	}

	data := make(map[string]any, len(record.Data))
	for k, v := range record.Data {
		data[k] = v
	}

	return &AuditLog{
		ID:         id(),
		ActorID:    record.ActorID,
		UserID:     record.UserID,
		TenantID:   record.TenantID,
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Channel:    record.Channel,
		Data:       data,
		OccurredAt: occurred,
		CreatedAt:  now(),
	}, nil
}
