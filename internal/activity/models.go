package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AuditLog is the persisted form of an activity record. Every successful
// workflow transition and staff-side action lands here.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ActorID    uuid.UUID      `bun:"actor_id,notnull,type:uuid" json:"actor_id"`
	UserID     uuid.UUID      `bun:"user_id,type:uuid,nullzero" json:"user_id,omitempty"`
	TenantID   uuid.UUID      `bun:"tenant_id,type:uuid,nullzero" json:"tenant_id,omitempty"`
	Verb       string         `bun:"verb,notnull" json:"verb"`
	ObjectType string         `bun:"object_type,notnull" json:"object_type"`
	ObjectID   string         `bun:"object_id,notnull" json:"object_id"`
	Channel    string         `bun:"channel,notnull" json:"channel"`
	Data       map[string]any `bun:"data,type:jsonb" json:"data,omitempty"`
	OccurredAt time.Time      `bun:"occurred_at,notnull" json:"occurred_at"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
