package media

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Asset is a media attachment (photo, video, floor plan) tied to a listing or
// project. Assets share the submission lifecycle; in practice only the submit
// edge is driven programmatically today, the review states exist for parity.
type Asset struct {
	bun.BaseModel `bun:"table:media_assets,alias:ma"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	OwnerID    uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	EntityKind string    `bun:"entity_kind,notnull" json:"entity_kind"`
	EntityID   uuid.UUID `bun:"entity_id,notnull,type:uuid" json:"entity_id"`

	Kind     string  `bun:"kind,notnull,default:'image'" json:"kind"`
	URL      string  `bun:"url,notnull" json:"url"`
	Caption  *string `bun:"caption" json:"caption,omitempty"`
	Position int     `bun:"position,notnull,default:0" json:"position"`

	SubmissionStatus  string         `bun:"submission_status,notnull,default:'draft'" json:"submission_status"`
	SubmissionPayload map[string]any `bun:"submission_payload,type:jsonb" json:"submission_payload,omitempty"`

	SubmittedAt *time.Time `bun:"submitted_at,nullzero" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `bun:"reviewed_at,nullzero" json:"reviewed_at,omitempty"`
	ApprovedAt  *time.Time `bun:"approved_at,nullzero" json:"approved_at,omitempty"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ArchivedAt  *time.Time `bun:"archived_at,nullzero" json:"archived_at,omitempty"`

	DeletedAt *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (a *Asset) EditableFieldMap() map[string]any {
	fields := map[string]any{
		"kind":     a.Kind,
		"url":      a.URL,
		"position": a.Position,
	}
	if a.Caption != nil {
		fields["caption"] = *a.Caption
	}
	return fields
}
