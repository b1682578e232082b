package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Project is a developer-owned real estate development. Projects carry the
// submission lifecycle but no separate projection column; external surfaces
// derive visibility from the submission status directly.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:pr"`

	ID      uuid.UUID `bun:",pk,type:uuid" json:"id"`
	OwnerID uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`

	Name        string     `bun:"name,notnull" json:"name"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	Description *string    `bun:"description" json:"description,omitempty"`
	City        *string    `bun:"city" json:"city,omitempty"`
	District    *string    `bun:"district" json:"district,omitempty"`
	DeliveryAt  *time.Time `bun:"delivery_at,nullzero" json:"delivery_at,omitempty"`
	UnitCount   int        `bun:"unit_count" json:"unit_count"`

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

// EditableFieldMap returns the developer-editable fields snapshotted into the
// submission payload.
func (p *Project) EditableFieldMap() map[string]any {
	fields := map[string]any{
		"name":       p.Name,
		"slug":       p.Slug,
		"unit_count": p.UnitCount,
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.City != nil {
		fields["city"] = *p.City
	}
	if p.District != nil {
		fields["district"] = *p.District
	}
	if p.DeliveryAt != nil {
		fields["delivery_at"] = p.DeliveryAt.Format(time.RFC3339)
	}
	return fields
}
