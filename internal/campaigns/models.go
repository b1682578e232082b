package campaigns

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Campaign is a developer-funded ad placement promoting a listing or project.
// New campaigns start in pending_setup until the creation flow activates them
// into the regular submission lifecycle.
type Campaign struct {
	bun.BaseModel `bun:"table:ad_campaigns,alias:ac"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ReferenceCode string    `bun:"reference_code,notnull" json:"reference_code"`
	OwnerID       uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`

	Name       string     `bun:"name,notnull" json:"name"`
	Headline   *string    `bun:"headline" json:"headline,omitempty"`
	Objective  string     `bun:"objective,notnull,default:'leads'" json:"objective"`
	Budget     int64      `bun:"budget,notnull" json:"budget"`
	Currency   string     `bun:"currency,notnull,default:'EGP'" json:"currency"`
	StartsAt   *time.Time `bun:"starts_at,nullzero" json:"starts_at,omitempty"`
	EndsAt     *time.Time `bun:"ends_at,nullzero" json:"ends_at,omitempty"`
	TargetKind *string    `bun:"target_kind" json:"target_kind,omitempty"`
	TargetID   *uuid.UUID `bun:"target_id,type:uuid,nullzero" json:"target_id,omitempty"`

	SubmissionStatus  string         `bun:"submission_status,notnull,default:'pending_setup'" json:"submission_status"`
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

func (c *Campaign) EditableFieldMap() map[string]any {
	fields := map[string]any{
		"name":      c.Name,
		"objective": c.Objective,
		"budget":    c.Budget,
		"currency":  c.Currency,
	}
	if c.Headline != nil {
		fields["headline"] = *c.Headline
	}
	if c.StartsAt != nil {
		fields["starts_at"] = c.StartsAt.Format(time.RFC3339)
	}
	if c.EndsAt != nil {
		fields["ends_at"] = c.EndsAt.Format(time.RFC3339)
	}
	if c.TargetKind != nil {
		fields["target_kind"] = *c.TargetKind
	}
	if c.TargetID != nil {
		fields["target_id"] = c.TargetID.String()
	}
	return fields
}
