package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Listing is the canonical record for a resale or rental unit offered on the
// marketplace. Submission lifecycle columns live alongside the editable fields
// so a transition lands in a single row write.
type Listing struct {
	bun.BaseModel `bun:"table:listings,alias:li"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ListingCode string     `bun:"listing_code,notnull" json:"listing_code"`
	ProjectID   *uuid.UUID `bun:"project_id,type:uuid,nullzero" json:"project_id,omitempty"`
	OwnerID     uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id"`

	Title        string  `bun:"title,notnull" json:"title"`
	Slug         string  `bun:"slug,notnull" json:"slug"`
	Description  *string `bun:"description" json:"description,omitempty"`
	PropertyType string  `bun:"property_type,notnull" json:"property_type"`
	Purpose      string  `bun:"purpose,notnull,default:'sale'" json:"purpose"`
	Price        int64   `bun:"price,notnull" json:"price"`
	Currency     string  `bun:"currency,notnull,default:'EGP'" json:"currency"`
	Bedrooms     int     `bun:"bedrooms" json:"bedrooms"`
	Bathrooms    int     `bun:"bathrooms" json:"bathrooms"`
	AreaSqm      float64 `bun:"area_sqm" json:"area_sqm"`
	City         *string `bun:"city" json:"city,omitempty"`
	District     *string `bun:"district" json:"district,omitempty"`
	UnitCode     *string `bun:"unit_code" json:"unit_code,omitempty"`

	// SubmissionStatus drives the review workflow. Status is the simplified
	// projection external surfaces read; the two move together.
	SubmissionStatus  string         `bun:"submission_status,notnull,default:'draft'" json:"submission_status"`
	Status            string         `bun:"status,notnull,default:'draft'" json:"status"`
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
// submission payload when the listing enters review.
func (l *Listing) EditableFieldMap() map[string]any {
	fields := map[string]any{
		"title":         l.Title,
		"slug":          l.Slug,
		"property_type": l.PropertyType,
		"purpose":       l.Purpose,
		"price":         l.Price,
		"currency":      l.Currency,
		"bedrooms":      l.Bedrooms,
		"bathrooms":     l.Bathrooms,
		"area_sqm":      l.AreaSqm,
	}
	if l.Description != nil {
		fields["description"] = *l.Description
	}
	if l.City != nil {
		fields["city"] = *l.City
	}
	if l.District != nil {
		fields["district"] = *l.District
	}
	if l.UnitCode != nil {
		fields["unit_code"] = *l.UnitCode
	}
	return fields
}
