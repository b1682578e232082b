package notes

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubmissionNote is an append-only reviewer note attached to a submission.
// Notes are never edited or deleted once written.
type SubmissionNote struct {
	bun.BaseModel `bun:"table:submission_notes,alias:sn"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	EntityKind string    `bun:"entity_kind,notnull" json:"entity_kind"`
	EntityID   uuid.UUID `bun:"entity_id,notnull,type:uuid" json:"entity_id"`
	AuthorID   uuid.UUID `bun:"author_id,notnull,type:uuid" json:"author_id"`
	AuthorRole string    `bun:"author_role,notnull" json:"author_role"`
	Visibility string    `bun:"visibility,notnull,default:'developer'" json:"visibility"`
	Note       string    `bun:"note,notnull" json:"note"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
