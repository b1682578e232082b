package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus mirrors the lifecycle states understood by the workflow engine.
type SubmissionStatus string

// Actor identifies who is attempting a transition. Callers resolve the role at
// the request boundary; the engine never reaches into ambient state.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// WorkflowEngine coordinates submission lifecycle transitions for marketplace entities.
type WorkflowEngine interface {
	// AttemptTransition validates, authorizes, persists and audits a single
	// status change. It is the only code path allowed to mutate submission status.
	AttemptTransition(ctx context.Context, input TransitionInput) (*SubmissionRecord, error)
	// AvailableTransitions lists the statuses reachable from the supplied
	// status for the given entity kind.
	AvailableTransitions(ctx context.Context, kind string, status SubmissionStatus) ([]SubmissionStatus, error)
	// RegisterAdapter installs the storage adapter for an entity kind.
	RegisterAdapter(kind string, adapter SubmissionAdapter) error
}

// TransitionInput captures a single transition attempt.
type TransitionInput struct {
	EntityKind string
	EntityID   uuid.UUID
	Target     SubmissionStatus
	Actor      Actor
	// Note, when present, is appended as a reviewer-authored submission note
	// visible to the owning developer.
	Note string
}

// SubmissionRecord is the engine's view of a publishable entity. It is
// computed per entity kind by the registered adapter, not stored as its own row.
type SubmissionRecord struct {
	EntityKind string
	EntityID   uuid.UUID
	Status     SubmissionStatus
	// Projection is the simplified externally visible status kept in lockstep
	// with Status after every successful transition.
	Projection string
	// OwnerID identifies the actor permitted to edit while the record is in
	// an editable state (draft, needs_changes).
	OwnerID uuid.UUID

	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	ApprovedAt  *time.Time
	PublishedAt *time.Time
	ArchivedAt  *time.Time

	// Payload is the immutable snapshot of editable fields captured at the
	// most recent transition into submitted.
	Payload map[string]any
}

// SubmissionUpdate is the single logical write an adapter applies for a
// transition: status, stamped timestamps and projection land together.
type SubmissionUpdate struct {
	Status     SubmissionStatus
	Projection string
	// ExpectedStatus guards the write: adapters must refuse to apply the
	// update when the stored status no longer matches (stale read).
	ExpectedStatus SubmissionStatus

	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	ApprovedAt  *time.Time
	PublishedAt *time.Time
	ArchivedAt  *time.Time

	// Payload replaces the stored submission snapshot when non-nil.
	Payload map[string]any
}

// SubmissionAdapter translates between the generic submission record and an
// entity kind's concrete storage shape.
type SubmissionAdapter interface {
	// Load returns the current submission view for the entity.
	Load(ctx context.Context, id uuid.UUID) (*SubmissionRecord, error)
	// ApplyTransition persists the update in one conditional write.
	ApplyTransition(ctx context.Context, id uuid.UUID, update SubmissionUpdate) (*SubmissionRecord, error)
	// EditableFields reports the fields snapshotted into the submission
	// payload when the entity enters submitted.
	EditableFields(ctx context.Context, id uuid.UUID) (map[string]any, error)
}

// NoteAppender persists submission notes keyed by (entity_type, entity_id).
type NoteAppender interface {
	Append(ctx context.Context, input NoteInput) error
}

// NoteInput captures an append-only submission note.
type NoteInput struct {
	EntityKind string
	EntityID   uuid.UUID
	AuthorID   uuid.UUID
	AuthorRole string
	Visibility string
	Note       string
}
