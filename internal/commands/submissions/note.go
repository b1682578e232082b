package submissioncmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-marketplace/internal/commands"
	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

const appendNoteMessageType = "marketplace.submission.append_note"

// AppendSubmissionNoteCommand records a reviewer or owner remark on an entity
// outside of a status transition.
type AppendSubmissionNoteCommand struct {
	EntityKind string    `json:"entity_kind"`
	EntityID   uuid.UUID `json:"entity_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorRole string    `json:"author_role"`
	Visibility string    `json:"visibility,omitempty"`
	Note       string    `json:"note"`
}

// Type implements command.Message.
func (AppendSubmissionNoteCommand) Type() string { return appendNoteMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m AppendSubmissionNoteCommand) Validate() error {
	errs := validation.Errors{}
	if m.EntityKind == "" {
		errs["entity_kind"] = validation.NewError("marketplace.submission.append_note.entity_kind_required", "entity_kind is required")
	}
	if m.EntityID == uuid.Nil {
		errs["entity_id"] = validation.NewError("marketplace.submission.append_note.entity_id_required", "entity_id is required")
	}
	if m.AuthorID == uuid.Nil {
		errs["author_id"] = validation.NewError("marketplace.submission.append_note.author_required", "author_id is required")
	}
	if m.Note == "" {
		errs["note"] = validation.NewError("marketplace.submission.append_note.note_required", "note is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AppendSubmissionNoteHandler persists notes via the note service.
type AppendSubmissionNoteHandler struct {
	inner *commands.Handler[AppendSubmissionNoteCommand]
}

// NewAppendSubmissionNoteHandler constructs a handler wired to the note service.
func NewAppendSubmissionNoteHandler(service notes.Service, logger interfaces.Logger, opts ...commands.HandlerOption[AppendSubmissionNoteCommand]) *AppendSubmissionNoteHandler {
	exec := func(ctx context.Context, msg AppendSubmissionNoteCommand) error {
		return service.Append(ctx, interfaces.NoteInput{
			EntityKind: msg.EntityKind,
			EntityID:   msg.EntityID,
			AuthorID:   msg.AuthorID,
			AuthorRole: msg.AuthorRole,
			Visibility: msg.Visibility,
			Note:       msg.Note,
		})
	}

	handlerOpts := []commands.HandlerOption[AppendSubmissionNoteCommand]{
		commands.WithLogger[AppendSubmissionNoteCommand](logger),
		commands.WithOperation[AppendSubmissionNoteCommand]("submission.append_note"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &AppendSubmissionNoteHandler{
		inner: commands.NewHandler[AppendSubmissionNoteCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[AppendSubmissionNoteCommand].Execute.
func (h *AppendSubmissionNoteHandler) Execute(ctx context.Context, msg AppendSubmissionNoteCommand) error {
	return h.inner.Execute(ctx, msg)
}
