package submissioncmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-marketplace/internal/commands"
	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

const transitionMessageType = "marketplace.submission.transition"

// TransitionSubmissionCommand requests a single lifecycle status change for a
// publishable entity. The workflow engine decides whether the edge exists and
// whether the actor's role may take it.
type TransitionSubmissionCommand struct {
	EntityKind string    `json:"entity_kind"`
	EntityID   uuid.UUID `json:"entity_id"`
	Target     string    `json:"target"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Note       string    `json:"note,omitempty"`
}

// Type implements command.Message.
func (TransitionSubmissionCommand) Type() string { return transitionMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m TransitionSubmissionCommand) Validate() error {
	errs := validation.Errors{}
	if m.EntityKind == "" {
		errs["entity_kind"] = validation.NewError("marketplace.submission.transition.entity_kind_required", "entity_kind is required")
	}
	if m.EntityID == uuid.Nil {
		errs["entity_id"] = validation.NewError("marketplace.submission.transition.entity_id_required", "entity_id is required")
	}
	if _, ok := domain.ParseSubmissionStatus(m.Target); !ok {
		errs["target"] = validation.NewError("marketplace.submission.transition.target_invalid", "target is not a known submission status")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("marketplace.submission.transition.actor_required", "actor_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransitionSubmissionHandler drives status changes through the workflow engine
// using the shared command handler foundation.
type TransitionSubmissionHandler struct {
	inner *commands.Handler[TransitionSubmissionCommand]
}

// NewTransitionSubmissionHandler constructs a handler wired to the workflow engine.
func NewTransitionSubmissionHandler(engine interfaces.WorkflowEngine, logger interfaces.Logger, opts ...commands.HandlerOption[TransitionSubmissionCommand]) *TransitionSubmissionHandler {
	exec := func(ctx context.Context, msg TransitionSubmissionCommand) error {
		_, err := engine.AttemptTransition(ctx, interfaces.TransitionInput{
			EntityKind: msg.EntityKind,
			EntityID:   msg.EntityID,
			Target:     interfaces.SubmissionStatus(msg.Target),
			Actor:      interfaces.Actor{ID: msg.ActorID, Role: msg.ActorRole},
			Note:       msg.Note,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[TransitionSubmissionCommand]{
		commands.WithLogger[TransitionSubmissionCommand](logger),
		commands.WithOperation[TransitionSubmissionCommand]("submission.transition"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TransitionSubmissionHandler{
		inner: commands.NewHandler[TransitionSubmissionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TransitionSubmissionCommand].Execute.
func (h *TransitionSubmissionHandler) Execute(ctx context.Context, msg TransitionSubmissionCommand) error {
	return h.inner.Execute(ctx, msg)
}
