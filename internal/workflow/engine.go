package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// AuditChannel tags every audit record emitted by the engine.
const AuditChannel = "marketplace"

// NoteVisibilityDeveloper marks reviewer-authored notes the owning developer can read.
const NoteVisibilityDeveloper = "developer"

// Engine executes submission transitions: structural check, guard check,
// derived fields, one conditional persist, then audit. It is the single entry
// point through which submission status may change.
type Engine struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	adapters map[string]interfaces.SubmissionAdapter

	guards    *GuardEvaluator
	notes     interfaces.NoteAppender
	sink      interfaces.ActivitySink
	validator *PayloadValidator
	now       func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the clock used for transition timestamps (primarily for testing).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithNoteAppender wires the submission notes store used for reviewer notes.
func WithNoteAppender(notes interfaces.NoteAppender) Option {
	return func(e *Engine) {
		e.notes = notes
	}
}

// WithActivitySink wires the audit log receiving successful transitions.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithGuardEvaluator overrides the default guard rules.
func WithGuardEvaluator(guards *GuardEvaluator) Option {
	return func(e *Engine) {
		if guards != nil {
			e.guards = guards
		}
	}
}

// WithPayloadValidator installs snapshot validation applied on submit.
func WithPayloadValidator(validator *PayloadValidator) Option {
	return func(e *Engine) {
		e.validator = validator
	}
}

// New compiles the supplied definitions and constructs an engine. Adapters are
// registered separately, one per entity kind.
func New(definitions []Definition, opts ...Option) (*Engine, error) {
	engine := &Engine{
		tables:   make(map[string]*Table, len(definitions)),
		adapters: make(map[string]interfaces.SubmissionAdapter),
		guards:   NewGuardEvaluator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}

	for _, definition := range definitions {
		if strings.TrimSpace(definition.EntityKind) == "" {
			return nil, ErrDefinitionEntityRequired
		}
		if _, exists := engine.tables[definition.EntityKind]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, definition.EntityKind)
		}
		engine.tables[definition.EntityKind] = NewTable(definition)
	}

	return engine, nil
}

// RegisterAdapter installs the storage adapter for an entity kind. The kind
// must have a compiled definition.
func (e *Engine) RegisterAdapter(kind string, adapter interfaces.SubmissionAdapter) error {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if adapter == nil {
		return ErrAdapterRequired
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tables[kind]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntityKind, kind)
	}
	e.adapters[kind] = adapter
	return nil
}

// AvailableTransitions lists the statuses reachable from the supplied status.
func (e *Engine) AvailableTransitions(_ context.Context, kind string, status interfaces.SubmissionStatus) ([]interfaces.SubmissionStatus, error) {
	table, err := e.tableFor(kind)
	if err != nil {
		return nil, err
	}
	next := table.AllowedNext(domain.SubmissionStatus(status))
	result := make([]interfaces.SubmissionStatus, 0, len(next))
	for _, candidate := range next {
		result = append(result, interfaces.SubmissionStatus(candidate))
	}
	return result, nil
}

// InitialState reports the status assigned at entity creation for the kind.
func (e *Engine) InitialState(kind string) (interfaces.SubmissionStatus, error) {
	table, err := e.tableFor(kind)
	if err != nil {
		return "", err
	}
	return interfaces.SubmissionStatus(table.InitialState()), nil
}

// AttemptTransition runs the full transition sequence for one entity.
//
// Steps 1-3 (load, structural check, guard check) are deterministic local
// validations; nothing is written before all three pass. The persist in step 6
// is a single conditional write guarded by the loaded status, so a concurrent
// transition surfaces as ErrConflict instead of silently clobbering a
// reviewer's decision. No audit record can exist for a transition that did
// not happen.
func (e *Engine) AttemptTransition(ctx context.Context, input interfaces.TransitionInput) (*interfaces.SubmissionRecord, error) {
	if input.EntityID == uuid.Nil {
		return nil, ErrNilEntityID
	}
	target, ok := domain.ParseSubmissionStatus(string(input.Target))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, input.Target)
	}

	kind := strings.ToLower(strings.TrimSpace(input.EntityKind))
	table, err := e.tableFor(kind)
	if err != nil {
		return nil, err
	}
	adapter, err := e.adapterFor(kind)
	if err != nil {
		return nil, err
	}

	record, err := adapter.Load(ctx, input.EntityID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load %s %s: %v", ErrStorage, kind, input.EntityID, err)
	}

	current := domain.SubmissionStatus(record.Status)
	transition, ok := table.Lookup(current, target)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}

	if err := e.guards.Authorize(transition.Guard, input.Actor, record); err != nil {
		return nil, err
	}

	now := e.now()
	update := interfaces.SubmissionUpdate{
		Status:         interfaces.SubmissionStatus(target),
		Projection:     string(domain.ProjectionFor(target)),
		ExpectedStatus: record.Status,
	}

	switch target {
	case domain.SubmissionSubmitted:
		update.SubmittedAt = &now
		payload, err := adapter.EditableFields(ctx, input.EntityID)
		if err != nil {
			return nil, fmt.Errorf("%w: snapshot %s %s: %v", ErrStorage, kind, input.EntityID, err)
		}
		if e.validator != nil {
			if err := e.validator.Validate(kind, payload); err != nil {
				return nil, err
			}
		}
		update.Payload = payload
	case domain.SubmissionUnderReview, domain.SubmissionNeedsChanges:
		update.ReviewedAt = &now
	case domain.SubmissionApproved:
		update.ApprovedAt = &now
	case domain.SubmissionPublished:
		update.PublishedAt = &now
	case domain.SubmissionArchived:
		update.ArchivedAt = &now
	}

	updated, err := adapter.ApplyTransition(ctx, input.EntityID, update)
	if err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: persist %s %s: %v", ErrStorage, kind, input.EntityID, err)
	}

	if note := strings.TrimSpace(input.Note); note != "" && e.notes != nil {
		noteErr := e.notes.Append(ctx, interfaces.NoteInput{
			EntityKind: kind,
			EntityID:   input.EntityID,
			AuthorID:   input.Actor.ID,
			AuthorRole: input.Actor.Role,
			Visibility: NoteVisibilityDeveloper,
			Note:       note,
		})
		if noteErr != nil {
			return nil, fmt.Errorf("%w: append note for %s %s: %v", ErrStorage, kind, input.EntityID, noteErr)
		}
	}

	if e.sink != nil {
		sinkErr := e.sink.Log(ctx, interfaces.ActivityRecord{
			ActorID:    input.Actor.ID,
			UserID:     updated.OwnerID,
			Verb:       fmt.Sprintf("%s_submission_status", kind),
			ObjectType: kind,
			ObjectID:   input.EntityID.String(),
			Channel:    AuditChannel,
			OccurredAt: now,
			Data: map[string]any{
				"submission_status": string(target),
				"actor_role":        input.Actor.Role,
			},
		})
		if sinkErr != nil {
			return nil, fmt.Errorf("%w: audit %s %s: %v", ErrStorage, kind, input.EntityID, sinkErr)
		}
	}

	return updated, nil
}

func (e *Engine) tableFor(kind string) (*Table, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	e.mu.RLock()
	table, ok := e.tables[kind]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityKind, kind)
	}
	return table, nil
}

func (e *Engine) adapterFor(kind string) (interfaces.SubmissionAdapter, error) {
	e.mu.RLock()
	adapter, ok := e.adapters[kind]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for %s", ErrUnknownEntityKind, kind)
	}
	return adapter, nil
}

var _ interfaces.WorkflowEngine = (*Engine)(nil)
