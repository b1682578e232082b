package workflow

import "errors"

var (
	// ErrNotFound indicates the entity does not exist for the requested kind.
	ErrNotFound = errors.New("workflow: entity not found")
	// ErrInvalidTransition indicates the requested edge is absent from the
	// transition table for the current status, independent of actor role.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")
	// ErrForbidden indicates the structural edge exists but the actor's role or
	// ownership fails the guard for it.
	ErrForbidden = errors.New("workflow: transition forbidden")
	// ErrConflict indicates the stored status changed between load and persist;
	// the caller may reload and retry.
	ErrConflict = errors.New("workflow: concurrent transition detected")
	// ErrStorage wraps persistence failures. Nothing was committed; the whole
	// attempt is safe to retry.
	ErrStorage = errors.New("workflow: storage failure")

	// ErrUnknownEntityKind indicates no adapter or definition is registered for
	// the requested entity kind.
	ErrUnknownEntityKind = errors.New("workflow: entity kind not registered")
	// ErrUnknownStatus signals the requested status is outside the lifecycle enum.
	ErrUnknownStatus = errors.New("workflow: unknown submission status")
	// ErrNilEntityID signals input validation failure.
	ErrNilEntityID = errors.New("workflow: entity id required")
	// ErrAdapterRequired indicates an adapter registration with a nil adapter.
	ErrAdapterRequired = errors.New("workflow: adapter required")
	// ErrPayloadInvalid indicates the editable-field snapshot failed schema validation.
	ErrPayloadInvalid = errors.New("workflow: submission payload invalid")
)
