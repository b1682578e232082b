package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
)

var (
	// ErrDefinitionEntityRequired indicates the workflow definition lacks an entity identifier.
	ErrDefinitionEntityRequired = errors.New("workflow: definition entity required")
	// ErrDefinitionStatesRequired indicates the workflow definition does not declare any states.
	ErrDefinitionStatesRequired = errors.New("workflow: definition requires at least one state")
	// ErrStateNameRequired indicates a workflow state is missing its name.
	ErrStateNameRequired = errors.New("workflow: state name required")
	// ErrDuplicateState indicates duplicate workflow state names were declared.
	ErrDuplicateState = errors.New("workflow: duplicate state")
	// ErrDuplicateDefinition indicates multiple definitions were provided for the same entity.
	ErrDuplicateDefinition = errors.New("workflow: duplicate entity definition")
	// ErrTransitionNameRequired indicates a transition lacks a name.
	ErrTransitionNameRequired = errors.New("workflow: transition name required")
	// ErrTransitionStateUnknown indicates a transition references a state that was not declared.
	ErrTransitionStateUnknown = errors.New("workflow: transition references unknown state")
	// ErrDuplicateTransition indicates the same edge is declared multiple times for a state.
	ErrDuplicateTransition = errors.New("workflow: duplicate transition for state")
	// ErrInitialStateInvalid indicates the supplied initial state flag is inconsistent or unknown.
	ErrInitialStateInvalid = errors.New("workflow: invalid initial state")
)

// Definition is the compiled state machine for one entity kind.
type Definition struct {
	EntityKind   string
	InitialState domain.SubmissionStatus
	States       []StateDefinition
	Transitions  []Transition
}

// StateDefinition documents a lifecycle state.
type StateDefinition struct {
	Name        domain.SubmissionStatus
	Description string
	Terminal    bool
}

// Transition declares an allowed edge between two states. Guard names the
// authorization rule evaluated after the structural check passes.
type Transition struct {
	Name        string
	Description string
	From        domain.SubmissionStatus
	To          domain.SubmissionStatus
	Guard       string
}

// CompileDefinitionConfigs converts configuration-driven workflow definitions
// into runtime definitions. Validation is applied to ensure state and
// transition integrity before registration.
func CompileDefinitionConfigs(configs []runtimeconfig.WorkflowDefinitionConfig) ([]Definition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	definitions := make([]Definition, 0, len(configs))
	seenEntities := make(map[string]struct{}, len(configs))

	for _, cfg := range configs {
		definition, err := compileDefinitionConfig(cfg)
		if err != nil {
			return nil, err
		}

		if _, exists := seenEntities[definition.EntityKind]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, definition.EntityKind)
		}
		seenEntities[definition.EntityKind] = struct{}{}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

func compileDefinitionConfig(cfg runtimeconfig.WorkflowDefinitionConfig) (Definition, error) {
	entity := strings.ToLower(strings.TrimSpace(cfg.Entity))
	if entity == "" {
		return Definition{}, ErrDefinitionEntityRequired
	}

	if len(cfg.States) == 0 {
		return Definition{}, fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, entity)
	}

	states, ordered, initial, err := compileStates(cfg.States)
	if err != nil {
		return Definition{}, err
	}

	transitions, err := compileTransitions(cfg.Transitions, states)
	if err != nil {
		return Definition{}, err
	}

	return Definition{
		EntityKind:   entity,
		InitialState: initial,
		States:       ordered,
		Transitions:  transitions,
	}, nil
}

func compileStates(configs []runtimeconfig.WorkflowStateConfig) (map[domain.SubmissionStatus]StateDefinition, []StateDefinition, domain.SubmissionStatus, error) {
	result := make(map[domain.SubmissionStatus]StateDefinition, len(configs))
	ordered := make([]StateDefinition, 0, len(configs))
	var initial domain.SubmissionStatus
	var initialDeclared bool

	for idx, cfg := range configs {
		name := strings.ToLower(strings.TrimSpace(cfg.Name))
		if name == "" {
			return nil, nil, "", fmt.Errorf("%w at index %d", ErrStateNameRequired, idx)
		}
		normalized := domain.SubmissionStatus(name)
		if _, exists := result[normalized]; exists {
			return nil, nil, "", fmt.Errorf("%w: %s", ErrDuplicateState, normalized)
		}
		if cfg.Initial {
			if initialDeclared {
				return nil, nil, "", ErrInitialStateInvalid
			}
			initial = normalized
			initialDeclared = true
		}
		state := StateDefinition{
			Name:        normalized,
			Description: strings.TrimSpace(cfg.Description),
			Terminal:    cfg.Terminal,
		}
		result[normalized] = state
		ordered = append(ordered, state)
	}

	if !initialDeclared {
		initial = ordered[0].Name
	}

	if _, ok := result[initial]; !ok {
		return nil, nil, "", fmt.Errorf("%w: %s", ErrInitialStateInvalid, initial)
	}

	return result, ordered, initial, nil
}

func compileTransitions(configs []runtimeconfig.WorkflowTransitionConfig, states map[domain.SubmissionStatus]StateDefinition) ([]Transition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	result := make([]Transition, 0, len(configs))
	seen := make(map[string]struct{}, len(configs))

	for idx, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, fmt.Errorf("%w at index %d", ErrTransitionNameRequired, idx)
		}

		fromRaw := strings.ToLower(strings.TrimSpace(cfg.From))
		toRaw := strings.ToLower(strings.TrimSpace(cfg.To))
		if fromRaw == "" || toRaw == "" {
			return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionStateUnknown, cfg.From, cfg.To)
		}

		from := domain.SubmissionStatus(fromRaw)
		to := domain.SubmissionStatus(toRaw)
		if _, ok := states[from]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, from)
		}
		if _, ok := states[to]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, to)
		}

		key := edgeKey(from, to)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateTransition, from, to)
		}
		seen[key] = struct{}{}

		result = append(result, Transition{
			Name:        name,
			Description: strings.TrimSpace(cfg.Description),
			From:        from,
			To:          to,
			Guard:       strings.ToLower(strings.TrimSpace(cfg.Guard)),
		})
	}

	return result, nil
}

func edgeKey(from, to domain.SubmissionStatus) string {
	return string(from) + "::" + string(to)
}
